package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/addons"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/config"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/installer"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/metrics"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/modpack"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/pipeline"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/process"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/settings"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/store"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/wizard"
)

var (
	isInteractive = wizard.IsInteractive
	newPromptUI   = func() wizard.UI { return wizard.NewHuhUI() }
	newRunner     = func(logger *zerolog.Logger, m *metrics.Metrics) process.Runner {
		return &process.ExecRunner{Logger: logger, Metrics: m}
	}
)

type createOptions struct {
	nonInteractive bool
	metricsFile    string
	parallelAdds   int
}

func newCreateCmd(root *rootOptions) *cobra.Command {
	opts := &createOptions{}
	cmd := &cobra.Command{
		Use:   messages.CreateUse,
		Short: messages.CreateShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, messages.CreateFlagNonInteractive)
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", messages.CreateFlagMetricsFile)
	cmd.Flags().IntVar(&opts.parallelAdds, "parallel-adds", 0, messages.CreateFlagParallelAdds)
	return cmd
}

func runCreate(cmd *cobra.Command, root *rootOptions, opts *createOptions) error {
	cfg, closer, err := root.prepare(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	if cmd.Flags().Changed("parallel-adds") {
		cfg.PackageManager.ParallelAdds = opts.parallelAdds
		if err := cfg.Validate("--parallel-adds"); err != nil {
			return err
		}
	}

	logger := logging.Get("create")
	m := metrics.New()
	runner := newRunner(nil, m)
	registry := modpack.NewLoader(cfg.Paths.Registry)
	s := store.New()

	p := &pipeline.Provisioner{
		Store:   s,
		Capture: captureFunc(cfg, registry, opts.nonInteractive || !isInteractive()),
		Installer: installer.New(installer.Options{
			URL:     cfg.Installer.URL,
			Java:    cfg.Installer.Java,
			SHA256:  cfg.Installer.SHA256,
			Refresh: cfg.Installer.Refresh,
			Runner:  runner,
		}),
		Addons: addons.New(addons.Options{
			Command:      cfg.PackageManager.Command,
			Loader:       cfg.PackageManager.Loader,
			ParallelAdds: cfg.PackageManager.ParallelAdds,
			SkinBypass:   cfg.PackageManager.SkinBypassAddons,
			Runner:       runner,
		}),
		Packages:   registry,
		Settings:   settings.New(s, nil),
		ScriptsDir: existingDir(cfg.Paths.Scripts, logger),
		ConfigsDir: cfg.Paths.Configs,
		Metrics:    m,
	}

	result, runErr := p.Run(cmd.Context())
	if opts.metricsFile != "" {
		if err := m.WriteTextfile(opts.metricsFile); err != nil {
			if runErr == nil {
				return fmt.Errorf(messages.CreateWriteMetricsFmt, opts.metricsFile, err)
			}
			logger.Warn().Err(err).Str("path", opts.metricsFile).Msg("metrics file not written")
		}
	}
	if runErr != nil {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), color.RedString(messages.CreateFailedFmt, runErr))
		return &SilentExitError{Code: 1}
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprint(out, color.GreenString(messages.CreateDoneFmt, result.InstallDir))
	_, _ = fmt.Fprintf(out, messages.CreateAddonsFmt, len(result.Addons), strings.Join(result.Resolution.Packages, ", "))
	return nil
}

// captureFunc picks the interactive prompts or the [answers] table.
func captureFunc(cfg *config.Config, registry wizard.PackageLister, fromAnswers bool) pipeline.CaptureFunc {
	if fromAnswers {
		return func(_ context.Context, s *store.Store) error {
			return wizard.Apply(cfg.Answers, s, registry)
		}
	}
	c := &wizard.Capturer{UI: newPromptUI(), Packages: registry}
	return c.Run
}

// existingDir returns dir when it is a directory and "" otherwise.
func existingDir(dir string, logger zerolog.Logger) string {
	if dir == "" {
		return ""
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		logger.Info().Str("dir", dir).Msg("no start scripts to stage")
		return ""
	}
	return dir
}
