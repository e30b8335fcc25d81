package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/config"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/logging"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
)

var (
	loadConfig   = config.Load
	setupLogging = logging.Setup
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	verbose    int
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolP("version", "", false, messages.RootVersionFlag)
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", messages.RootFlagConfig)
	cmd.PersistentFlags().CountVarP(&opts.verbose, "verbose", "v", messages.RootFlagVerbose)

	cmd.AddCommand(
		newCreateCmd(opts),
		newPackagesCmd(opts),
	)
	return cmd
}

// prepare configures logging on the command's stderr and loads the config.
// The returned closer releases the log file.
func (o *rootOptions) prepare(cmd *cobra.Command) (*config.Config, io.Closer, error) {
	closer := setupLogging(o.verbose, cmd.ErrOrStderr())
	cfg, err := loadConfig(o.configPath)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return cfg, closer, nil
}
