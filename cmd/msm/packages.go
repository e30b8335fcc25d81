package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/messages"
	"github.com/Lock-The-Door/Minecraft-Server-Maker/internal/modpack"
)

func newPackagesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   messages.PackagesUse,
		Short: messages.PackagesShort,
	}
	cmd.AddCommand(newPackagesListCmd(root), newPackagesResolveCmd(root))
	return cmd
}

func newPackagesListCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.PackagesListUse,
		Short: messages.PackagesListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := root.prepare(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			loader := modpack.NewLoader(cfg.Paths.Registry)
			names, err := loader.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				_, _ = fmt.Fprintf(out, messages.PackagesNoneFmt, loader.Dir())
				return nil
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}

func newPackagesResolveCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   messages.PackagesResolveUse,
		Short: messages.PackagesResolveShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := root.prepare(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = closer.Close() }()

			res, err := modpack.Resolve(cmd.Context(), modpack.NewLoader(cfg.Paths.Registry), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, messages.PackagesPackagesFmt, strings.Join(res.Packages, ", "))
			_, _ = fmt.Fprintln(out, messages.PackagesAddonsHeader)
			for _, addon := range res.Addons {
				_, _ = fmt.Fprintf(out, messages.PackagesItemFmt, addon)
			}
			_, _ = fmt.Fprintln(out, messages.PackagesConfigsHeader)
			for _, c := range res.Configs {
				_, _ = fmt.Fprintf(out, messages.PackagesConfigLineFmt, c.Source, c.Dest)
			}
			return nil
		},
	}
}
