package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/VeriOpen/slang/internal/config"
)

func newDefinesCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "defines",
		Short: "print the macros a build would start with, without parsing any file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("svfront: loading config: %w", err)
				}
				cfg = loaded
			}
			names := make([]string, 0, len(cfg.Predefines))
			for name := range cfg.Predefines {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", name, cfg.Predefines[name])
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML compilation config")
	return cmd
}
