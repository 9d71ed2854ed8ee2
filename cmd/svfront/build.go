package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VeriOpen/slang"
	"github.com/VeriOpen/slang/internal/config"
)

type buildFlags struct {
	configPath string
	userDirs   []string
	sysDirs    []string
	defines    []string
}

func newBuildCommand(exitStatus *int) *cobra.Command {
	flags := &buildFlags{}
	cmd := &cobra.Command{
		Use:   "build <file>...",
		Short: "parse and elaborate one or more source files, printing diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, args, flags, exitStatus)
		},
	}
	cmd.Flags().StringVar(&flags.configPath, "config", "", "path to a YAML compilation config")
	cmd.Flags().StringArrayVarP(&flags.userDirs, "include", "I", nil, "user include directory (repeatable)")
	cmd.Flags().StringArrayVar(&flags.sysDirs, "sysinclude", nil, "system include directory (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.defines, "define", "D", nil, "predefine NAME=TEXT (repeatable)")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string, flags *buildFlags, exitStatus *int) error {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return fmt.Errorf("svfront: loading config: %w", err)
		}
		cfg = loaded
	}
	opts := slang.Options{
		UserIncludeDirs:   append(append([]string{}, cfg.UserIncludeDirs...), flags.userDirs...),
		SystemIncludeDirs: append(append([]string{}, cfg.SystemIncludeDirs...), flags.sysDirs...),
		Predefines:        mergeDefines(cfg.Predefines, flags.defines),
	}

	comp := slang.New(nil)
	ctx := cmd.Context()
	for _, path := range args {
		if _, err := comp.ParseFile(ctx, path, opts); err != nil {
			return fmt.Errorf("svfront: %s: %w", path, err)
		}
	}

	for _, d := range comp.Diagnostics() {
		loc, err := comp.SM.Resolve(d.Range.Start)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s: %s\n", d.Severity, d.Code, d.Message())
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: %s: %s: %s\n",
			loc.Path, loc.Line+1, loc.Column+1, d.Severity, d.Code, d.Message())
		for _, note := range d.Notes {
			noteLoc, err := comp.SM.Resolve(note.Range.Start)
			if err != nil {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%d:%d: note: %s\n", noteLoc.Path, noteLoc.Line+1, noteLoc.Column+1, note.Message)
		}
	}

	if comp.Diags.HasErrors() {
		*exitStatus = exitDiagnostics
	}
	return nil
}

func mergeDefines(base map[string]string, overrides []string) map[string]string {
	out := make(map[string]string, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for _, raw := range overrides {
		name, value, _ := strings.Cut(raw, "=")
		out[name] = value
	}
	return out
}
