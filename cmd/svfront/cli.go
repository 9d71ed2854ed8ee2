package main

import "github.com/spf13/cobra"

// Exit codes, mirroring the teacher CLI's exitOK/exitCheck/exitUnsafe/
// exitInternal split: a clean run and a run that merely found diagnostics
// both succeed as far as cobra is concerned (RunE returns nil), but they
// leave a different value in the exit status that run() returns.
const (
	exitOK          = 0
	exitDiagnostics = 1
	exitInternal    = 3
)

// exitStatus is the process exit status a subcommand's RunE leaves behind
// in the pointer passed to it, read back by run() once Execute returns. A
// RunE that returns a non-nil error instead makes run() return exitInternal
// regardless of this value. It is threaded through as a pointer (rather
// than a package-level variable) so concurrent tests invoking run() don't
// share mutable state.
func newRootCommand(exitStatus *int) *cobra.Command {
	root := &cobra.Command{
		Use:           "svfront",
		Short:         "SystemVerilog front end: preprocess, parse, and elaborate source files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newBuildCommand(exitStatus))
	root.AddCommand(newDefinesCommand())
	root.AddCommand(newVersionCommand())
	return root
}
