// Command svfront is the external command-line driver for the slang front
// end: it only calls the programmatic surface exposed by the root slang
// package and internal/config, holding no parsing or elaboration logic of
// its own.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	exitStatus := exitOK
	root := newRootCommand(&exitStatus)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, err)
		return exitInternal
	}
	return exitStatus
}
