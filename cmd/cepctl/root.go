// Package main implements cepctl, a thin developer CLI for compiling a
// pattern-sequence query and running it against an event-stream
// fixture. Dev/test tooling only, not the engine's library surface.
package main

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by every subcommand.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand builds the cepctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "cepctl",
		Short: "cepctl - compile and run CEP pattern-sequence queries",
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
