package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/patseq/reflinkcep/internal/compiler"
	"github.com/patseq/reflinkcep/internal/loader"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
}

// NewCompileCommand builds the compile subcommand: load a query fixture,
// validate and compile it, and print the query's pattern repr followed by
// the compiled Executor's queue depth. Targets a single query file rather
// than a directory of schema documents.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "compile <query.yaml>",
		Short:         "Validate and compile a pattern-sequence query",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	correlation := uuid.New().String()
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(logLevel)

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	q, err := loader.LoadQuery(data)
	if err != nil {
		return err
	}
	slog.Info("cepctl: loaded query", "correlation", correlation, "path", path)

	exec, err := compiler.Compile(q)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\ncompiled, queue depth %d\n", q.String(), exec.QueueLen())
	return nil
}
