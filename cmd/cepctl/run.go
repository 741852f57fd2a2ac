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

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	EventsPath string
}

// NewRunCommand builds the run subcommand: compile a query and feed it
// an event-stream fixture, printing each emitted match. There is no
// persistence layer here, so this skips any single-writer-loop or
// database machinery entirely.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "run <query.yaml>",
		Short:         "Run a query against an event-stream fixture",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.EventsPath, "events", "", "path to the event-stream fixture (required)")
	_ = cmd.MarkFlagRequired("events")

	return cmd
}

func runQuery(opts *RunOptions, queryPath string, cmd *cobra.Command) error {
	correlation := uuid.New().String()
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetLogLoggerLevel(logLevel)

	queryData, err := os.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", queryPath, err)
	}
	eventsData, err := os.ReadFile(opts.EventsPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.EventsPath, err)
	}

	q, err := loader.LoadQuery(queryData)
	if err != nil {
		return err
	}
	stream, err := loader.LoadEvents(eventsData, false)
	if err != nil {
		return err
	}

	op, err := compiler.CompileOperator(q)
	if err != nil {
		return err
	}
	slog.Info("cepctl: running query", "correlation", correlation, "events", len(stream))

	matches, err := op.Run(stream)
	if err != nil {
		return err
	}

	for _, m := range matches {
		fmt.Fprintln(cmd.OutOrStdout(), m.String(nil, q.Context.Schema))
	}
	return nil
}
