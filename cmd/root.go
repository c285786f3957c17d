// Package cmd contains all Cobra commands for paiSchema.
//
// Design decision: the root command launches the TUI directly.
// Every pipeline operation is also available as a subcommand so it can
// be scripted; subcommands print the result to stdout.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/DachengChen/paiSchema/ai"
	"github.com/DachengChen/paiSchema/applog"
	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/db"
	"github.com/DachengChen/paiSchema/session"
	"github.com/DachengChen/paiSchema/store"
	"github.com/DachengChen/paiSchema/tui"
	"github.com/spf13/cobra"
)

var (
	configPath     string
	transcriptPath string
)

// app is what PersistentPreRunE prepares for the command being run.
// It is released by run, whether or not the command succeeded.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	session *session.Session
	closers []func() error
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "paischema",
	Short: "AI-assisted data modeling: generate, refine, visualize and materialize schemas",
	Long: `paiSchema turns a description of your data (free text, JSON or CSV)
into a proposed schema using a text-generation service, then lets you:
  • Optimize or adapt the model to new requirements
  • Generate example SELECT/INSERT/UPDATE/DELETE statements
  • Render the model or its SQL as a Graphviz diagram
  • Materialize one sample document per table in MongoDB
  • Dry-run the generated DDL against PostgreSQL

Run 'paischema' to start the TUI, or use a subcommand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath)
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	// Running with no subcommand launches the TUI.
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Start(current.session, current.cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.paischema/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&transcriptPath, "transcript", "", "write the session transcript to this file on exit")
}

// Execute runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return run(ctx, os.Args[1:])
}

// run executes the command line in args, then writes the transcript and
// releases the app whether or not the command failed.
func run(ctx context.Context, args []string) (err error) {
	defer func() {
		if current == nil {
			return
		}
		a := current
		current = nil
		if cerr := a.close(transcriptPath); err == nil {
			err = cerr
		}
	}()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

func newApp(path string) (*app, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger, closeLog, err := applog.Setup(cfg.Log)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, closers: []func() error{closeLog}}

	gen, err := ai.NewGenerator(cfg.AI, logger)
	if err != nil {
		_ = a.close("")
		return nil, err
	}
	pg := db.NewLazy(cfg.Postgres, logger)
	a.closers = append([]func() error{func() error { pg.Close(); return nil }}, a.closers...)

	a.session = session.New(session.Deps{
		Generator:    gen,
		Materializer: store.NewMaterializer(cfg.Mongo, logger),
		Checker:      pg,
		Importer:     pg,
		Logger:       logger,
	})
	logger.Info("session started",
		slog.String("session", a.session.ID.String()),
		slog.String("generator", gen.Name()),
		slog.String("config", path))
	return a, nil
}

// close writes the transcript when requested and releases resources.
func (a *app) close(transcript string) error {
	var firstErr error
	if transcript != "" && a.session != nil {
		if err := writeTranscript(a.session, transcript); err != nil {
			firstErr = err
		}
	}
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func writeTranscript(s *session.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	if err := s.Log().WriteTranscript(f); err != nil {
		f.Close()
		return fmt.Errorf("write transcript: %w", err)
	}
	return f.Close()
}

// report prints a result and turns a failure into the command's error.
func report(w io.Writer, res session.Result) error {
	if res.OK() {
		fmt.Fprintln(w, res.Output)
		return nil
	}
	if res.Output != "" {
		fmt.Fprintln(w, res.Output)
	}
	return fmt.Errorf("%s failed (%s): %w", res.Operation.Title(), res.Kind, res.Err)
}

// readSource returns the contents of path, or stdin for "-".
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
