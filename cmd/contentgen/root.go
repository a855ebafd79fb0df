package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contentgen/backend/internal/app"
	"github.com/contentgen/backend/internal/infrastructure/config"
	"github.com/contentgen/backend/internal/infrastructure/logger"
)

// opener builds the application for one command invocation
type opener func(ctx context.Context, logLevel string) (*app.App, error)

func defaultOpener(ctx context.Context, logLevel string) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.ForCLI(logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return app.New(ctx, cfg, log)
}

// cli carries state shared by every subcommand
type cli struct {
	open     opener
	app      *app.App
	logLevel string
	asJSON   bool
	timeout  time.Duration
}

func newRootCmd(open opener) (*cobra.Command, *cli) {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:   "contentgen",
		Short: "Content generation pipeline CLI",
		Long: `contentgen drives the news to video pipeline from the terminal.

Available command groups:
  news     - fetch headlines from news sources
  ideas    - generate video ideas for a stored article
  video    - create video generations and list models
  youtube  - connect a YouTube account and inspect its channels`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&c.asJSON, "json", false, "Print results as JSON")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 10*time.Minute, "Operation timeout")

	root.AddCommand(c.newsCmd(), c.ideasCmd(), c.videoCmd(), c.youtubeCmd())
	return root, c
}

// close releases the app opened by the last command, if any
func (c *cli) close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close(context.Background())
	_ = logger.Sync(c.app.Logger)
	c.app = nil
	return err
}

// context returns a context bounded by --timeout and the opened app
func (c *cli) context(cmd *cobra.Command) (context.Context, context.CancelFunc, *app.App, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), c.timeout)
	if c.app == nil {
		a, err := c.open(ctx, c.logLevel)
		if err != nil {
			cancel()
			return nil, nil, nil, err
		}
		c.app = a
		c.app.Logger.Debug("Command started", zap.String("command", cmd.CommandPath()))
	}
	return ctx, cancel, c.app, nil
}

// print writes v as indented JSON when --json is set, otherwise calls text
func (c *cli) print(w io.Writer, v any, text func(io.Writer)) error {
	if c.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}
