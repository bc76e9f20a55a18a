package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/aldenluthfi/situs-backend/internal/app"
	"github.com/aldenluthfi/situs-backend/internal/config"
	"github.com/aldenluthfi/situs-backend/internal/storage"
	"github.com/aldenluthfi/situs-backend/internal/syncer"
	"github.com/aldenluthfi/situs-backend/pkg/config/env"
)

type runner struct {
	cfg  *config.Config
	full bool
}

func newRootCmd() *cobra.Command {
	r := &runner{}

	cmd := &cobra.Command{
		Use:          "portfolio_sync",
		Short:        "Synchronise writings, facts and repositories into the store and search index",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.loadConfig()
		},
	}
	cmd.PersistentFlags().BoolVar(&r.full, "full", false, "Re-index records that did not change")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "all",
			Short: "Apply migrations, then fully sync writings with content, facts and repositories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, r.all)
			},
		},
		&cobra.Command{
			Use:   "writings",
			Short: "Sync writing listings and refresh changed content",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
					stats, err := a.Syncer.SyncWritings(ctx, syncer.Options{Full: r.full})
					if err != nil {
						return err
					}
					return printJSON(out, map[string]any{"writings": stats})
				})
			},
		},
		&cobra.Command{
			Use:   "writing <slug>",
			Short: "Refresh and re-index one writing by slug or id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
					article, err := a.Syncer.SyncWritingContent(ctx, args[0])
					if err != nil {
						return err
					}
					return printJSON(out, map[string]any{"id": article.ID, "slug": article.Slug, "title": article.Title})
				})
			},
		},
		&cobra.Command{
			Use:   "facts",
			Short: "Replace the stored facts with the deduplicated source listing",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
					stats, err := a.Syncer.SyncFacts(ctx)
					if err != nil {
						return err
					}
					return printJSON(out, map[string]any{"facts": stats})
				})
			},
		},
		&cobra.Command{
			Use:   "repositories",
			Short: "Sync repositories and re-index the changed ones",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return r.run(cmd, func(ctx context.Context, a *app.App, out io.Writer) error {
					stats, err := a.Syncer.SyncRepositories(ctx, syncer.Options{Full: r.full})
					if err != nil {
						return err
					}
					return printJSON(out, map[string]any{"repositories": stats})
				})
			},
		},
	)

	return cmd
}

func (r *runner) loadConfig() error {
	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/portfolio_sync/.env"); err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireSources(); err != nil {
		return err
	}
	slog.SetDefault(newLogger(os.Stderr, cfg.SlogLevel()))
	r.cfg = cfg
	return nil
}

// all seeds a fresh deployment: migrations first, then every record is
// refreshed and indexed regardless of --full.
func (r *runner) all(ctx context.Context, a *app.App, out io.Writer) error {
	report, err := a.Syncer.SyncAll(ctx, syncer.Options{Full: true})
	if printErr := printJSON(out, report); printErr != nil {
		slog.Error("Failed to print sync stats", "error", printErr)
	}
	return err
}

type runFunc func(ctx context.Context, a *app.App, out io.Writer) error

func (r *runner) run(cmd *cobra.Command, fn runFunc) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := *r.cfg
	if cmd.Name() == "all" && storage.Type(cfg.StoreType) == storage.PG {
		cfg.MigrateOnStart = true
	}

	a, err := app.New(ctx, &cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			slog.Error("Failed to release resources", "error", err)
		}
	}()

	if err := fn(ctx, a, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("%s sync failed: %w", cmd.Name(), err)
	}
	return nil
}

// newLogger writes readable text to a terminal and JSON lines otherwise.
func newLogger(f *os.File, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(f, opts))
	}
	return slog.New(slog.NewJSONHandler(f, opts))
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
