package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigesalud/dashboard/internal/app"
	"github.com/sigesalud/dashboard/internal/config"
	"github.com/sigesalud/dashboard/internal/domain/roster"
	"github.com/sigesalud/dashboard/internal/platform/db"
	"github.com/sigesalud/dashboard/internal/store"
	"github.com/sigesalud/dashboard/internal/store/dataset"
	"github.com/sigesalud/dashboard/internal/store/sqlstore"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "sigesalud",
		Short:        "Health reporting dashboard backend",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(populateCmd())
	rootCmd.AddCommand(rosterCmd())
	rootCmd.AddCommand(callCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the operations API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg, os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise")
	}
	defer a.Close()

	if err := a.Warm(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to open data backend")
	}
	logger.Info().Str("backend", a.Store().Backend()).Msg("data backend ready")

	e := a.Server()
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	d := sqlstore.DialectFor(cfg.DatabaseURL)
	conn, err := db.Open(ctx, d.DriverName(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, err
	}
	return sqlstore.New(conn, d, app.NewLogger(cfg, os.Stderr)), nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the relational schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			count, err := sqlstore.NewMigrator(st.DB()).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			statuses, err := sqlstore.NewMigrator(st.DB()).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}
			printStatus(cmd.OutOrStdout(), statuses)
			return nil
		},
	})

	return cmd
}

func printStatus(w io.Writer, statuses []db.MigrationStatus) {
	fmt.Fprintf(w, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
	for _, s := range statuses {
		status := "pending"
		appliedAt := ""
		if s.Applied {
			status = "applied"
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(w, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
	}
}

// loadDataset reads the static files and generates the roster when the HR
// files are absent.
func loadDataset(ctx context.Context, cfg *config.Config) (*dataset.Dataset, error) {
	logger := app.NewLogger(cfg, os.Stderr)
	ds, err := dataset.NewLoader(cfg.DataRoot, cfg.HRRoot, logger).Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ds.HasRoster() && len(ds.Quotas) > 0 {
		ds.SetRoster(roster.Generate(ds.Quotas, ds.FacilityIDs(), cfg.RosterSeed))
		logger.Info().Int64("seed", cfg.RosterSeed).Int("workers", len(ds.Workers)).Msg("roster generated")
	}
	return ds, nil
}

func populateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "populate",
		Short: "Load the static dataset into the relational store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			ds, err := loadDataset(ctx, cfg)
			if err != nil {
				return err
			}

			st, err := openDatabase(ctx, cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			if _, err := sqlstore.NewMigrator(st.DB()).Up(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			counts, err := sqlstore.Import(ctx, st.DB(), ds)
			if err != nil {
				return fmt.Errorf("populate failed: %w", err)
			}
			printCounts(cmd.OutOrStdout(), counts)
			return nil
		},
	}
}

func printCounts(w io.Writer, counts map[store.Entity]int) {
	entities := make([]string, 0, len(counts))
	for e := range counts {
		entities = append(entities, string(e))
	}
	sort.Strings(entities)
	for _, e := range entities {
		fmt.Fprintf(w, "%-28s %d\n", e, counts[store.Entity(e)])
	}
}

func rosterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "Generate the HR roster files from the staffing quotas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := app.NewLogger(cfg, os.Stderr)
			ds, err := dataset.NewLoader(cfg.DataRoot, cfg.HRRoot, logger).Load(cmd.Context())
			if err != nil {
				return err
			}
			if len(ds.Quotas) == 0 {
				return fmt.Errorf("no staffing quotas under %s", cfg.DataRoot)
			}

			r := roster.Generate(ds.Quotas, ds.FacilityIDs(), cfg.RosterSeed)
			if err := roster.Write(cfg.HRRoot, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d workers, %d assignments, %d history entries and %d credentials to %s\n",
				len(r.Workers), len(r.Assignments), len(r.History), len(r.Credentials), cfg.HRRoot)
			return nil
		},
	}
}

func callCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <operation> [payload-json]",
		Short: "Run one operation and print its JSON result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			a, err := app.New(ctx, cfg, app.NewLogger(cfg, cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.Close()

			var payload []byte
			if len(args) == 2 {
				payload = []byte(args[1])
			}
			out, err := a.Registry().Call(ctx, args[0], payload)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
