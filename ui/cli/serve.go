// Copyright (c) 2026 Fleetmaster Team
// Fleetmaster - vehicle records manager
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/toeirei/fleetmaster/internal/config"
	"github.com/toeirei/fleetmaster/internal/db"
	"github.com/toeirei/fleetmaster/internal/logging"
	"github.com/toeirei/fleetmaster/internal/server"
)

// applyDatabaseFlags registers --database.type/--database.dsn routed to the
// server.database.* keys.
func applyDatabaseFlags(cmd *cobra.Command) {
	cmd.Flags().String("database.type", "sqlite", "Database type (sqlite, postgres, mysql)")
	cmd.Flags().String("database.dsn", "./fleetmaster.db", "Database connection string (DSN)")
	config.BindFlagKey(cmd.Flags(), "database.type", "server.database.type")
	config.BindFlagKey(cmd.Flags(), "database.dsn", "server.database.dsn")
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reference vehicle store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := appConfig.Server
			store, err := db.NewStoreFromDSN(cfg.Database.Type, cfg.Database.Dsn)
			if err != nil {
				return fmt.Errorf("could not open store: %w", err)
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(store, server.Options{Addr: cfg.Addr, JWTSecret: cfg.JWTSecret})
			logging.Infof("serve: %s store at %s", store.Type(), cfg.Addr)
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().String("addr", ":3001", "Listen address")
	config.BindFlagKey(cmd.Flags(), "addr", "server.addr")
	applyDatabaseFlags(cmd)
	return cmd
}

func newDBMaintainCmd() *cobra.Command {
	var timeout int
	cmd := &cobra.Command{
		Use:   "db-maintain",
		Short: "Run engine-specific housekeeping on the reference store database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
				defer cancel()
			}
			cfg := appConfig.Server.Database
			if err := db.RunDBMaintenance(ctx, cfg.Type, cfg.Dsn); err != nil {
				return fmt.Errorf("maintenance failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Maintenance completed successfully")
			return nil
		},
	}
	applyDatabaseFlags(cmd)
	cmd.Flags().IntVar(&timeout, "timeout", 0, "Timeout in seconds for maintenance (0 means no timeout)")
	return cmd
}
