package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/api"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/rules"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/security"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/shared"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/storage"
)

func newServeCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compliance API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, _ := shared.LoadConfig(configPath)
			logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

			if addr == "" {
				addr = cfg.API.Addr
			}
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}

			db, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()
			if err := db.CreateSchema(); err != nil {
				return fmt.Errorf("db schema: %w", err)
			}

			cats, err := parseCategories(cfg.Checks.Categories)
			if err != nil {
				return err
			}
			srv := &api.Server{
				DB:              db,
				UserStore:       db,
				Rules:           rules.NewChecker(rules.Config{Categories: cats, Disabled: cfg.Checks.Disabled, Logger: logger}).Rules(),
				Logger:          logger,
				SessionDuration: time.Duration(cfg.API.SessionHours) * time.Hour,
			}
			httpSrv := &http.Server{Addr: addr, Handler: srv.Routes()}

			errs := make(chan error, 1)
			go func() {
				logger.Info("api listening", "addr", addr)
				errs <- httpSrv.ListenAndServe()
			}()

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
			select {
			case err := <-errs:
				return err
			case <-shutdown:
				logger.Info("shutdown initiated")
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpSrv.Shutdown(ctx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default :8080)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	return cmd
}

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage API users",
	}

	var (
		username string
		password string
		role     string
		dbPath   string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Create an API user",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, _ := shared.LoadConfig(configPath)
			shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			db, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()
			if err := db.CreateSchema(); err != nil {
				return fmt.Errorf("db schema: %w", err)
			}

			hash, err := security.HashPassword(password)
			if err != nil {
				return err
			}
			id, err := db.CreateUser(username, hash, role)
			if err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			fmt.Printf("User %s created (id=%d, role=%s)\n", username, id, role)
			return nil
		},
	}
	add.Flags().StringVar(&username, "username", "", "Username")
	add.Flags().StringVar(&password, "password", "", "Password")
	add.Flags().StringVar(&role, "role", "viewer", "Role (viewer|admin)")
	add.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.AddCommand(add)
	return cmd
}
