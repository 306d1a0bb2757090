package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/reporting"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/shared"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/storage"
)

func newReportCmd() *cobra.Command {
	var (
		runID  string
		outDir string
		dbPath string
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Re-render a stored run's report",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, _ := shared.LoadConfig(configPath)
			shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

			if outDir == "" {
				outDir = cfg.Reporting.OutDir
			}
			if dbPath == "" {
				dbPath = cfg.Database.DSN
			}

			db, err := storage.OpenSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			rep, err := loadRun(db, runID)
			if err != nil {
				return err
			}
			if stdout {
				fmt.Print(reporting.Markdown(rep))
				return nil
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create out dir: %w", err)
			}
			jsonPath, _ := reporting.WriteJSON(rep.ID, outDir, &rep)
			htmlPath, _ := reporting.WriteHTML(rep.ID, outDir, &rep)
			mdPath, _ := reporting.WriteMarkdown(rep.ID, outDir, &rep)
			fmt.Printf("Report OK\n  Run: %s\n  JSON: %s\n  HTML: %s\n  Markdown: %s\n", rep.ID, jsonPath, htmlPath, mdPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&runID, "run", "", "Run ID (default: latest)")
	cmd.Flags().StringVar(&outDir, "out", "", "Output directory")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the markdown rendering instead of writing files")
	return cmd
}

func loadRun(db *storage.DB, runID string) (compliance.Report, error) {
	if runID == "" {
		return db.LoadLatestRun()
	}
	return db.LoadRun(runID)
}
