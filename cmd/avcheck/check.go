package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/input"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/reporting"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/rulepack"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/rules"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/shared"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/storage"
)

type checkFlags struct {
	outDir          string
	dbPath          string
	categories      []string
	disabled        []string
	rulePacks       []string
	failOnViolation bool
	workers         int
	noStore         bool
}

func newCheckCmd() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check <pattern>...",
		Short: "Check log documents and write a compliance report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, _ := shared.LoadConfig(configPath)
			logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
			mergeCheckFlags(cmd, &f, cfg)

			rep, err := runCheck(args, f, logger)
			if err != nil {
				return err
			}

			fmt.Println(rep.Summary)
			// CI policy lives here, not in the engine: violations alone
			// never fail the run unless configured to.
			if f.failOnViolation && rep.BySeverity[compliance.SeverityError] > 0 {
				os.Exit(1)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&f.outDir, "out", "", "Output directory for reports")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database path")
	cmd.Flags().StringSliceVar(&f.categories, "categories", nil, "Check categories to enable (default: all)")
	cmd.Flags().StringSliceVar(&f.disabled, "disable", nil, "Rule ids to disable")
	cmd.Flags().StringSliceVar(&f.rulePacks, "rule-pack", nil, "YAML rule pack paths")
	cmd.Flags().BoolVar(&f.failOnViolation, "fail-on-violation", false, "Exit non-zero when errors are found")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent document workers")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "Skip persisting the run to the database")
	return cmd
}

// mergeCheckFlags applies precedence: flags > config > defaults.
func mergeCheckFlags(cmd *cobra.Command, f *checkFlags, cfg shared.Config) {
	if f.outDir == "" {
		f.outDir = cfg.Reporting.OutDir
	}
	if f.dbPath == "" {
		f.dbPath = cfg.Database.DSN
	}
	if len(f.categories) == 0 {
		f.categories = cfg.Checks.Categories
	}
	if len(f.disabled) == 0 {
		f.disabled = cfg.Checks.Disabled
	}
	if len(f.rulePacks) == 0 {
		f.rulePacks = cfg.Checks.RulePacks
	}
	if !cmd.Flags().Changed("fail-on-violation") {
		f.failOnViolation = cfg.Checks.FailOnViolation
	}
	if f.workers == 0 {
		f.workers = cfg.Checks.Workers
	}
}

func runCheck(patterns []string, f checkFlags, logger *slog.Logger) (compliance.Report, error) {
	docs, err := input.Discover(patterns)
	if err != nil {
		return compliance.Report{}, err
	}
	if len(docs) == 0 {
		logger.Warn("no documents matched", "patterns", patterns)
	}

	cats, err := parseCategories(f.categories)
	if err != nil {
		return compliance.Report{}, err
	}
	extra, err := rulepack.LoadAll(f.rulePacks)
	if err != nil {
		return compliance.Report{}, err
	}

	checker := rules.NewChecker(rules.Config{
		Categories: cats,
		Extra:      extra,
		Disabled:   f.disabled,
		Workers:    f.workers,
		Logger:     logger,
	})
	results := checker.CheckDocuments(docs)

	var db *storage.DB
	waived := 0
	if !f.noStore {
		db, err = storage.OpenSQLite(f.dbPath)
		if err != nil {
			return compliance.Report{}, fmt.Errorf("open db: %w", err)
		}
		defer db.Close()
		if err := db.CreateSchema(); err != nil {
			return compliance.Report{}, fmt.Errorf("db schema: %w", err)
		}
		if ws, err := db.ListWaivers(true); err == nil && len(ws) > 0 {
			results, waived = rules.ApplyWaivers(results, ws)
		}
	}

	now := time.Now().UTC()
	rep := reporting.Build(results, waived, now)
	rep.ID = fmt.Sprintf("run-%d", now.Unix())
	rep.Source = patterns[0]

	if err := os.MkdirAll(f.outDir, 0o755); err != nil {
		return compliance.Report{}, fmt.Errorf("create out dir: %w", err)
	}
	jsonPath, _ := reporting.WriteJSON(rep.ID, f.outDir, &rep)
	htmlPath, _ := reporting.WriteHTML(rep.ID, f.outDir, &rep)
	mdPath, _ := reporting.WriteMarkdown(rep.ID, f.outDir, &rep)

	if db != nil {
		if err := db.SaveRun(&rep); err != nil {
			return compliance.Report{}, fmt.Errorf("save run: %w", err)
		}
	}

	logger.Info("check complete",
		"run", rep.ID,
		"files", rep.FilesChecked,
		"violations", rep.TotalViolations,
		"json", jsonPath,
		"html", htmlPath,
		"markdown", mdPath,
	)
	return rep, nil
}
