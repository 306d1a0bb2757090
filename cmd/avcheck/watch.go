package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/shared"
)

func newWatchCmd() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "watch <pattern>...",
		Short: "Re-run the compliance check whenever watched documents change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			cfg, _ := shared.LoadConfig(configPath)
			logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)
			mergeCheckFlags(cmd, &f, cfg)

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("watch init: %w", err)
			}
			defer watcher.Close()

			for _, dir := range watchRoots(args) {
				if err := watcher.Add(dir); err != nil {
					return fmt.Errorf("watch %s: %w", dir, err)
				}
			}

			run := func() {
				rep, err := runCheck(args, f, logger)
				if err != nil {
					logger.Error("check failed", "err", err)
					return
				}
				fmt.Println(rep.Summary)
			}
			run()

			var timer *time.Timer
			debounce := 300 * time.Millisecond
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return nil
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
						continue
					}
					if timer != nil {
						timer.Stop()
					}
					timer = time.AfterFunc(debounce, run)
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}
					logger.Error("watch error", "err", err)
				}
			}
		},
	}
	cmd.Flags().StringVar(&f.outDir, "out", "", "Output directory for reports")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database path")
	cmd.Flags().StringSliceVar(&f.categories, "categories", nil, "Check categories to enable (default: all)")
	cmd.Flags().StringSliceVar(&f.disabled, "disable", nil, "Rule ids to disable")
	cmd.Flags().StringSliceVar(&f.rulePacks, "rule-pack", nil, "YAML rule pack paths")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "Concurrent document workers")
	cmd.Flags().BoolVar(&f.noStore, "no-store", false, "Skip persisting runs to the database")
	return cmd
}

// watchRoots maps patterns to the directories fsnotify should watch:
// the pattern itself when it is a directory, its parent otherwise.
func watchRoots(patterns []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range patterns {
		dir := p
		if strings.ContainsAny(p, "*?[") {
			dir = filepath.Dir(p)
		} else if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			dir = filepath.Dir(p)
		}
		dir = filepath.Clean(dir)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		out = append(out, dir)
	}
	return out
}
