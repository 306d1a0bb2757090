package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/rules"
)

func main() {
	root := &cobra.Command{
		Use:           "avcheck",
		Short:         "Aviation log compliance checker",
		Long:          "avcheck scans aviation log documents (maintenance entries, pilot logbooks, airworthiness records) for required fields and regulatory statements, and reports violations.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Path to YAML config (optional)")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newRulesCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newUserCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("avcheck report format:", compliance.Version)
		},
	}
}

func newRulesCmd() *cobra.Command {
	var categories []string
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the configured compliance rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := parseCategories(categories)
			if err != nil {
				return err
			}
			list := rules.All()
			if len(cats) > 0 {
				list = rules.ForCategories(cats)
			}
			for _, r := range list {
				fmt.Printf("%-10s %-15s %-8s %s\n", r.ID, r.Category, r.Severity, r.Name)
				fmt.Printf("           %s (%s)\n", r.Description, r.Regulation)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Restrict to categories (maintenance, pilot-log, airworthiness, weight-balance)")
	return cmd
}

func parseCategories(names []string) ([]compliance.Category, error) {
	var out []compliance.Category
	for _, n := range names {
		c, ok := rules.ParseCategory(n)
		if !ok {
			return nil, fmt.Errorf("unknown category %q", n)
		}
		out = append(out, c)
	}
	return out, nil
}
