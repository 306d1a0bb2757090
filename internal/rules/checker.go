package rules

import (
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
)

// Config selects which rules a Checker runs. It is resolved once into
// an immutable rule list at construction; there is no process-wide
// mutable catalog.
type Config struct {
	Categories []compliance.Category
	// Extra holds additional rules compiled from rule packs. They are
	// appended after the built-in catalogs, deduplicated by id.
	Extra []Rule
	// Disabled lists rule ids to exclude, case-insensitive.
	Disabled []string
	// Workers bounds per-document parallelism. Zero or one means
	// sequential evaluation.
	Workers int
	Logger  *slog.Logger
}

// Checker runs a fixed rule set over documents.
type Checker struct {
	rules   []Rule
	workers int
	logger  *slog.Logger
}

func NewChecker(cfg Config) *Checker {
	cats := cfg.Categories
	if len(cats) == 0 {
		cats = compliance.Categories()
	}
	active := ForCategories(cats)

	seen := make(map[string]struct{}, len(active))
	for _, r := range active {
		seen[strings.ToUpper(r.ID)] = struct{}{}
	}
	for _, r := range cfg.Extra {
		key := strings.ToUpper(strings.TrimSpace(r.ID))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		active = append(active, r)
	}

	if len(cfg.Disabled) > 0 {
		off := make(map[string]struct{}, len(cfg.Disabled))
		for _, id := range cfg.Disabled {
			off[strings.ToUpper(strings.TrimSpace(id))] = struct{}{}
		}
		kept := active[:0:0]
		for _, r := range active {
			if _, ok := off[strings.ToUpper(r.ID)]; ok {
				continue
			}
			kept = append(kept, r)
		}
		active = kept
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Checker{rules: active, workers: workers, logger: logger}
}

// Rules returns the configured rule list in evaluation order.
func (c *Checker) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// RuleResult is the outcome of one rule against one document: either
// violations (possibly none) or a recorded execution error.
type RuleResult struct {
	RuleID     string
	Violations []compliance.Violation
	Err        error
}

// CheckDocument runs every configured rule against one document in
// rule-configuration order. A rule that panics is recovered and logged;
// its contribution is empty and evaluation continues.
func (c *Checker) CheckDocument(doc compliance.Document) compliance.FileResult {
	var violations []compliance.Violation
	for _, r := range c.rules {
		res := runRule(r, doc)
		if res.Err != nil {
			c.logger.Error("rule execution failed", "rule", res.RuleID, "file", doc.Filename, "err", res.Err)
			continue
		}
		violations = append(violations, res.Violations...)
	}
	return compliance.FileResult{
		Filename:   doc.Filename,
		Violations: violations,
		Status:     compliance.StatusFor(violations),
	}
}

// CheckDocuments evaluates each document independently. Documents with
// a filename already seen are skipped, so a file matched by several
// input patterns is checked exactly once. Results come back in input
// order regardless of the worker count.
func (c *Checker) CheckDocuments(docs []compliance.Document) []compliance.FileResult {
	unique := docs[:0:0]
	seen := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.Filename]; ok {
			continue
		}
		seen[d.Filename] = struct{}{}
		unique = append(unique, d)
	}

	results := make([]compliance.FileResult, len(unique))
	if c.workers <= 1 || len(unique) < 2 {
		for i, d := range unique {
			results[i] = c.CheckDocument(d)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, d := range unique {
		g.Go(func() error {
			results[i] = c.CheckDocument(d)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are per-rule results
	return results
}

func runRule(r Rule, doc compliance.Document) (res RuleResult) {
	res.RuleID = r.ID
	defer func() {
		if p := recover(); p != nil {
			res.Violations = nil
			res.Err = &RuleExecutionError{RuleID: r.ID, Filename: doc.Filename, Cause: fmt.Errorf("panic: %v", p)}
		}
	}()
	res.Violations = r.Check(doc.Content, doc.Filename)
	return res
}
