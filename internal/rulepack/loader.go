// Package rulepack loads user-defined compliance rules from YAML packs.
// Pack rules use the same pattern families as the built-in catalogs:
// statement presence, required fields, and conditional checks.
package rulepack

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ashishjsharda/aviation-compliance-checker/internal/compliance"
	"github.com/ashishjsharda/aviation-compliance-checker/internal/rules"
)

type pack struct {
	Rules []packRule `yaml:"rules"`
}

type packRule struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Category    string `yaml:"category"`   // maintenance|pilot-log|airworthiness|weight-balance
	Severity    string `yaml:"severity"`   // error|warning|info
	Regulation  string `yaml:"regulation"`
	Kind        string `yaml:"kind"` // statement|required_fields|conditional
	Message     string `yaml:"message"`
	Suggestion  string `yaml:"suggestion"`

	Pattern string `yaml:"pattern"` // statement: required pattern; conditional: requirement
	When    string `yaml:"when"`    // conditional: trigger pattern

	Fields []packField `yaml:"fields"` // required_fields
}

type packField struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Label   string `yaml:"label"`
}

// Load reads one pack file and compiles its rules. Every pattern is
// compiled case-insensitive, matching the built-in catalogs.
func Load(path string) ([]rules.Rule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack: %w", err)
	}
	var p pack
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse rule pack %s: %w", path, err)
	}
	out := make([]rules.Rule, 0, len(p.Rules))
	for _, pr := range p.Rules {
		r, err := compile(pr)
		if err != nil {
			return nil, fmt.Errorf("rule %q in %s: %w", pr.ID, path, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadAll loads several packs in order.
func LoadAll(paths []string) ([]rules.Rule, error) {
	var out []rules.Rule
	for _, p := range paths {
		rs, err := Load(p)
		if err != nil {
			return nil, err
		}
		out = append(out, rs...)
	}
	return out, nil
}

func compile(pr packRule) (rules.Rule, error) {
	if pr.ID == "" || pr.Severity == "" || pr.Kind == "" {
		return rules.Rule{}, fmt.Errorf("missing required fields (id/severity/kind)")
	}
	sev := compliance.Severity(strings.ToLower(pr.Severity))
	if sev.Rank() == 0 {
		return rules.Rule{}, fmt.Errorf("unknown severity %q", pr.Severity)
	}
	cat, ok := rules.ParseCategory(pr.Category)
	if !ok {
		return rules.Rule{}, fmt.Errorf("unknown category %q", pr.Category)
	}

	base := rules.Rule{
		ID:          pr.ID,
		Name:        pr.Name,
		Description: pr.Description,
		Category:    cat,
		Severity:    sev,
		Regulation:  pr.Regulation,
	}
	mkViolation := func(message, suggestion string) compliance.Violation {
		return compliance.Violation{
			RuleID:     base.ID,
			Message:    message,
			Severity:   base.Severity,
			Regulation: base.Regulation,
			Suggestion: suggestion,
		}
	}

	switch strings.ToLower(pr.Kind) {
	case "statement":
		re, err := compileCI(pr.Pattern)
		if err != nil {
			return rules.Rule{}, err
		}
		msg := pr.Message
		if msg == "" {
			msg = fmt.Sprintf("Required statement not found (%s)", pr.Name)
		}
		base.Check = func(content, filename string) []compliance.Violation {
			if re.MatchString(content) {
				return nil
			}
			return []compliance.Violation{mkViolation(msg, pr.Suggestion)}
		}
		return base, nil

	case "conditional":
		trigger, err := compileCI(pr.When)
		if err != nil {
			return rules.Rule{}, fmt.Errorf("when: %w", err)
		}
		requires, err := compileCI(pr.Pattern)
		if err != nil {
			return rules.Rule{}, fmt.Errorf("pattern: %w", err)
		}
		msg := pr.Message
		if msg == "" {
			msg = fmt.Sprintf("Required statement not found (%s)", pr.Name)
		}
		base.Check = func(content, filename string) []compliance.Violation {
			if !trigger.MatchString(content) || requires.MatchString(content) {
				return nil
			}
			return []compliance.Violation{mkViolation(msg, pr.Suggestion)}
		}
		return base, nil

	case "required_fields":
		if len(pr.Fields) == 0 {
			return rules.Rule{}, fmt.Errorf("required_fields rule needs at least one field")
		}
		type cf struct {
			re    *regexp.Regexp
			label string
		}
		compiled := make([]cf, 0, len(pr.Fields))
		for _, f := range pr.Fields {
			re, err := compileCI(f.Pattern)
			if err != nil {
				return rules.Rule{}, fmt.Errorf("field %q: %w", f.Name, err)
			}
			label := f.Label
			if label == "" {
				label = f.Name
			}
			compiled = append(compiled, cf{re: re, label: label})
		}
		base.Check = func(content, filename string) []compliance.Violation {
			var out []compliance.Violation
			for _, f := range compiled {
				if f.re.MatchString(content) {
					continue
				}
				out = append(out, mkViolation(
					fmt.Sprintf("Missing required field: %s", f.label), pr.Suggestion))
			}
			return out
		}
		return base, nil
	}
	return rules.Rule{}, fmt.Errorf("unknown kind %q", pr.Kind)
}

func compileCI(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	return regexp.Compile("(?i)" + pattern)
}
