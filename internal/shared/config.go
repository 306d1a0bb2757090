package shared

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Checks struct {
		Categories      []string `yaml:"categories"`       // subset of maintenance|pilot-log|airworthiness|weight-balance
		Disabled        []string `yaml:"disabled"`         // rule ids to skip
		RulePacks       []string `yaml:"rule_packs"`       // paths to YAML rule packs
		FailOnViolation bool     `yaml:"fail_on_violation"`
		Workers         int      `yaml:"workers"`
	} `yaml:"checks"`

	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./avcheck.db"
	} `yaml:"database"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	API struct {
		Addr         string `yaml:"addr"`          // ":8080"
		SessionHours int    `yaml:"session_hours"` // 12
	} `yaml:"api"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./avcheck.db"
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	c.API.Addr = ":8080"
	c.API.SessionHours = 12
	c.Checks.Workers = 1
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("AVCHECK_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("AVCHECK_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("AVCHECK_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("AVCHECK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("AVCHECK_CATEGORIES"); v != "" {
		c.Checks.Categories = splitList(v)
	}
	if v := os.Getenv("AVCHECK_FAIL_ON_VIOLATION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Checks.FailOnViolation = b
		}
	}
	if v := os.Getenv("AVCHECK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Checks.Workers = n
		}
	}
	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
