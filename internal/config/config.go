package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
)

// FileName is the config file searched for from the scan path upwards.
const FileName = ".sstan.yaml"

const (
	PolicyIsolate  = "isolate"
	PolicyFailFast = "fail-fast"
)

type IgnoreRule struct {
	Rule   string `yaml:"rule,omitempty"`
	Path   string `yaml:"path,omitempty"`
	Reason string `yaml:"reason,omitempty"`
	// Expires is a YYYY-MM-DD date after which the rule no longer applies.
	Expires string `yaml:"expires,omitempty"`
}

type Config struct {
	SeverityThreshold string           `yaml:"severityThreshold"`
	FailurePolicy     string           `yaml:"failurePolicy"`
	Rules             RuleSelection    `yaml:"rules"`
	Thresholds        rules.Thresholds `yaml:"thresholds"`
	Ignore            []IgnoreRule     `yaml:"ignore,omitempty"`
	Source            SourceConfig     `yaml:"source"`
	Logger            LoggerConfig     `yaml:"logger"`
}

// RuleSelection narrows the rule set. A non-empty Enabled list keeps only
// the named rules; Disabled always wins.
type RuleSelection struct {
	Enabled  []string `yaml:"enabled,omitempty"`
	Disabled []string `yaml:"disabled,omitempty"`
}

type SourceConfig struct {
	Exclude []string `yaml:"exclude,omitempty"`
}

type LoggerConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

func Default() Config {
	return Config{
		SeverityThreshold: string(model.SeverityInfo),
		FailurePolicy:     PolicyIsolate,
		Thresholds:        rules.DefaultThresholds(),
		Logger:            LoggerConfig{Level: "info"},
	}
}

// Load searches startDir and its parents for FileName and loads the first
// one found. With no file the defaults are returned with an empty path.
// Environment overrides apply either way.
func Load(startDir string) (Config, string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return Default(), "", err
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			cfg, err := LoadFile(candidate)
			return cfg, candidate, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cfg := Default()
	applyEnv(&cfg)
	return cfg, "", Validate(cfg)
}

// LoadFile reads one config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	applyEnv(&cfg)
	cfg.Thresholds = cfg.Thresholds.WithDefaults()
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SSTAN_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SSTAN_FAILURE_POLICY"); v != "" {
		cfg.FailurePolicy = v
	}
	if v := os.Getenv("SSTAN_SEVERITY_THRESHOLD"); v != "" {
		cfg.SeverityThreshold = v
	}
}

// Validate checks the values Load cannot repair.
func Validate(cfg Config) error {
	var errs []error
	switch cfg.FailurePolicy {
	case PolicyIsolate, PolicyFailFast:
	default:
		errs = append(errs, fmt.Errorf("failurePolicy must be %q or %q: %q", PolicyIsolate, PolicyFailFast, cfg.FailurePolicy))
	}
	if sev := strings.ToLower(strings.TrimSpace(cfg.SeverityThreshold)); sev != "" && string(model.ParseSeverity(sev)) != sev {
		errs = append(errs, fmt.Errorf("unknown severityThreshold %q", cfg.SeverityThreshold))
	}
	for i, ig := range cfg.Ignore {
		if ig.Rule == "" && ig.Path == "" {
			errs = append(errs, fmt.Errorf("ignore[%d]: rule or path is required", i))
		}
		if ig.Expires != "" {
			if _, err := time.Parse(time.DateOnly, ig.Expires); err != nil {
				errs = append(errs, fmt.Errorf("ignore[%d]: expires: %w", i, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Active reports whether ig still applies at now.
func (ig IgnoreRule) Active(now time.Time) bool {
	if ig.Expires == "" {
		return true
	}
	exp, err := time.Parse(time.DateOnly, ig.Expires)
	if err != nil {
		return true
	}
	return now.Before(exp.AddDate(0, 0, 1))
}

// Write stores cfg as YAML at path.
func Write(path string, cfg Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
