package model

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryVulnerability Category = "vulnerability"
	CategoryOptimization  Category = "optimization"
	CategoryQuality       Category = "quality"
)

// Categories lists the categories in the order an engine runs them.
var Categories = []Category{CategoryVulnerability, CategoryOptimization, CategoryQuality}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SeverityCritical):
		return SeverityCritical
	case string(SeverityHigh):
		return SeverityHigh
	case string(SeverityMedium):
		return SeverityMedium
	case string(SeverityLow):
		return SeverityLow
	default:
		return SeverityInfo
	}
}

func SeverityGTE(a, b Severity) bool {
	order := map[Severity]int{SeverityInfo: 0, SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3, SeverityCritical: 4}
	return order[a] >= order[b]
}

type RuleMeta struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Category    Category `json:"category" yaml:"category"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Remediation string   `json:"remediation,omitempty" yaml:"remediation,omitempty"`
	References  []string `json:"references,omitempty" yaml:"references,omitempty"`
}

// Loc is a span of source text. Start and End are byte offsets into the
// file, End exclusive; lines and columns are 1-based.
type Loc struct {
	File      string `json:"file"`
	Start     int    `json:"start"`
	End       int    `json:"end"`
	StartLine int    `json:"startLine"`
	StartCol  int    `json:"startColumn"`
	EndLine   int    `json:"endLine"`
	EndCol    int    `json:"endColumn"`
}

// Finding is one flagged occurrence of a rule.
type Finding struct {
	File    string `json:"file"`
	Loc     Loc    `json:"loc"`
	Snippet string `json:"snippet"`
}

// Issue flattens a Finding together with the rule that produced it, for
// filtering and rendering.
type Issue struct {
	RuleID      string   `json:"ruleId"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Severity    Severity `json:"severity"`
	File        string   `json:"file"`
	StartLine   int      `json:"startLine"`
	EndLine     int      `json:"endLine"`
	Snippet     string   `json:"snippet"`
	Fingerprint string   `json:"fingerprint"`
}

type ScanRequest struct {
	Path      string
	DeltaOnly bool
	FailFast  bool
	// Baseline names a fingerprint file whose issues are dropped.
	Baseline string
}

type ScanSummary struct {
	RunID    string        `json:"runId"`
	Files    int           `json:"files"`
	Rules    int           `json:"rules"`
	Failed   int           `json:"failed"`
	Findings int           `json:"findings"`
	Elapsed  time.Duration `json:"elapsed"`
}
