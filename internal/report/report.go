// Package report renders scan results as text, markdown, JSON or SARIF.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/0x0918/sstan/internal/engine"
	"github.com/0x0918/sstan/internal/model"
)

type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatSARIF    Format = "sarif"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", "table":
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatText, FormatMarkdown, FormatJSON, FormatSARIF:
		return f, nil
	}
	return "", fmt.Errorf("unknown report format %q", s)
}

type Options struct {
	// Descriptions adds each rule's description and remediation to the
	// markdown report.
	Descriptions bool
}

// Write renders res in format f.
func Write(w io.Writer, f Format, res *engine.ScanResult, opts Options) error {
	switch f {
	case FormatMarkdown:
		return Markdown(w, res, opts)
	case FormatJSON:
		return JSON(w, res)
	case FormatSARIF:
		return SARIF(w, res)
	default:
		return Text(w, res)
	}
}

// ruleIndex returns the metadata of every rule that ran, in run order.
func ruleIndex(r *engine.Report) ([]model.RuleMeta, map[string]model.RuleMeta) {
	var order []model.RuleMeta
	byID := map[string]model.RuleMeta{}
	if r == nil {
		return order, byID
	}
	for _, s := range r.Sections {
		for _, res := range s.Results {
			if _, dup := byID[res.Rule.ID]; dup {
				continue
			}
			byID[res.Rule.ID] = res.Rule
			order = append(order, res.Rule)
		}
	}
	return order, byID
}

func groupByRule(issues []model.Issue) map[string][]model.Issue {
	m := map[string][]model.Issue{}
	for _, is := range issues {
		m[is.RuleID] = append(m[is.RuleID], is)
	}
	return m
}
