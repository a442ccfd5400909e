package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/0x0918/sstan/internal/engine"
	"github.com/0x0918/sstan/internal/model"
)

var categoryHeadings = map[model.Category]string{
	model.CategoryVulnerability: "Vulnerabilities",
	model.CategoryOptimization:  "Optimizations",
	model.CategoryQuality:       "Quality Assurance",
}

// Markdown writes one section per category and one subsection per rule
// with findings, listing each finding's location and source.
func Markdown(w io.Writer, res *engine.ScanResult, opts Options) error {
	var b strings.Builder
	sum := res.Report.Summary()
	fmt.Fprintf(&b, "# sstan report\n\nRun `%s`: %d files, %d rules, %d findings.\n", sum.RunID, sum.Files, sum.Rules, len(res.Issues))

	rules, _ := ruleIndex(res.Report)
	byRule := groupByRule(res.Issues)
	for _, c := range model.Categories {
		var metas []model.RuleMeta
		for _, m := range rules {
			if m.Category == c && len(byRule[m.ID]) > 0 {
				metas = append(metas, m)
			}
		}
		if len(metas) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n## %s\n", categoryHeadings[c])
		for _, m := range metas {
			writeRuleSection(&b, m, byRule[m.ID], opts)
		}
	}

	if failures := res.Report.Failures(); len(failures) > 0 {
		b.WriteString("\n## Failed rules\n\n")
		for _, f := range failures {
			fmt.Fprintf(&b, "- `%s` (%s): %v\n", f.RuleID, f.Category, f.Err)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeRuleSection(b *strings.Builder, m model.RuleMeta, issues []model.Issue, opts Options) {
	fmt.Fprintf(b, "\n### %s\n\n`%s` · severity: %s · instances: %d\n", m.Title, m.ID, m.Severity, len(issues))
	if opts.Descriptions {
		if m.Description != "" {
			fmt.Fprintf(b, "\n%s\n", m.Description)
		}
		if m.Remediation != "" {
			fmt.Fprintf(b, "\n**Remediation:** %s\n", m.Remediation)
		}
		for _, ref := range m.References {
			fmt.Fprintf(b, "\n- %s", ref)
		}
		if len(m.References) > 0 {
			b.WriteString("\n")
		}
	}
	file := ""
	for _, is := range issues {
		if is.File != file {
			file = is.File
			fmt.Fprintf(b, "\n`%s`\n", file)
		}
		fmt.Fprintf(b, "\nLine %d:\n\n```solidity\n%s\n```\n", is.StartLine, is.Snippet)
	}
}
