package engine

import (
	"strings"

	"github.com/0x0918/sstan/internal/config"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/rules"
)

// selectRules applies the enabled and disabled lists of sel to rs,
// keeping order.
func selectRules(rs []rules.Rule, sel config.RuleSelection) []rules.Rule {
	enabled := idSet(sel.Enabled)
	disabled := idSet(sel.Disabled)
	var out []rules.Rule
	for _, r := range rs {
		id := strings.ToUpper(r.Meta().ID)
		if len(enabled) > 0 && !enabled[id] {
			continue
		}
		if disabled[id] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func idSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.ToUpper(strings.TrimSpace(id)); id != "" {
			m[id] = true
		}
	}
	return m
}

// filterBySeverity removes issues below threshold.
func filterBySeverity(issues []model.Issue, threshold model.Severity) []model.Issue {
	var out []model.Issue
	for _, is := range issues {
		if model.SeverityGTE(is.Severity, threshold) {
			out = append(out, is)
		}
	}
	return out
}

// AtOrAbove reports whether any issue reaches sev.
func AtOrAbove(issues []model.Issue, sev model.Severity) bool {
	for _, is := range issues {
		if model.SeverityGTE(is.Severity, sev) {
			return true
		}
	}
	return false
}
