package engine

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/0x0918/sstan/internal/config"
	"github.com/0x0918/sstan/internal/model"
	"github.com/0x0918/sstan/internal/source"
	"github.com/0x0918/sstan/internal/util"
)

const inlineMarker = "sstan:ignore"

// applyIgnores drops issues matched by an active config ignore rule or by an
// inline suppression comment.
func applyIgnores(issues []model.Issue, ignores []config.IgnoreRule, col *source.Collection, now time.Time) []model.Issue {
	var out []model.Issue
	for _, is := range issues {
		if isIgnored(is, ignores, now) || hasInlineSuppression(col, is) {
			continue
		}
		out = append(out, is)
	}
	return out
}

func isIgnored(is model.Issue, ignores []config.IgnoreRule, now time.Time) bool {
	for _, ig := range ignores {
		if !ig.Active(now) {
			continue
		}
		if ig.Rule != "" && !strings.EqualFold(ig.Rule, is.RuleID) {
			continue
		}
		if ig.Path != "" && !strings.HasPrefix(filepath.ToSlash(is.File), filepath.ToSlash(ig.Path)) {
			continue
		}
		return true
	}
	return false
}

// hasInlineSuppression looks at the finding's first line and the line above
// it for a comment starting with the marker. Format:
// // sstan:ignore RULE-ID [RULE-ID...]
// A marker without ids suppresses every rule.
func hasInlineSuppression(col *source.Collection, is model.Issue) bool {
	if col == nil {
		return false
	}
	unit := col.Unit(is.File)
	if unit == nil {
		return false
	}
	for _, line := range util.Window(unit.Source, is.StartLine, is.StartLine, 1, 0) {
		comment, ok := commentText(line)
		if !ok {
			continue
		}
		rest, ok := strings.CutPrefix(strings.TrimSpace(strings.TrimLeft(comment, "/*")), inlineMarker)
		if !ok {
			continue
		}
		rest = strings.TrimSuffix(strings.TrimSpace(rest), "*/")
		ids := strings.FieldsFunc(rest, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
		if len(ids) == 0 {
			return true
		}
		for _, id := range ids {
			if strings.EqualFold(id, is.RuleID) {
				return true
			}
		}
	}
	return false
}

// commentText returns what follows the first `//` or `/*` on line that is
// not inside a string literal.
func commentText(line string) (string, bool) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(line) && (line[i+1] == '/' || line[i+1] == '*'):
			return line[i+2:], true
		}
	}
	return "", false
}
