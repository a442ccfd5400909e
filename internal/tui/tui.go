package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/0x0918/sstan/internal/model"
)

type modelT struct {
	issues []model.Issue
	cursor int
	detail bool
}

func initialModel(issues []model.Issue) modelT { return modelT{issues: issues} }

func (m modelT) Init() tea.Cmd { return nil }

func (m modelT) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.detail = false
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.issues)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.detail = !m.detail && len(m.issues) > 0
	}
	return m, nil
}

func (m modelT) View() string {
	var b strings.Builder
	if m.detail {
		is := m.issues[m.cursor]
		fmt.Fprintf(&b, "%s [%s] %s\n%s:%d-%d\n\n%s\n\n(esc back, q quit)\n", is.RuleID, is.Severity, is.Title, is.File, is.StartLine, is.EndLine, is.Snippet)
		return b.String()
	}
	fmt.Fprintf(&b, "Findings (%d)\n\n", len(m.issues))
	for i, is := range m.issues {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		fmt.Fprintf(&b, "%s%s [%s] %s:%d %s\n", marker, is.RuleID, is.Severity, is.File, is.StartLine, is.Title)
	}
	b.WriteString("\n(up/down move, enter details, q quit)\n")
	return b.String()
}

// Run launches the finding browser.
func Run(issues []model.Issue) error {
	p := tea.NewProgram(initialModel(issues))
	_, err := p.Run()
	return err
}
