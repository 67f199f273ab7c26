package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pg-vault"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  password storage: %s", m.vault.BackendName())))
	b.WriteString("\n\n")

	switch m.mode {
	case modeForm:
		b.WriteString(m.viewForm())
	case modeActions:
		b.WriteString(m.viewList())
		b.WriteString("\n")
		b.WriteString(m.viewActions())
	case modeProfiles:
		b.WriteString(m.viewProfiles())
	case modeConfirmDelete:
		b.WriteString(m.viewList())
		if conn, ok := m.selected(); ok {
			b.WriteString("\n" + boxStyle.Render(fmt.Sprintf("Delete '%s'? (y/n)", conn.Name)))
		}
	case modeConfirmQuit:
		b.WriteString(m.viewList())
		b.WriteString("\n" + boxStyle.Render("Quit pg-vault? (y/n)"))
	default:
		b.WriteString(m.viewList())
	}

	if m.mode == modeSearch || m.search != "" {
		b.WriteString(fmt.Sprintf("\nSearch: %s", m.search))
		if m.mode == modeSearch {
			b.WriteString("█")
		}
	}

	if m.status != "" {
		b.WriteString("\n" + statusStyle.Render(m.status))
	}

	b.WriteString("\n" + dimStyle.Render(m.helpLine()))

	return b.String()
}

func (m model) viewList() string {
	visible := m.visible()
	if len(visible) == 0 {
		if m.search != "" {
			return dimStyle.Render("No connections match the search.")
		}
		return dimStyle.Render("No stored connections. Press 'a' to add one.")
	}

	var b strings.Builder
	for i, conn := range visible {
		line := fmt.Sprintf("%s  %s@%s/%s  [%s]", conn.Name, conn.Username, conn.Addr(), conn.Database, conn.AuthType())
		if i == m.cursor {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) viewActions() string {
	conn, ok := m.selected()
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Actions for '%s':\n", conn.Name))
	for i, a := range m.actions {
		if i == m.actionCursor {
			b.WriteString(selectedStyle.Render("> " + a.label()))
		} else {
			b.WriteString("  " + a.label())
		}
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) viewProfiles() string {
	var b strings.Builder
	b.WriteString("Select AWS profile:\n")
	for i, profile := range m.profiles {
		if i == m.profileCursor {
			b.WriteString(selectedStyle.Render("> " + profile))
		} else {
			b.WriteString("  " + profile)
		}
		b.WriteString("\n")
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) viewForm() string {
	var b strings.Builder
	b.WriteString("Add connection:\n\n")

	for field := 0; field < fieldCount; field++ {
		marker := "  "
		if field == m.form.focus {
			marker = selectedStyle.Render("> ")
		}

		switch field {
		case fieldIAM:
			check := "[ ]"
			if m.form.iam {
				check = "[x]"
			}
			b.WriteString(fmt.Sprintf("%s%-10s %s\n", marker, fieldLabels[field], check))
		case fieldPassword:
			if m.form.iam {
				continue
			}
			b.WriteString(fmt.Sprintf("%s%-10s %s\n", marker, fieldLabels[field], m.form.inputs[inputIndex[field]].View()))
		case fieldSubmit:
			b.WriteString(fmt.Sprintf("\n%s[ %s ]\n", marker, fieldLabels[field]))
		default:
			b.WriteString(fmt.Sprintf("%s%-10s %s\n", marker, fieldLabels[field], m.form.inputs[inputIndex[field]].View()))
		}
	}

	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m model) helpLine() string {
	switch m.mode {
	case modeList:
		return "enter: actions  a: add  d: delete  /: search  q: quit"
	case modeActions:
		return "enter: run  esc: back"
	case modeForm:
		return "tab/↑↓: move  space: toggle  enter: next/submit  esc: cancel"
	case modeProfiles:
		return "enter: select  esc: back"
	case modeSearch:
		return "enter: apply  esc: clear"
	default:
		return ""
	}
}
