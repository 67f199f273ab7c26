package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgvault/pgvault/vault"
)

// Form field order. IAM and Submit are not text inputs; the password field
// is skipped while IAM is on.
const (
	fieldName = iota
	fieldHost
	fieldPort
	fieldDatabase
	fieldUsername
	fieldIAM
	fieldPassword
	fieldSubmit
	fieldCount
)

var fieldLabels = [fieldCount]string{"Name", "Host", "Port", "Database", "Username", "IAM Auth", "Password", "Submit"}

// inputIndex maps form fields to their text inputs, -1 for non-text fields.
var inputIndex = [fieldCount]int{0, 1, 2, 3, 4, -1, 5, -1}

type form struct {
	inputs []textinput.Model
	iam    bool
	focus  int
}

func newForm() form {
	f := form{inputs: make([]textinput.Model, 6)}

	for i := range f.inputs {
		f.inputs[i] = textinput.New()
		f.inputs[i].CharLimit = 128
		f.inputs[i].Prompt = ""
	}

	f.inputs[inputIndex[fieldPort]].SetValue(strconv.Itoa(vault.DefaultPort))
	f.inputs[inputIndex[fieldPort]].Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("port must be numeric")
			}
		}
		return nil
	}
	f.inputs[inputIndex[fieldPassword]].EchoMode = textinput.EchoPassword

	f.inputs[inputIndex[fieldName]].Focus()

	return f
}

func (f *form) value(field int) string {
	return f.inputs[inputIndex[field]].Value()
}

func (f *form) setFocus(field int) {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	f.focus = field
	if idx := inputIndex[field]; idx >= 0 {
		f.inputs[idx].Focus()
	}
}

func (f *form) next() {
	field := f.focus + 1
	if f.iam && field == fieldPassword {
		field = fieldSubmit
	}
	if field >= fieldCount {
		field = fieldCount - 1
	}
	f.setFocus(field)
}

func (f *form) prev() {
	field := f.focus - 1
	if f.iam && field == fieldPassword {
		field = fieldIAM
	}
	if field < 0 {
		field = 0
	}
	f.setFocus(field)
}

func (m model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		return m, nil

	case "tab", "down":
		m.form.next()
		return m, nil

	case "shift+tab", "up":
		m.form.prev()
		return m, nil

	case "enter":
		if m.form.focus == fieldSubmit {
			return m.submitForm()
		}
		if m.form.focus == fieldIAM {
			m.form.iam = !m.form.iam
			return m, nil
		}
		m.form.next()
		return m, nil

	case " ":
		if m.form.focus == fieldIAM {
			m.form.iam = !m.form.iam
			return m, nil
		}
	}

	if idx := inputIndex[m.form.focus]; idx >= 0 {
		var cmd tea.Cmd
		m.form.inputs[idx], cmd = m.form.inputs[idx].Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) submitForm() (tea.Model, tea.Cmd) {
	port := vault.DefaultPort
	if v := m.form.value(fieldPort); v != "" {
		port, _ = strconv.Atoi(v)
	}

	conn := vault.Connection{
		Name:     m.form.value(fieldName),
		Host:     m.form.value(fieldHost),
		Port:     port,
		Database: m.form.value(fieldDatabase),
		Username: m.form.value(fieldUsername),
		IAMAuth:  m.form.iam,
	}

	password := m.form.value(fieldPassword)
	if !conn.IAMAuth && password == "" {
		m.status = "Password is required for non-IAM connections"
		return m, nil
	}

	if err := m.vault.Store(conn, password); err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.status = fmt.Sprintf("Stored '%s'", conn.Name)
	m.mode = modeList
	m.reload()

	return m, nil
}
