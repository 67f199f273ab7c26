// Package tui is the interactive browser over the vault: it lists stored
// connections, adds and removes them, and launches psql or shell sessions.
// Every vault error is rendered on the status line; nothing here crashes
// the program.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pgvault/pgvault/services/aws"
	"github.com/pgvault/pgvault/services/launcher"
	"github.com/pgvault/pgvault/vault"
)

type mode int

const (
	modeList mode = iota
	modeActions
	modeForm
	modeProfiles
	modeConfirmDelete
	modeConfirmQuit
	modeSearch
)

type action int

const (
	actionConnect action = iota
	actionIAMConnect
	actionSession
	actionDelete
)

func (a action) label() string {
	switch a {
	case actionConnect:
		return "Connect (psql)"
	case actionIAMConnect:
		return "IAM Connect"
	case actionSession:
		return "Session (shell with env vars)"
	default:
		return "Delete"
	}
}

func availableActions(conn vault.Connection) []action {
	if conn.IAMAuth {
		return []action{actionIAMConnect, actionSession, actionDelete}
	}
	return []action{actionConnect, actionSession, actionDelete}
}

type model struct {
	vault *vault.Vault

	conns  []vault.Connection
	cursor int

	mode          mode
	actions       []action
	actionCursor  int
	form          form
	profiles      []string
	profileCursor int

	search string
	status string

	width  int
	height int
}

// execDoneMsg arrives after a spawned psql/shell process exits and the
// terminal is back under our control.
type execDoneMsg struct{ err error }

// tokenMsg carries a generated IAM token (or the failure to get one).
type tokenMsg struct {
	conn    vault.Connection
	token   string
	err     error
	session bool
}

func Run(v *vault.Vault) error {
	m := model{vault: v}
	m.reload()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m *model) reload() {
	conns, err := m.vault.List()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.conns = conns
	if m.cursor >= len(m.visible()) {
		m.cursor = 0
	}
}

// visible applies the search filter to the loaded connections.
func (m *model) visible() []vault.Connection {
	if m.search == "" {
		return m.conns
	}
	var res []vault.Connection
	for _, conn := range m.conns {
		if strings.Contains(strings.ToLower(conn.Name), strings.ToLower(m.search)) {
			res = append(res, conn)
		}
	}
	return res
}

func (m *model) selected() (vault.Connection, bool) {
	visible := m.visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return vault.Connection{}, false
	}
	return visible[m.cursor], true
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case execDoneMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		m.mode = modeList
		m.reload()
		return m, nil

	case tokenMsg:
		if msg.err != nil {
			if aws.NeedsSSOLogin(msg.err) {
				m.status = "AWS SSO session expired; run `aws sso login` and retry"
			} else {
				m.status = msg.err.Error()
			}
			m.mode = modeList
			return m, nil
		}
		cmd := launcher.PsqlCommand(msg.conn, msg.token)
		if msg.session {
			cmd = launcher.ShellCommand(msg.conn, msg.token)
		}
		return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
			return execDoneMsg{err}
		})

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.mode == modeConfirmQuit {
				return m, tea.Quit
			}
			m.mode = modeConfirmQuit
			return m, nil
		}

		switch m.mode {
		case modeList:
			return m.updateList(msg)
		case modeActions:
			return m.updateActions(msg)
		case modeForm:
			return m.updateForm(msg)
		case modeProfiles:
			return m.updateProfiles(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case modeConfirmQuit:
			return m.updateConfirmQuit(msg)
		case modeSearch:
			return m.updateSearch(msg)
		}
	}

	return m, nil
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.mode = modeConfirmQuit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "a", "n":
		m.form = newForm()
		m.mode = modeForm
		m.status = ""
	case "/":
		m.mode = modeSearch
		m.status = ""
	case "esc":
		m.search = ""
		m.status = ""
		m.cursor = 0
	case "d":
		if _, ok := m.selected(); ok {
			m.mode = modeConfirmDelete
		}
	case "enter":
		if conn, ok := m.selected(); ok {
			m.actions = availableActions(conn)
			m.actionCursor = 0
			m.mode = modeActions
			m.status = ""
		}
	}
	return m, nil
}

func (m model) updateActions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeList
	case "up", "k":
		if m.actionCursor > 0 {
			m.actionCursor--
		}
	case "down", "j":
		if m.actionCursor < len(m.actions)-1 {
			m.actionCursor++
		}
	case "enter":
		conn, ok := m.selected()
		if !ok {
			m.mode = modeList
			return m, nil
		}
		switch m.actions[m.actionCursor] {
		case actionConnect:
			return m.launch(conn, false)
		case actionIAMConnect:
			m.profiles = aws.ListProfiles()
			m.profileCursor = 0
			if len(m.profiles) == 0 {
				// No configured profiles; fall back to the default chain.
				return m, generateToken(conn, "", false)
			}
			m.mode = modeProfiles
		case actionSession:
			if conn.IAMAuth {
				m.profiles = aws.ListProfiles()
				m.profileCursor = 0
				if len(m.profiles) == 0 {
					return m, generateToken(conn, "", true)
				}
				m.mode = modeProfiles
				return m, nil
			}
			return m.launch(conn, true)
		case actionDelete:
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

// launch fetches credentials and suspends the TUI around the child process.
func (m model) launch(conn vault.Connection, session bool) (tea.Model, tea.Cmd) {
	full, password, err := m.vault.Fetch(conn.Name)
	if err != nil {
		m.status = err.Error()
		m.mode = modeList
		return m, nil
	}

	cmd := launcher.PsqlCommand(full, password)
	if session {
		cmd = launcher.ShellCommand(full, password)
	}

	return m, tea.ExecProcess(cmd, func(err error) tea.Msg {
		return execDoneMsg{err}
	})
}

func generateToken(conn vault.Connection, profile string, session bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		token, err := aws.GenerateToken(ctx, conn, profile)
		return tokenMsg{conn: conn, token: token, err: err, session: session}
	}
}

func (m model) updateProfiles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeActions
	case "up", "k":
		if m.profileCursor > 0 {
			m.profileCursor--
		}
	case "down", "j":
		if m.profileCursor < len(m.profiles)-1 {
			m.profileCursor++
		}
	case "enter":
		conn, ok := m.selected()
		if !ok {
			m.mode = modeList
			return m, nil
		}
		session := m.actions[m.actionCursor] == actionSession
		m.status = fmt.Sprintf("Generating IAM token (profile %s)...", m.profiles[m.profileCursor])
		m.mode = modeList
		return m, generateToken(conn, m.profiles[m.profileCursor], session)
	}
	return m, nil
}

func (m model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		if conn, ok := m.selected(); ok {
			if err := m.vault.Remove(conn.Name); err != nil {
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("Removed '%s'", conn.Name)
			}
			m.reload()
		}
		m.mode = modeList
	case "n", "N", "esc", "q":
		m.mode = modeList
	}
	return m, nil
}

func (m model) updateConfirmQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter", "q", "ctrl+c":
		return m, tea.Quit
	case "n", "N", "esc":
		m.mode = modeList
	}
	return m, nil
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search = ""
		m.mode = modeList
	case "enter":
		m.mode = modeList
	case "backspace":
		if len(m.search) > 0 {
			m.search = m.search[:len(m.search)-1]
		}
	default:
		if len(msg.String()) == 1 {
			m.search += msg.String()
		}
	}
	m.cursor = 0
	return m, nil
}
