package update

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/views"
)

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.resumeCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		keyStr := typed.String()
		if keyStr == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Screen == ScreenLogin {
			return m.handleLoginKey(typed)
		}

		if m.Palette.Active {
			if keyStr == m.Keys.Help {
				m.HelpVisible = !m.HelpVisible
				return m, nil
			}
			return m.handlePaletteKey(typed), nil
		}

		switch m.Mode {
		case ModeAdd:
			return m.handleAddKey(typed), nil
		case ModeEdit:
			return m.handleEditKey(typed), nil
		case ModeConfirmDelete:
			return m.handleDeleteConfirmKey(typed), nil
		}

		switch keyStr {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case m.Keys.Logout:
			m.logout()
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleTaskKey(typed), nil
	case LoginResultMsg:
		m.applyLoginResult(typed)
		if typed.Err == nil && m.Auth.Authenticated() {
			m.refreshGen++
			return m, m.refreshCmd()
		}
		return m, nil
	case ReloadTasksMsg:
		if typed.gen != 0 && typed.gen != m.refreshGen {
			return m, nil
		}
		m.reload()
		if typed.gen != 0 && m.Auth.Authenticated() {
			return m, m.refreshCmd()
		}
		return m, nil
	}

	return m, nil
}

// refreshCmd schedules the next store re-read for the current login.
func (m Model) refreshCmd() tea.Cmd {
	gen := m.refreshGen
	return tea.Tick(m.refreshEvery, func(time.Time) tea.Msg {
		return ReloadTasksMsg{gen: gen}
	})
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		switch {
		case m.Status.IsError:
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		case m.Status.IsWarning:
			status = fmt.Sprintf("status: warning: %s", m.Status.Text)
		default:
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	kind := views.StatusInfo
	if m.Status.IsError {
		kind = views.StatusError
	} else if m.Status.IsWarning {
		kind = views.StatusWarning
	}

	if m.Screen == ScreenLogin {
		return views.RenderApp(views.AppData{
			Header:     "todolist | login",
			LeftPane:   m.renderLoginView(),
			RightPane:  m.renderHelpIfVisible(),
			StatusLine: status,
			StatusKind: kind,
			Footer:     "keys: tab next field | enter login | ctrl+c quit",
		})
	}

	leftPane := m.renderTaskView()
	if palette := m.renderCommandPalette(); palette != "" {
		leftPane += "\n\n" + palette
	}
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("todolist | user: %s | selected: #%d", m.Auth.Owner, m.SelectedTaskID),
		LeftPane:   leftPane,
		RightPane:  m.renderSidePane() + m.renderHelpIfVisible(),
		StatusLine: status,
		StatusKind: kind,
		Footer: fmt.Sprintf("keys: a add | e edit | space done | d delete | s sort | f filter | / cmd | %s logout | %s help | %s quit",
			m.Keys.Logout, m.Keys.Help, m.Keys.Quit),
	})
}
