package update

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/auth"
	"github.com/sandeepkv93/todolist/internal/session"
	"github.com/sandeepkv93/todolist/internal/views"
)

// resumeCmd logs back in with a saved token, if there is one.
func (m Model) resumeCmd() tea.Cmd {
	if m.tokens == nil || m.authn == nil {
		return nil
	}
	tokens, authn := m.tokens, m.authn
	return func() tea.Msg {
		token, err := tokens.Load()
		if err != nil || token == "" {
			return nil
		}
		res, err := authn.Resume(token)
		return LoginResultMsg{Result: res, Err: err, Resumed: true}
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.LoggingIn {
		return m, nil
	}
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.setLoginField(1 - m.loginField)
		return m, nil
	case "esc":
		m.usernameInput.SetValue("")
		m.passwordInput.SetValue("")
		m.setLoginField(0)
		return m, nil
	case "enter":
		if m.loginField == 0 && m.passwordInput.Value() == "" && strings.TrimSpace(m.usernameInput.Value()) != "" {
			m.setLoginField(1)
			return m, nil
		}
		return m.submitLogin()
	}
	if m.loginField == 0 {
		typeInto(&m.usernameInput, msg)
	} else {
		typeInto(&m.passwordInput, msg)
	}
	return m, nil
}

func (m *Model) setLoginField(field int) {
	m.loginField = field
	if field == 0 {
		m.usernameInput.Focus()
		m.passwordInput.Blur()
		return
	}
	m.usernameInput.Blur()
	m.passwordInput.Focus()
}

func (m Model) submitLogin() (Model, tea.Cmd) {
	username := strings.TrimSpace(m.usernameInput.Value())
	password := m.passwordInput.Value()
	if username == "" || password == "" {
		m.Auth = m.Auth.Logout()
		m.Status = StatusBar{Text: m.Auth.Prompt(), IsWarning: true}
		return m, nil
	}
	if m.authn == nil {
		m.Status = StatusBar{Text: "login is not configured", IsError: true}
		return m, nil
	}
	m.LoggingIn = true
	authn := m.authn
	return m, func() tea.Msg {
		res, err := authn.Login(username, password)
		return LoginResultMsg{Result: res, Err: err}
	}
}

func (m *Model) applyLoginResult(msg LoginResultMsg) {
	m.LoggingIn = false
	if msg.Err != nil {
		if msg.Resumed {
			m.logger.Info("saved session not resumed", "err", msg.Err)
			if m.tokens != nil {
				if err := m.tokens.Clear(); err != nil {
					m.logger.Warn("clear saved session", "err", err)
				}
			}
			return
		}
		if !errors.Is(msg.Err, auth.ErrInvalidCredentials) {
			m.logger.Error("login failed", "err", msg.Err)
			m.Status = StatusBar{Text: msg.Err.Error(), IsError: true}
			return
		}
		m.logger.Warn("login rejected", "username", strings.TrimSpace(m.usernameInput.Value()))
		m.Auth = m.Auth.Reject()
		m.passwordInput.SetValue("")
		m.setLoginField(1)
		m.Status = StatusBar{Text: m.Auth.Prompt(), IsError: true}
		return
	}

	m.Auth = m.Auth.Accept(msg.Result.Username, msg.Result.DisplayName)
	if !m.Auth.Authenticated() {
		m.Status = StatusBar{Text: m.Auth.Prompt(), IsError: true}
		return
	}
	if !msg.Resumed && m.tokens != nil && msg.Result.Token != "" {
		if err := m.tokens.Save(msg.Result.Token); err != nil {
			m.logger.Warn("persist session", "err", err)
		}
	}
	m.logger.Info("logged in", "owner", m.Auth.Owner, "resumed", msg.Resumed)
	m.usernameInput.SetValue("")
	m.passwordInput.SetValue("")
	m.usernameInput.Blur()
	m.passwordInput.Blur()
	m.Screen = ScreenTasks
	m.Mode = ModeBrowse
	m.Status = StatusBar{Text: m.Auth.Prompt()}
	m.reload()
}

func (m *Model) logout() {
	if m.tokens != nil {
		if err := m.tokens.Clear(); err != nil {
			m.logger.Warn("clear saved session", "err", err)
		}
	}
	m.logger.Info("logged out", "owner", m.Auth.Owner)
	m.Auth = m.Auth.Logout()
	m.refreshGen++
	m.Screen = ScreenLogin
	m.Mode = ModeBrowse
	m.Tasks = nil
	m.Cursor = 0
	m.SelectedTaskID = 0
	m.Filter = nil
	m.Edits = session.NewEditSession()
	m.EditingID = 0
	m.DeleteID = 0
	m.FormError = ""
	m.Palette = CommandPaletteState{}
	m.commandInput.SetValue("")
	m.commandInput.Blur()
	m.setLoginField(0)
	m.Status = StatusBar{Text: "logged out"}
}

func (m Model) renderLoginView() string {
	return views.RenderLoginPanel(views.LoginPanelData{
		Prompt:       m.Auth.Prompt(),
		Rejected:     m.Auth.Status == session.AuthRejected,
		UsernameView: m.usernameInput.View(),
		PasswordView: m.passwordInput.View(),
		Busy:         m.LoggingIn,
	})
}
