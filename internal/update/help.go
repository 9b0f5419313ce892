package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/todolist/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.screenBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	screen := string(m.Screen)
	if m.Screen == ScreenTasks {
		screen = string(m.Mode)
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		Screen:   screen,
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
	})
}

func (m Model) globalBindings() []KeyBinding {
	if m.Screen == ScreenLogin {
		return []KeyBinding{{Key: "ctrl+c", Action: "quit app"}}
	}
	return []KeyBinding{
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Logout, Action: "log out"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) screenBindings() []KeyBinding {
	if m.Screen == ScreenLogin {
		return []KeyBinding{
			{Key: "tab", Action: "switch username/password"},
			{Key: "enter", Action: "log in"},
			{Key: "esc", Action: "clear form"},
		}
	}
	switch m.Mode {
	case ModeAdd:
		return []KeyBinding{
			{Key: "tab", Action: "switch text/due"},
			{Key: "enter", Action: "add task"},
			{Key: "esc", Action: "cancel"},
		}
	case ModeEdit:
		return []KeyBinding{
			{Key: "tab", Action: "switch text/due"},
			{Key: "enter", Action: "save changes"},
			{Key: "ctrl+o", Action: "keep draft and return to list"},
			{Key: "esc", Action: "discard draft"},
		}
	case ModeConfirmDelete:
		return []KeyBinding{
			{Key: "y", Action: "delete task"},
			{Key: "n", Action: "keep task"},
		}
	default:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "a", Action: "add task"},
			{Key: "e", Action: "edit selected task"},
			{Key: "space", Action: "toggle done"},
			{Key: "d", Action: "delete selected task"},
			{Key: "s", Action: "cycle sort key"},
			{Key: "f", Action: "cycle status filter"},
			{Key: "r", Action: "reload tasks"},
		}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.screenBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.screenBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
