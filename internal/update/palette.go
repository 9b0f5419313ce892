package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/commands"
	"github.com/sandeepkv93/todolist/internal/session"
	"github.com/sandeepkv93/todolist/internal/views"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		appendInto(&m.commandInput, msg)
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.closePalette()
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.closePalette()

	target := func(t commands.TargetArgs) int64 {
		if t.Selected {
			return m.SelectedTaskID
		}
		return t.ID
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			if _, err := m.addTask(a.Text, a.DueRaw); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "Task added!"}, nil
		},
		Done: func(t commands.TargetArgs) (commands.Result, error) {
			id := target(t)
			if err := m.setDone(id, true); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("task #%d marked done", id)}, nil
		},
		Undo: func(t commands.TargetArgs) (commands.Result, error) {
			id := target(t)
			if err := m.setDone(id, false); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("task #%d marked pending", id)}, nil
		},
		Toggle: func(t commands.TargetArgs) (commands.Result, error) {
			id := target(t)
			status, err := m.toggle(id)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("task #%d marked %s", id, status)}, nil
		},
		Edit: func(t commands.TargetArgs) (commands.Result, error) {
			id := target(t)
			if err := m.beginEdit(id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("editing task #%d", id)}, nil
		},
		Save: func(t commands.TargetArgs) (commands.Result, error) {
			id := target(t)
			if m.Edits.State(id) != session.Editing {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("task #%d is not being edited", id)}
			}
			if err := m.saveEdit(id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("task #%d updated", id)}, nil
		},
		Cancel: func(t commands.TargetArgs) (commands.Result, error) {
			id := target(t)
			if m.Edits.State(id) != session.Editing {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("task #%d is not being edited", id)}
			}
			m.cancelEdit(id)
			return commands.Result{Message: fmt.Sprintf("edit of task #%d cancelled", id)}, nil
		},
		Delete: func(t commands.TargetArgs) (commands.Result, error) {
			id := target(t)
			if err := m.requestDelete(id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("delete task #%d? [y/n]", id)}, nil
		},
		Sort: func(s commands.SortArgs) (commands.Result, error) {
			m.Sort = s.Key
			m.reload()
			return commands.Result{Message: fmt.Sprintf("sorted by %s", s.Key)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			m.Filter = f.Status
			m.reload()
			return commands.Result{Message: "showing " + filterLabel(f.Status)}, nil
		},
		Logout: func() (commands.Result, error) {
			m.logout()
			return commands.Result{Message: "logged out"}, nil
		},
	})
	if err != nil {
		m.showError(err)
		return m
	}
	m.Status = StatusBar{Text: res.Message}
	return m
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}
