package update

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/session"
	"github.com/sandeepkv93/todolist/internal/todo"
	"github.com/sandeepkv93/todolist/internal/views"
)

// typeInto feeds a key to a focused text input, inserting runes at the cursor.
func typeInto(in *textinput.Model, msg tea.KeyMsg) {
	next, _ := in.Update(msg)
	*in = next
}

// appendInto is used by the palette, whose line is only ever appended to.
func appendInto(in *textinput.Model, msg tea.KeyMsg) {
	if msg.Type == tea.KeyRunes {
		in.SetValue(in.Value() + string(msg.Runes))
		in.CursorEnd()
		return
	}
	typeInto(in, msg)
}

func (m *Model) openForm(text, due string) {
	m.FormError = ""
	m.textInput.SetValue(text)
	m.textInput.CursorEnd()
	m.dueInput.SetValue(due)
	m.dueInput.CursorEnd()
	m.setFormField(0)
}

func (m *Model) setFormField(field int) {
	m.formField = field
	if field == 0 {
		m.textInput.Focus()
		m.dueInput.Blur()
		return
	}
	m.textInput.Blur()
	m.dueInput.Focus()
}

func (m *Model) leaveForm() {
	m.Mode = ModeBrowse
	m.FormError = ""
	m.textInput.SetValue("")
	m.dueInput.SetValue("")
	m.textInput.Blur()
	m.dueInput.Blur()
}

func (m *Model) focusedInput() *textinput.Model {
	if m.formField == 0 {
		return &m.textInput
	}
	return &m.dueInput
}

func (m *Model) beginAdd() {
	m.Mode = ModeAdd
	m.openForm("", "")
	m.Status = StatusBar{Text: "new task"}
}

func (m Model) handleAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.leaveForm()
		m.Status = StatusBar{Text: "add cancelled"}
		return m
	case "tab", "shift+tab":
		m.setFormField(1 - m.formField)
		return m
	case "enter":
		if _, err := m.addTask(m.textInput.Value(), m.dueInput.Value()); err != nil {
			m.FormError = todo.FeedbackFor(err).Text
			m.showError(err)
			return m
		}
		m.leaveForm()
		m.Status = StatusBar{Text: "Task added!"}
		return m
	}
	typeInto(m.focusedInput(), msg)
	return m
}

func (m *Model) addTask(text, dueRaw string) (int64, error) {
	id, err := m.service.Add(m.ctx, m.Auth.Owner, text, dueRaw)
	if err != nil {
		return 0, err
	}
	m.SelectedTaskID = id
	m.reload()
	return id, nil
}

// beginEdit opens the edit form for id, reusing a draft kept from an earlier visit.
func (m *Model) beginEdit(id int64) error {
	if id == 0 {
		return errNoSelection
	}
	task, err := m.service.Get(m.ctx, m.Auth.Owner, id)
	if err != nil {
		return err
	}
	m.Edits.Begin(id, session.Draft{Text: task.Text, DueRaw: m.dueDraft(task.Due)})
	draft, _ := m.Edits.Draft(id)
	m.EditingID = id
	m.Mode = ModeEdit
	m.openForm(draft.Text, draft.DueRaw)
	m.Status = StatusBar{Text: fmt.Sprintf("editing task #%d", id)}
	return nil
}

func (m Model) dueDraft(due *time.Time) string {
	if due == nil {
		return ""
	}
	return m.service.Codec().FormatDisplay(due)
}

func (m Model) handleEditKey(msg tea.KeyMsg) Model {
	id := m.EditingID
	switch msg.String() {
	case "esc":
		m.cancelEdit(id)
		m.Status = StatusBar{Text: "edit cancelled"}
		return m
	case "ctrl+o":
		m.leaveForm()
		m.EditingID = 0
		m.Status = StatusBar{Text: fmt.Sprintf("draft kept for task #%d", id)}
		return m
	case "tab", "shift+tab":
		m.setFormField(1 - m.formField)
		return m
	case "enter":
		if err := m.saveEdit(id); err != nil {
			m.showError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("task #%d updated", id)}
		return m
	}
	typeInto(m.focusedInput(), msg)
	if err := m.Edits.SetDraft(id, session.Draft{Text: m.textInput.Value(), DueRaw: m.dueInput.Value()}); err != nil {
		m.leaveForm()
		m.EditingID = 0
		m.showError(model.ErrNotFound)
	}
	return m
}

// saveEdit commits the draft of id. Invalid drafts keep the form open so the user can fix them; a task
// that vanished closes it.
func (m *Model) saveEdit(id int64) error {
	if m.Mode == ModeEdit && m.EditingID == id {
		if err := m.Edits.SetDraft(id, session.Draft{Text: m.textInput.Value(), DueRaw: m.dueInput.Value()}); err != nil {
			return err
		}
	}
	err := m.Edits.Save(m.ctx, id, m.service.Codec(), m.service.Saver(m.Auth.Owner))
	switch {
	case err == nil:
		if m.EditingID == id {
			m.leaveForm()
			m.EditingID = 0
		}
		m.reload()
		return nil
	case errors.Is(err, model.ErrNotFound), errors.Is(err, session.ErrNotEditing):
		if m.EditingID == id {
			m.leaveForm()
			m.EditingID = 0
		}
		m.reload()
		return err
	default:
		m.FormError = todo.FeedbackFor(err).Text
		return err
	}
}

func (m *Model) cancelEdit(id int64) {
	m.Edits.Cancel(id)
	if m.EditingID == id {
		m.leaveForm()
		m.EditingID = 0
	}
}

func (m Model) renderAddForm() string {
	return views.RenderTaskForm(views.TaskFormData{
		Title:     "add task",
		TextView:  m.textInput.View(),
		DueView:   m.dueInput.View(),
		DueLayout: m.dueLayout(),
		ErrorText: m.FormError,
	})
}

func (m Model) renderEditForm() string {
	return views.RenderTaskForm(views.TaskFormData{
		Title:      fmt.Sprintf("edit #%d", m.EditingID),
		TextView:   m.textInput.View(),
		DueView:    m.dueInput.View(),
		DueLayout:  m.dueLayout(),
		ErrorText:  m.FormError,
		OtherDraft: len(m.Edits.Editing()) - 1,
	})
}

func (m Model) dueLayout() string {
	if m.service == nil {
		return ""
	}
	return m.service.Codec().Layout()
}
