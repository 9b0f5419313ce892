package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/todolist/internal/listview"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/session"
	"github.com/sandeepkv93/todolist/internal/todo"
	"github.com/sandeepkv93/todolist/internal/views"
)

var errNoSelection = errors.New("no task selected")

func (m Model) handleTaskKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "a":
		m.beginAdd()
	case "e", "enter":
		if err := m.beginEdit(m.SelectedTaskID); err != nil {
			m.showError(err)
		}
	case " ", "x":
		id := m.SelectedTaskID
		if status, err := m.toggle(id); err != nil {
			m.showError(err)
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("task #%d marked %s", id, status)}
		}
	case "d":
		if err := m.requestDelete(m.SelectedTaskID); err != nil {
			m.showError(err)
		}
	case "s":
		m.cycleSort()
	case "f":
		m.cycleFilter()
	case "r":
		m.reload()
		m.Status = StatusBar{Text: "refreshed"}
	}
	return m
}

func (m Model) handleDeleteConfirmKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "y", "Y", "enter":
		id := m.DeleteID
		if err := m.confirmDelete(); err != nil {
			m.showError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("task #%d deleted", id)}
	case "n", "N", "esc":
		m.Mode = ModeBrowse
		m.DeleteID = 0
		m.Status = StatusBar{Text: "delete cancelled"}
	}
	return m
}

// reload re-reads the owner's tasks, drops edit flags of tasks that vanished, and projects the rows
// for the current sort and filter.
func (m *Model) reload() {
	if m.service == nil || !m.Auth.Authenticated() {
		m.Tasks = nil
		m.restoreCursor()
		return
	}
	all, err := m.service.List(m.ctx, m.Auth.Owner, m.Sort, nil)
	if err != nil {
		m.showError(err)
		return
	}
	ids := make([]int64, 0, len(all))
	for _, t := range all {
		ids = append(ids, t.ID)
	}
	m.Edits.Retain(ids)
	m.Tasks = listview.Project(all, m.Sort, m.Filter)
	m.restoreCursor()

	if m.Mode == ModeEdit && m.Edits.State(m.EditingID) != session.Editing {
		m.leaveForm()
		m.EditingID = 0
		m.showError(model.ErrNotFound)
	}
	if m.Mode == ModeConfirmDelete && !m.hasTask(m.DeleteID) {
		m.Mode = ModeBrowse
		m.DeleteID = 0
	}
}

func (m *Model) restoreCursor() {
	if len(m.Tasks) == 0 {
		m.Cursor = 0
		m.SelectedTaskID = 0
		return
	}
	for i, t := range m.Tasks {
		if t.ID == m.SelectedTaskID {
			m.Cursor = i
			return
		}
	}
	if m.Cursor >= len(m.Tasks) {
		m.Cursor = len(m.Tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	m.SelectedTaskID = m.Tasks[m.Cursor].ID
}

func (m *Model) moveCursor(delta int) {
	if len(m.Tasks) == 0 {
		return
	}
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Tasks) {
		return
	}
	m.Cursor = next
	m.SelectedTaskID = m.Tasks[next].ID
}

func (m Model) hasTask(id int64) bool {
	_, ok := m.taskByID(id)
	return ok
}

func (m Model) taskByID(id int64) (model.Task, bool) {
	for _, t := range m.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (m *Model) toggle(id int64) (model.Status, error) {
	if id == 0 {
		return "", errNoSelection
	}
	status, err := m.service.Toggle(m.ctx, m.Auth.Owner, id)
	m.reload()
	return status, err
}

func (m *Model) setDone(id int64, done bool) error {
	if id == 0 {
		return errNoSelection
	}
	err := m.service.SetDone(m.ctx, m.Auth.Owner, id, done)
	m.reload()
	return err
}

func (m *Model) requestDelete(id int64) error {
	if id == 0 {
		return errNoSelection
	}
	if _, err := m.service.Get(m.ctx, m.Auth.Owner, id); err != nil {
		return err
	}
	m.Mode = ModeConfirmDelete
	m.DeleteID = id
	m.Status = StatusBar{Text: fmt.Sprintf("delete task #%d? [y/n]", id)}
	return nil
}

func (m *Model) confirmDelete() error {
	id := m.DeleteID
	m.Mode = ModeBrowse
	m.DeleteID = 0
	if err := m.service.Delete(m.ctx, m.Auth.Owner, id); err != nil {
		return err
	}
	m.Edits.Forget(id)
	if m.EditingID == id {
		m.EditingID = 0
	}
	m.reload()
	return nil
}

func (m *Model) cycleSort() {
	keys := model.SortKeys()
	next := keys[0]
	for i, k := range keys {
		if k == m.Sort {
			next = keys[(i+1)%len(keys)]
			break
		}
	}
	m.Sort = next
	m.reload()
	m.Status = StatusBar{Text: fmt.Sprintf("sorted by %s", next)}
}

func (m *Model) cycleFilter() {
	switch {
	case m.Filter == nil:
		s := model.StatusPending
		m.Filter = &s
	case *m.Filter == model.StatusPending:
		s := model.StatusDone
		m.Filter = &s
	default:
		m.Filter = nil
	}
	m.reload()
	m.Status = StatusBar{Text: "showing " + filterLabel(m.Filter)}
}

func (m *Model) showError(err error) {
	if errors.Is(err, errNoSelection) {
		m.Status = StatusBar{Text: err.Error(), IsWarning: true}
		return
	}
	fb := todo.FeedbackFor(err)
	m.LastError = err
	m.Status = StatusBar{Text: fb.Text, IsError: fb.IsError(), IsWarning: fb.Level == todo.LevelWarning}
	if fb.IsError() {
		m.logger.Error("action failed", "owner", m.Auth.Owner, "err", err)
	}
}

func (m Model) renderTaskView() string {
	rows := make([]views.TaskRowData, 0, len(m.Tasks))
	for i, t := range m.Tasks {
		rows = append(rows, views.TaskRowData{
			ID:       t.ID,
			Text:     t.Text,
			Due:      m.displayDue(t),
			Done:     t.Done(),
			Editing:  m.Edits.State(t.ID) == session.Editing,
			Selected: i == m.Cursor,
		})
	}
	return views.RenderTaskPanel(views.TaskPanelData{
		Welcome: m.Auth.Prompt(),
		Sort:    string(m.Sort),
		Filter:  filterLabel(m.Filter),
		Rows:    rows,
	})
}

func (m Model) displayDue(t model.Task) string {
	if m.service == nil {
		return ""
	}
	return m.service.Codec().FormatDisplay(t.Due)
}

func (m Model) renderSidePane() string {
	switch m.Mode {
	case ModeAdd:
		return m.renderAddForm()
	case ModeEdit:
		return m.renderEditForm()
	case ModeConfirmDelete:
		t, _ := m.taskByID(m.DeleteID)
		return views.RenderDeleteConfirm(m.DeleteID, t.Text)
	}
	t, ok := m.taskByID(m.SelectedTaskID)
	if !ok {
		return views.RenderTaskDetails(views.TaskDetailData{})
	}
	return views.RenderTaskDetails(views.TaskDetailData{
		ID:      t.ID,
		Text:    t.Text,
		Due:     m.displayDue(t),
		Status:  string(t.Status),
		Created: t.CreatedAt.Local().Format("2006-01-02 15:04"),
		Editing: m.Edits.State(t.ID) == session.Editing,
	})
}
