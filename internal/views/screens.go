package views

import (
	"fmt"
	"strings"
)

type LoginPanelData struct {
	Prompt       string
	Rejected     bool
	UsernameView string
	PasswordView string
	Busy         bool
}

type TaskRowData struct {
	ID       int64
	Text     string
	Due      string
	Done     bool
	Editing  bool
	Selected bool
}

type TaskPanelData struct {
	Welcome string
	Sort    string
	Filter  string
	Rows    []TaskRowData
}

type TaskFormData struct {
	Title      string
	TextView   string
	DueView    string
	DueLayout  string
	ErrorText  string
	OtherDraft int
}

type TaskDetailData struct {
	ID      int64
	Text    string
	Due     string
	Status  string
	Created string
	Editing bool
}

type HelpPanelData struct {
	Screen   string
	Bindings []string
	HelpView string
}

func RenderLoginPanel(data LoginPanelData) string {
	var b strings.Builder
	b.WriteString("login:\n")
	prompt := data.Prompt
	if data.Rejected {
		prompt = errorStyle.Render(prompt)
	}
	b.WriteString(prompt + "\n\n")
	b.WriteString(data.UsernameView + "\n")
	b.WriteString(data.PasswordView + "\n\n")
	if data.Busy {
		b.WriteString("checking credentials...")
	} else {
		b.WriteString("actions: [tab]next field [enter]login [esc]clear")
	}
	return strings.TrimSpace(b.String())
}

func RenderTaskPanel(data TaskPanelData) string {
	var b strings.Builder
	if data.Welcome != "" {
		b.WriteString(data.Welcome + "\n")
	}
	b.WriteString(fmt.Sprintf("tasks: sort=%s filter=%s\n", data.Sort, data.Filter))
	b.WriteString("actions: [a]add [e]edit [space]done [d]delete [s]sort [f]filter\n")
	if len(data.Rows) == 0 {
		b.WriteString("\n(no tasks)")
		return b.String()
	}
	b.WriteString("\n")
	for _, row := range data.Rows {
		b.WriteString(renderTaskRow(row) + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderTaskRow(row TaskRowData) string {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	check := "[ ]"
	text := row.Text
	if row.Done {
		check = "[x]"
		text = doneStyle.Render(text)
	}
	marker := ""
	if row.Editing {
		marker = " (editing)"
	}
	return fmt.Sprintf("%s %s #%d %s  due:%s%s", cursor, check, row.ID, text, row.Due, marker)
}

func RenderTaskForm(data TaskFormData) string {
	var b strings.Builder
	b.WriteString(data.Title + ":\n")
	b.WriteString(data.TextView + "\n")
	b.WriteString(data.DueView + "\n")
	b.WriteString(fmt.Sprintf("due format: %s (leave empty for none)\n", data.DueLayout))
	if data.ErrorText != "" {
		b.WriteString(warningStyle.Render("error: "+data.ErrorText) + "\n")
	}
	if data.OtherDraft > 0 {
		b.WriteString(fmt.Sprintf("other drafts open: %d\n", data.OtherDraft))
	}
	b.WriteString("keys: [tab]field [enter]save [esc]cancel")
	if strings.HasPrefix(data.Title, "edit") {
		b.WriteString(" [ctrl+o]keep draft")
	}
	return b.String()
}

func RenderDeleteConfirm(id int64, text string) string {
	return fmt.Sprintf("delete #%d %q?\nconfirm: [y]es [n]o", id, text)
}

func RenderTaskDetails(data TaskDetailData) string {
	if data.ID == 0 {
		return "details:\n(no selection)"
	}
	var md strings.Builder
	md.WriteString(fmt.Sprintf("## Task #%d\n\n", data.ID))
	md.WriteString(data.Text + "\n\n")
	md.WriteString(fmt.Sprintf("- **status:** %s\n", data.Status))
	md.WriteString(fmt.Sprintf("- **due:** %s\n", data.Due))
	md.WriteString(fmt.Sprintf("- **created:** %s\n", data.Created))
	if data.Editing {
		md.WriteString("\n_draft in progress_\n")
	}
	return "details:\n" + RenderMarkdown(md.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.Screen),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}
