package views

import (
	"strings"
	"testing"
)

func TestRenderTaskPanelRows(t *testing.T) {
	out := RenderTaskPanel(TaskPanelData{
		Welcome: "Welcome Demo User!",
		Sort:    "due",
		Filter:  "all",
		Rows: []TaskRowData{
			{ID: 2, Text: "pay rent", Due: "01/02/26", Selected: true},
			{ID: 1, Text: "buy milk", Due: "-", Done: true, Editing: true},
		},
	})
	for _, want := range []string{"Welcome Demo User!", "sort=due filter=all", "> [ ] #2 pay rent  due:01/02/26", "[x] #1", "due:-", "(editing)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRenderTaskPanelEmpty(t *testing.T) {
	out := RenderTaskPanel(TaskPanelData{Sort: "id", Filter: "done"})
	if !strings.Contains(out, "(no tasks)") {
		t.Fatalf("expected empty marker: %q", out)
	}
}

func TestRenderLoginPanel(t *testing.T) {
	out := RenderLoginPanel(LoginPanelData{Prompt: "Please enter your username and password", UsernameView: "user> ", PasswordView: "pass> "})
	if !strings.Contains(out, "Please enter your username and password") || !strings.Contains(out, "[enter]login") {
		t.Fatalf("unexpected login panel: %q", out)
	}
	out = RenderLoginPanel(LoginPanelData{Prompt: "Invalid credentials", Rejected: true, Busy: true})
	if !strings.Contains(out, "Invalid credentials") || !strings.Contains(out, "checking credentials") {
		t.Fatalf("unexpected rejected panel: %q", out)
	}
}

func TestRenderTaskForm(t *testing.T) {
	out := RenderTaskForm(TaskFormData{Title: "edit #3", TextView: "text> x", DueView: "due> ", DueLayout: "02/01/06", ErrorText: "task text is required", OtherDraft: 1})
	for _, want := range []string{"edit #3:", "due format: 02/01/06", "error: task text is required", "other drafts open: 1", "[ctrl+o]keep draft"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in form: %q", want, out)
		}
	}
	add := RenderTaskForm(TaskFormData{Title: "add task"})
	if strings.Contains(add, "keep draft") {
		t.Fatalf("add form should not offer draft parking: %q", add)
	}
}

func TestRenderAppStatusAndPanes(t *testing.T) {
	out := RenderApp(AppData{Header: "todolist", LeftPane: "left", RightPane: "right", StatusLine: "status: Task added!", Footer: "keys"})
	for _, want := range []string{"todolist", "left", "right", "status: Task added!", "keys"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in app: %q", want, out)
		}
	}
}

func TestRenderHelpersWhenInactive(t *testing.T) {
	if RenderCommandPalette(false, "x") != "" {
		t.Fatal("inactive palette should render nothing")
	}
	if RenderMarkdown("  ") != "" {
		t.Fatal("blank markdown should render nothing")
	}
	if !strings.Contains(RenderTaskDetails(TaskDetailData{}), "(no selection)") {
		t.Fatal("expected no-selection details")
	}
}
