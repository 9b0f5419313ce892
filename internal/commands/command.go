package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/todolist/internal/model"
)

type Type string

const (
	TypeAdd    Type = "add"
	TypeDone   Type = "done"
	TypeUndo   Type = "undo"
	TypeToggle Type = "toggle"
	TypeEdit   Type = "edit"
	TypeSave   Type = "save"
	TypeCancel Type = "cancel"
	TypeDelete Type = "delete"
	TypeSort   Type = "sort"
	TypeFilter Type = "filter"
	TypeLogout Type = "logout"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const dueMarker = "due:"

type AddArgs struct {
	Text   string
	DueRaw string
}

// TargetArgs names a task by id. Selected is set when no id was typed and the caller should use the
// highlighted row.
type TargetArgs struct {
	ID       int64
	Selected bool
}

type SortArgs struct {
	Key model.SortKey
}

// FilterArgs carries a nil Status for "all".
type FilterArgs struct {
	Status *model.Status
}

type Command struct {
	Type   Type
	Raw    string
	Add    *AddArgs
	Target *TargetArgs
	Sort   *SortArgs
	Filter *FilterArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch t := Type(head); t {
	case TypeAdd:
		return parseAdd(input, strings.TrimSpace(raw[len(parts[0]):]))
	case TypeDone, TypeUndo, TypeToggle, TypeEdit, TypeSave, TypeCancel, TypeDelete:
		return parseTarget(input, t, args)
	case TypeSort:
		return parseSort(input, args)
	case TypeFilter:
		return parseFilter(input, args)
	case TypeLogout:
		return Command{Type: TypeLogout, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd keeps the text as typed. A trailing "due:<date>" is split off and left unparsed so the
// caller can apply its display layout.
func parseAdd(raw, rest string) (Command, error) {
	text, due := rest, ""
	if idx := lastDueMarker(rest); idx >= 0 {
		text = strings.TrimSpace(rest[:idx])
		due = strings.TrimSpace(rest[idx+len(dueMarker):])
	}
	if strings.TrimSpace(text) == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text, DueRaw: due}}, nil
}

func lastDueMarker(s string) int {
	lower := strings.ToLower(s)
	idx := strings.LastIndex(lower, dueMarker)
	if idx < 0 {
		return -1
	}
	if idx > 0 && lower[idx-1] != ' ' {
		return -1
	}
	return idx
}

func parseTarget(raw string, t Type, args []string) (Command, error) {
	if len(args) == 0 || strings.EqualFold(args[0], "selected") {
		return Command{Type: t, Raw: raw, Target: &TargetArgs{Selected: true}}, nil
	}
	if len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s takes a single task id", t)}
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(args[0], "#"), 10, 64)
	if err != nil || id <= 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%q is not a task id", args[0])}
	}
	return Command{Type: t, Raw: raw, Target: &TargetArgs{ID: id}}, nil
}

func parseSort(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("sort requires one of %v", model.SortKeys())}
	}
	key := model.SortKey(strings.ToLower(args[0]))
	if !key.IsKnown() {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown sort key %q, expected one of %v", args[0], model.SortKeys())}
	}
	return Command{Type: TypeSort, Raw: raw, Sort: &SortArgs{Key: key}}, nil
}

func parseFilter(raw string, args []string) (Command, error) {
	value := ""
	if len(args) > 0 {
		value = args[0]
	}
	status, err := model.ParseStatusFilter(value)
	if err != nil || len(args) > 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "filter expects all, pending or done"}
	}
	return Command{Type: TypeFilter, Raw: raw, Filter: &FilterArgs{Status: status}}, nil
}
