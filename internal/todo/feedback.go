package todo

import (
	"errors"
	"strings"

	"github.com/sandeepkv93/todolist/internal/model"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Feedback is the user-visible outcome of an action.
type Feedback struct {
	Level Level
	Text  string
}

func (f Feedback) IsError() bool {
	return f.Level == LevelError
}

// FeedbackFor maps an action error onto a message. Validation and not-found are soft warnings;
// an unreachable store is an error the user can retry on the next interaction.
func FeedbackFor(err error) Feedback {
	switch {
	case err == nil:
		return Feedback{Level: LevelInfo}
	case errors.Is(err, model.ErrValidation):
		return Feedback{Level: LevelWarning, Text: validationText(err)}
	case errors.Is(err, model.ErrNotFound):
		return Feedback{Level: LevelWarning, Text: "that task no longer exists"}
	case errors.Is(err, model.ErrStoreUnavailable):
		return Feedback{Level: LevelError, Text: "task store unavailable, please try again"}
	default:
		return Feedback{Level: LevelError, Text: err.Error()}
	}
}

func validationText(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, model.ErrValidation.Error()+": "); i >= 0 {
		msg = msg[i+len(model.ErrValidation.Error())+2:]
	}
	return msg
}
