package httpapi

import (
	"time"

	"github.com/sandeepkv93/todolist/internal/datecodec"
	"github.com/sandeepkv93/todolist/internal/model"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
	Message     string `json:"message"`
}

// TaskRequest is the body of create and update calls. Due is display text; empty clears the date.
type TaskRequest struct {
	Text   string  `json:"text"`
	Due    string  `json:"due"`
	Status *string `json:"status,omitempty"`
}

type TaskResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Due        string    `json:"due,omitempty"`
	DueDisplay string    `json:"due_display"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

type TaskListResponse struct {
	Tasks  []TaskResponse `json:"tasks"`
	Sort   string         `json:"sort"`
	Filter string         `json:"filter"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func newTaskResponse(t model.Task, codec *datecodec.Codec) TaskResponse {
	return TaskResponse{
		ID:         t.ID,
		Text:       t.Text,
		Due:        datecodec.FormatCanonical(t.Due),
		DueDisplay: codec.FormatDisplay(t.Due),
		Status:     string(t.Status),
		CreatedAt:  t.CreatedAt.UTC(),
	}
}
