// Package httpapi exposes the task boundary service as a JSON API. Every task route requires a Bearer
// token issued by the login route, and only ever touches the token owner's tasks.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"
	"github.com/sandeepkv93/todolist/internal/auth"
	"github.com/sandeepkv93/todolist/internal/model"
	"github.com/sandeepkv93/todolist/internal/todo"
)

type Authenticator interface {
	Login(username, password string) (auth.Result, error)
	Resume(token string) (auth.Result, error)
}

type Server struct {
	service *todo.Service
	authn   Authenticator
	logger  *log.Logger
	sort    model.SortKey
}

func NewServer(service *todo.Service, authn Authenticator, logger *log.Logger, defaultSort model.SortKey) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if !defaultSort.IsKnown() {
		defaultSort = model.SortByDue
	}
	return &Server{service: service, authn: authn, logger: logger, sort: defaultSort}
}

// Router registers every route on a fresh mux.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(s.requestLogger)
	router.HandleFunc("/health", s.Health).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/login", s.Login).Methods(http.MethodPost)

	tasks := api.PathPrefix("/tasks").Subrouter()
	tasks.Use(s.requireAuth)
	tasks.HandleFunc("", s.ListTasks).Methods(http.MethodGet)
	tasks.HandleFunc("", s.CreateTask).Methods(http.MethodPost)
	tasks.HandleFunc("/{taskID:[0-9]+}", s.GetTask).Methods(http.MethodGet)
	tasks.HandleFunc("/{taskID:[0-9]+}", s.UpdateTask).Methods(http.MethodPut)
	tasks.HandleFunc("/{taskID:[0-9]+}", s.DeleteTask).Methods(http.MethodDelete)
	tasks.HandleFunc("/{taskID:[0-9]+}/toggle", s.ToggleTask).Methods(http.MethodPost)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusNotFound, "not_found", "route not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})
	return router
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{Error: code, Message: message, RequestID: RequestIDFromContext(r.Context())})
}

// writeServiceError maps boundary errors onto HTTP statuses. Messages of unexpected errors are logged,
// not returned.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	fb := todo.FeedbackFor(err)
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrInvalidStatus):
		s.writeError(w, r, http.StatusBadRequest, "bad_request", fb.Text)
	case errors.Is(err, model.ErrNotFound):
		s.writeError(w, r, http.StatusNotFound, "not_found", "Task not found")
	case errors.Is(err, model.ErrStoreUnavailable):
		s.writeError(w, r, http.StatusServiceUnavailable, "unavailable", fb.Text)
	default:
		s.logger.Error("internal error", "err", err, "request_id", RequestIDFromContext(r.Context()))
		s.writeError(w, r, http.StatusInternalServerError, "internal_error", "An internal error occurred")
	}
}
