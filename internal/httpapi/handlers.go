package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sandeepkv93/todolist/internal/auth"
	"github.com/sandeepkv93/todolist/internal/model"
)

const maxBodyBytes = 64 << 10

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Login handles POST /api/v1/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "Please enter your username and password")
		return
	}
	res, err := s.authn.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Warn("login rejected", "username", strings.TrimSpace(req.Username))
			s.writeError(w, r, http.StatusUnauthorized, "unauthorized", "Invalid credentials")
			return
		}
		s.writeServiceError(w, r, err)
		return
	}
	s.logger.Info("logged in", "owner", res.Username)
	s.writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken: res.Token,
		TokenType:   "Bearer",
		Username:    res.Username,
		DisplayName: res.DisplayName,
		Message:     "Welcome " + res.DisplayName + "!",
	})
}

// ListTasks handles GET /api/v1/tasks?sort=&status=.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	q := r.URL.Query()
	key := s.sort
	if raw := q.Get("sort"); raw != "" {
		key = model.ParseSortKey(raw)
	}
	status, err := model.ParseStatusFilter(q.Get("status"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	tasks, err := s.service.List(r.Context(), owner, key, status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, len(tasks)), Sort: string(key), Filter: "all"}
	if status != nil {
		resp.Filter = string(*status)
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, newTaskResponse(t, s.service.Codec()))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// CreateTask handles POST /api/v1/tasks.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	var req TaskRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Status != nil {
		if _, err := parseStatus(*req.Status); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}
	id, err := s.service.Add(r.Context(), owner, req.Text, req.Due)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if req.Status != nil {
		if err := s.applyStatus(r, owner, id, *req.Status); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}
	task, err := s.service.Get(r.Context(), owner, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/v1/tasks/%d", id))
	s.writeJSON(w, http.StatusCreated, newTaskResponse(task, s.service.Codec()))
}

// GetTask handles GET /api/v1/tasks/{taskID}.
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	task, err := s.service.Get(r.Context(), owner, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTaskResponse(task, s.service.Codec()))
}

// UpdateTask handles PUT /api/v1/tasks/{taskID}. Text and due are replaced together; status is optional.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	var req TaskRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Status != nil {
		if _, err := parseStatus(*req.Status); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}
	if err := s.service.Update(r.Context(), owner, id, req.Text, req.Due); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if req.Status != nil {
		if err := s.applyStatus(r, owner, id, *req.Status); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
	}
	task, err := s.service.Get(r.Context(), owner, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTaskResponse(task, s.service.Codec()))
}

// ToggleTask handles POST /api/v1/tasks/{taskID}/toggle.
func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	if _, err := s.service.Toggle(r.Context(), owner, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	task, err := s.service.Get(r.Context(), owner, id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, newTaskResponse(task, s.service.Codec()))
}

// DeleteTask handles DELETE /api/v1/tasks/{taskID}. Deleting a missing task still answers 204.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	owner, _ := OwnerFromContext(r.Context())
	id, ok := s.taskID(w, r)
	if !ok {
		return
	}
	if err := s.service.Delete(r.Context(), owner, id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "Invalid request body")
		return false
	}
	return true
}

func (s *Server) taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["taskID"], 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, r, http.StatusBadRequest, "bad_request", "Invalid task id")
		return 0, false
	}
	return id, true
}

func (s *Server) applyStatus(r *http.Request, owner string, id int64, raw string) error {
	status, err := parseStatus(raw)
	if err != nil {
		return err
	}
	return s.service.SetDone(r.Context(), owner, id, status == model.StatusDone)
}

func parseStatus(raw string) (model.Status, error) {
	status := model.Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidStatus, raw)
	}
	return status, nil
}
