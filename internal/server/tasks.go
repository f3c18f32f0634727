package server

import (
	"encoding/json"
	"net/http"

	"task-tracker/internal/errutil"
	"task-tracker/internal/store"
)

// maxJSONBytes bounds JSON request bodies.
const maxJSONBytes = 1 << 20

// getEmployee handles GET /api/employees/{empId}.
func (s *Server) getEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := s.employees.Get(r.Context(), r.PathValue("empId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// listTasks handles GET /api/tasks?employeeId=.
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context(), r.URL.Query().Get("employeeId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// createTask handles POST /api/tasks with a JSON body.
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBytes)

	var in store.TaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.writeError(w, r, errutil.Validation("Invalid JSON body"))
		return
	}

	task, err := s.tasks.Create(r.Context(), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// getTask handles GET /api/tasks/{id}.
func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}
