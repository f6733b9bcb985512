// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/phantomlabs/phantom/internal/admin"
)

type taskCreateRequest struct {
	Name        string `json:"taskName"`
	Description string `json:"taskDescription"`
	DefOfDone   string `json:"taskDefOfDone"`
}

type experimentDefCreateRequest struct {
	SubjectName string `json:"subjectName"`
	HumanOnly   bool   `json:"humanOnly"`
	MarketMode  string `json:"marketMode"`
	TaskID      string `json:"taskId"`
}

// experimentDefView is an experiment definition with its task joined in.
type experimentDefView struct {
	admin.ExperimentDef
	Task *admin.Task `json:"task,omitempty"`
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	if s.deps.Admin == nil {
		writeNotFound(w)
		return
	}

	tasks, err := s.deps.Admin.ListTasks(r.Context())
	if err != nil {
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTaskCreate(w http.ResponseWriter, r *http.Request) {
	if s.deps.Admin == nil {
		writeNotFound(w)
		return
	}

	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "malformed JSON body")
		return
	}

	task, err := s.deps.Admin.CreateTask(r.Context(), req.Name, req.Description, req.DefOfDone)
	if err != nil {
		var missing *admin.ErrMissingField
		if errors.As(err, &missing) {
			writeValidationError(w, missing.Field, "required")
			return
		}
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleExperimentDefsList(w http.ResponseWriter, r *http.Request) {
	if s.deps.Admin == nil {
		writeNotFound(w)
		return
	}

	defs, err := s.deps.Admin.ListExperimentDefs(r.Context())
	if err != nil {
		writeInternal(w)
		return
	}

	views := make([]experimentDefView, 0, len(defs))
	for _, d := range defs {
		view := experimentDefView{ExperimentDef: d}
		if d.TaskID != "" {
			if task, ok, err := s.deps.Admin.GetTask(r.Context(), d.TaskID); err == nil && ok {
				view.Task = &task
			}
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleExperimentDefCreate(w http.ResponseWriter, r *http.Request) {
	if s.deps.Admin == nil {
		writeNotFound(w)
		return
	}

	var req experimentDefCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidRequest(w, "malformed JSON body")
		return
	}
	if req.MarketMode == "" {
		req.MarketMode = s.cfg.StoreMode
	}

	def, err := s.deps.Admin.CreateExperimentDef(r.Context(), req.SubjectName, req.MarketMode, req.TaskID, req.HumanOnly)
	if err != nil {
		var missing *admin.ErrMissingField
		if errors.As(err, &missing) {
			writeValidationError(w, missing.Field, "required")
			return
		}
		writeInternal(w)
		return
	}
	writeJSON(w, http.StatusCreated, def)
}
