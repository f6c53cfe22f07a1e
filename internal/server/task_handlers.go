package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"chorepoints/internal/model"
	"chorepoints/internal/recur"
	"chorepoints/internal/service"
)

type recurrenceBody struct {
	Unit       string `json:"unit" validate:"required,oneof=days weeks months"`
	Every      int    `json:"every" validate:"required,min=1"`
	Weekday    int    `json:"weekday" validate:"min=0,max=6"`
	DayOfMonth int    `json:"day_of_month" validate:"min=0,max=31"`
}

func (b recurrenceBody) rule() (recur.Rule, error) {
	byWhen := 0
	switch b.Unit {
	case recur.UnitWeeks:
		byWhen = b.Weekday
	case recur.UnitMonths:
		byWhen = b.DayOfMonth
	}
	rule, err := model.RuleFrom(b.Unit, b.Every, byWhen)
	if err != nil {
		return nil, badRequestf("%v", err)
	}
	return rule, nil
}

type taskBody struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Points      int            `json:"points"`
	Recurrence  recurrenceBody `json:"recurrence" validate:"required"`
}

type taskResponse struct {
	ID            uint           `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Points        int            `json:"points"`
	IsDone        bool           `json:"is_done"`
	NextDue       string         `json:"next_due"`
	DaysToNextDue int            `json:"days_to_next_due"`
	Recurrence    recurrenceBody `json:"recurrence"`
}

func toTaskResponse(t *model.Task, today time.Time) taskResponse {
	body := recurrenceBody{Unit: t.RecurUnit, Every: t.RecurEvery}
	switch t.RecurUnit {
	case recur.UnitWeeks:
		body.Weekday = t.RecurByWhen
	case recur.UnitMonths:
		body.DayOfMonth = t.RecurByWhen
	}
	return taskResponse{
		ID:            t.ID,
		Name:          t.Name,
		Description:   t.Description,
		Points:        t.Points,
		IsDone:        t.IsDone,
		NextDue:       recur.DateOf(t.NextDue).Format("2006-01-02"),
		DaysToNextDue: recur.DaysBetween(today, t.NextDue),
		Recurrence:    body,
	}
}

func toTaskResponses(tasks []model.Task, today time.Time) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, toTaskResponse(&tasks[i], today))
	}
	return out
}

func pathID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, badRequestf("invalid id %q", raw)
	}
	return uint(id), nil
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	today, err := s.today(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body taskBody
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	rule, err := body.Recurrence.rule()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), user.ID, service.TaskInput{
		Name:        body.Name,
		Description: body.Description,
		Points:      body.Points,
		Rule:        rule,
	}, today)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task, today))
}

func (s *Server) handleListTodo(w http.ResponseWriter, r *http.Request) {
	s.handleListTasks(w, r, false)
}

func (s *Server) handleListDone(w http.ResponseWriter, r *http.Request) {
	s.handleListTasks(w, r, true)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request, done bool) {
	user := userFrom(r)
	today, err := s.today(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tasks, err := s.tasks.List(r.Context(), user.ID, done)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponses(tasks, today))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	today, err := s.today(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.tasks.Get(r.Context(), user.ID, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task, today))
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	today, err := s.today(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.tasks.Complete(r.Context(), user.ID, id, today)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	taskCompletions.Inc()
	writeJSON(w, http.StatusOK, toTaskResponse(task, today))
}

func (s *Server) handleUndoSweep(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	today, err := s.today(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	flipped, err := s.tasks.UndoSweep(r.Context(), user.ID, today)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	tasksRecurred.Add(float64(len(flipped)))
	writeJSON(w, http.StatusOK, toTaskResponses(flipped, today))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	today, err := s.today(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var body taskBody
	if err := s.decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	rule, err := body.Recurrence.rule()
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.Update(r.Context(), user.ID, id, service.TaskInput{
		Name:        body.Name,
		Description: body.Description,
		Points:      body.Points,
		Rule:        rule,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task, today))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.tasks.Delete(r.Context(), user.ID, id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
