package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Saheb006/focusflow-organize-main/internal/auth"
	"github.com/Saheb006/focusflow-organize-main/todo"
)

type mutationResponse struct {
	Notice    string        `json:"notice,omitempty"`
	Todo      *todo.Todo    `json:"todo,omitempty"`
	SubTodo   *todo.SubTodo `json:"sub_todo,omitempty"`
	Completed *bool         `json:"completed,omitempty"`
}

type dayResponse struct {
	Date      todo.Date      `json:"date"`
	Items     []todo.DayItem `json:"items"`
	Markers   todo.Markers   `json:"markers"`
	Reminders todo.Reminders `json:"reminders"`
}

type monthResponse struct {
	Month   string                     `json:"month"`
	Weeks   [][]todo.Date              `json:"weeks"`
	Markers map[todo.Date]todo.Markers `json:"markers"`
}

// noticeRecorder keeps the last notice a controller produced during a request.
type noticeRecorder struct {
	last todo.Notice
}

func (n *noticeRecorder) Notify(notice todo.Notice) {
	n.last = notice
}

func (n *noticeRecorder) message() string {
	if n.last.Level != todo.NoticeSuccess {
		return ""
	}
	return n.last.Message
}

// controller returns a controller for the authenticated user of r.
func (s *Server) controller(r *http.Request) (*todo.Controller, *noticeRecorder, error) {
	userID, _ := auth.UserIDFromContext(r.Context())
	cache, err := s.sessions.For(userID)
	if err != nil {
		return nil, nil, err
	}
	notices := &noticeRecorder{}
	ctrl := todo.NewController(s.port, todo.ControllerOptions{
		UserID:     userID,
		Cache:      cache,
		Notifier:   notices,
		Logger:     s.logger,
		Now:        s.now,
		WriteRetry: s.write,
	})
	return ctrl, notices, nil
}

func (s *Server) todos(r *http.Request) ([]todo.Todo, error) {
	ctrl, _, err := s.controller(r)
	if err != nil {
		return nil, err
	}
	return ctrl.Todos(r.Context())
}

func (s *Server) today() todo.Date {
	return todo.DateOf(s.now())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := todo.Probe(r.Context(), s.port)
	code := http.StatusOK
	if !status.Ready() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	cache, err := s.sessions.For(userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	status := todo.Startup(r.Context(), s.port, cache)
	code := http.StatusOK
	if !status.Ready() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, r, todo.Errorf(todo.KindNotAuthenticated, "sign out", "not authenticated"))
		return
	}
	s.sessions.SignOut(userID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	todos, err := s.todos(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo.ApplyFilter(todos, filter, r.URL.Query().Get("q")))
}

func parseFilter(r *http.Request) (todo.Filter, error) {
	const op = "parse filter"

	query := r.URL.Query()
	var filter todo.Filter
	if value := query.Get("priority"); value != "" {
		priority, err := todo.ParsePriority(value)
		if err != nil {
			return filter, todo.NewError(todo.KindValidation, op, err)
		}
		filter.Priority = &priority
	}
	filter.Tag = strings.TrimSpace(query.Get("tag"))
	if value := query.Get("completed"); value != "" {
		completed, err := strconv.ParseBool(value)
		if err != nil {
			return filter, todo.Errorf(todo.KindValidation, op, "invalid completed value %q", value)
		}
		filter.Completed = &completed
	}
	return filter, nil
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todos(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo.CountPriorities(todos))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todos(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo.Overview(todos))
}

func (s *Server) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todos(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "todoID")
	item, ok := todo.Find(todos, id)
	if !ok {
		writeError(w, r, todo.Errorf(todo.KindNotFound, "get todo", "%v: %s", todo.ErrTodoNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var draft todo.Draft
	if err := decodeBody(w, r, "create todo", &draft); err != nil {
		writeError(w, r, err)
		return
	}
	ctrl, notices, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := ctrl.CreateTodo(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Notice: notices.message(), Todo: &created})
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	var patch todo.TodoPatch
	if err := decodeBody(w, r, "update todo", &patch); err != nil {
		writeError(w, r, err)
		return
	}
	ctrl, notices, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id := chi.URLParam(r, "todoID")
	if err := ctrl.UpdateTodo(r.Context(), id, patch); err != nil {
		writeError(w, r, err)
		return
	}
	response := mutationResponse{Notice: notices.message()}
	if todos, err := ctrl.Todos(r.Context()); err == nil {
		if updated, ok := todo.Find(todos, id); ok {
			response.Todo = &updated
		}
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	ctrl, notices, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ctrl.DeleteTodo(r.Context(), chi.URLParam(r, "todoID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Notice: notices.message()})
}

func (s *Server) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	ctrl, notices, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	completed, err := ctrl.ToggleTodo(r.Context(), chi.URLParam(r, "todoID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Notice: notices.message(), Completed: &completed})
}

func (s *Server) handleCreateSubTodo(w http.ResponseWriter, r *http.Request) {
	var draft todo.SubDraft
	if err := decodeBody(w, r, "create sub-todo", &draft); err != nil {
		writeError(w, r, err)
		return
	}
	ctrl, notices, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := ctrl.CreateSubTodo(r.Context(), chi.URLParam(r, "todoID"), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{Notice: notices.message(), SubTodo: &created})
}

func (s *Server) handleUpdateSubTodo(w http.ResponseWriter, r *http.Request) {
	var patch todo.SubTodoPatch
	if err := decodeBody(w, r, "update sub-todo", &patch); err != nil {
		writeError(w, r, err)
		return
	}
	ctrl, _, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ctrl.UpdateSubTodo(r.Context(), chi.URLParam(r, "todoID"), chi.URLParam(r, "subID"), patch); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSubTodo(w http.ResponseWriter, r *http.Request) {
	ctrl, notices, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := ctrl.DeleteSubTodo(r.Context(), chi.URLParam(r, "todoID"), chi.URLParam(r, "subID")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Notice: notices.message()})
}

func (s *Server) handleToggleSubTodo(w http.ResponseWriter, r *http.Request) {
	ctrl, notices, err := s.controller(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	completed, err := ctrl.ToggleSubTodo(r.Context(), chi.URLParam(r, "todoID"), chi.URLParam(r, "subID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{Notice: notices.message(), Completed: &completed})
}

func (s *Server) handleAgenda(w http.ResponseWriter, r *http.Request) {
	from := s.today()
	if value := r.URL.Query().Get("from"); value != "" {
		parsed, err := todo.ParseDate(value)
		if err != nil {
			writeError(w, r, todo.NewError(todo.KindValidation, "agenda", err))
			return
		}
		from = parsed
	}
	todos, err := s.todos(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo.HierarchicalAgenda(todos, from))
}

func (s *Server) handleDay(w http.ResponseWriter, r *http.Request) {
	day, err := todo.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, todo.NewError(todo.KindValidation, "calendar day", err))
		return
	}
	todos, err := s.todos(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items := todo.ItemsForDate(todos, day)
	if items == nil {
		items = []todo.DayItem{}
	}
	writeJSON(w, http.StatusOK, dayResponse{
		Date:      day,
		Items:     items,
		Markers:   todo.DayMarkers(todos, day),
		Reminders: todo.DayReminders(todos, day),
	})
}

func (s *Server) handleMonth(w http.ResponseWriter, r *http.Request) {
	const op = "calendar month"

	month, err := time.Parse("2006-01", chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, r, todo.Errorf(todo.KindValidation, op, "invalid month %q (want YYYY-MM)", chi.URLParam(r, "month")))
		return
	}
	weekStart, err := parseWeekStart(r.URL.Query().Get("week_start"))
	if err != nil {
		writeError(w, r, todo.NewError(todo.KindValidation, op, err))
		return
	}
	todos, err := s.todos(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, monthResponse{
		Month:   month.Format("2006-01"),
		Weeks:   todo.MonthGrid(month.Year(), month.Month(), weekStart),
		Markers: todo.MonthMarkers(todos, month.Year(), month.Month()),
	})
}

func parseWeekStart(value string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "sunday", "sun":
		return time.Sunday, nil
	case "monday", "mon":
		return time.Monday, nil
	}
	return time.Sunday, todo.Errorf(todo.KindValidation, "parse week start", "invalid week start %q (want sunday or monday)", value)
}
