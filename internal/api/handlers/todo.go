package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/alexgrant/todo-api/internal/api/middleware"
	"github.com/alexgrant/todo-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	todo, err := h.todoService.Create(r.Context(), userID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "Todo created successfully", map[string]interface{}{
		"todo": todo,
	})
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	result, err := h.todoService.List(r.Context(), userID, service.ListTodosInput{
		Page:      queryInt(q.Get("page"), 1),
		Limit:     queryInt(q.Get("limit"), 10),
		Status:    q.Get("status"),
		Priority:  q.Get("priority"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, result)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.Get(r.Context(), userID, todoID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"todo": todo})
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var req struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Status      *string    `json:"status"`
		Priority    *string    `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// An explicit "dueDate": null clears the date; an absent key leaves it.
	var raw map[string]json.RawMessage
	_ = json.Unmarshal(body, &raw)
	clearDueDate := false
	if rawDue, present := raw["dueDate"]; present && string(rawDue) == "null" {
		clearDueDate = true
	}

	todo, err := h.todoService.Update(r.Context(), userID, todoID, service.UpdateTodoInput{
		Title:        req.Title,
		Description:  req.Description,
		Status:       req.Status,
		Priority:     req.Priority,
		DueDate:      req.DueDate,
		ClearDueDate: clearDueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Todo updated successfully", map[string]interface{}{
		"todo": todo,
	})
}

func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.todoService.Delete(r.Context(), userID, todoID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Todo deleted successfully", nil)
}

func (h *TodoHandler) ToggleArchive(w http.ResponseWriter, r *http.Request) {
	userID, todoID, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	todo, err := h.todoService.ToggleArchive(r.Context(), userID, todoID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	message := "Todo unarchived successfully"
	if todo.IsArchived {
		message = "Todo archived successfully"
	}
	writeMessage(w, http.StatusOK, message, map[string]interface{}{"todo": todo})
}

func (h *TodoHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	stats, err := h.todoService.Stats(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{"stats": stats})
}

// requestIDs pulls the caller and the todo id from the request. A malformed
// id reads as not-found, the same as an unowned one.
func (h *TodoHandler) requestIDs(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, uuid.Nil, false
	}

	todoID, err := uuid.Parse(chi.URLParam(r, "todoID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Todo not found")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, todoID, true
}

func queryInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
