package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexgrant/todo-api/internal/domain"
	"github.com/alexgrant/todo-api/internal/service"
)

// Response is the JSON envelope every endpoint uses.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, Response{Success: true, Data: data})
}

func writeMessage(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, Response{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

// NotFound renders the envelope for unmatched routes.
func NotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "API endpoint not found")
}

// writeServiceError maps domain and service errors onto the status model:
// 400 validation/duplicate, 401 auth, 404 missing or unowned, 500 otherwise.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, service.ErrEmailExists):
		writeError(w, http.StatusBadRequest, "User with this email already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrAccountInactive):
		writeError(w, http.StatusUnauthorized, "Account is deactivated")
	case errors.Is(err, service.ErrInvalidRefreshToken):
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrTodoNotFound):
		writeError(w, http.StatusNotFound, "Todo not found")
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
