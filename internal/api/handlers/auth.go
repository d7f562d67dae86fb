package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/alexgrant/todo-api/internal/api/middleware"
	"github.com/alexgrant/todo-api/internal/config"
	"github.com/alexgrant/todo-api/internal/domain"
	"github.com/alexgrant/todo-api/internal/service"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func userToPayload(user *domain.User) userPayload {
	return userPayload{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}

	result, err := h.authService.Signup(r.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	writeMessage(w, http.StatusCreated, "User created successfully", map[string]interface{}{
		"user":        userToPayload(result.User),
		"accessToken": result.AccessToken,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	writeMessage(w, http.StatusOK, "Login successful", map[string]interface{}{
		"user":        userToPayload(result.User),
		"accessToken": result.AccessToken,
	})
}

// Refresh rotates the token pair. The refresh token only ever travels in the
// http-only cookie, never in the JSON body.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		writeError(w, http.StatusUnauthorized, "Refresh token not found")
		return
	}

	result, err := h.authService.Refresh(r.Context(), cookie.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	h.setRefreshCookie(w, result.RefreshToken)
	writeMessage(w, http.StatusOK, "Token refreshed successfully", map[string]interface{}{
		"accessToken": result.AccessToken,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearRefreshCookie(w)
	writeMessage(w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]interface{}{
		"user": map[string]interface{}{
			"id":        user.ID.String(),
			"name":      user.Name,
			"email":     user.Email,
			"createdAt": user.CreatedAt,
			"lastLogin": user.LastLogin,
		},
	})
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cfg.RefreshExpirationHours * int(time.Hour/time.Second),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteStrictMode,
	})
}
