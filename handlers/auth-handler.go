package handlers

import (
	"net/http"
	"time"

	"github.com/sanketrathod07/taskview/logging"
	"github.com/sanketrathod07/taskview/middleware"
	"github.com/sanketrathod07/taskview/services"
	"github.com/sanketrathod07/taskview/utils"
)

type AuthHandler struct {
	Service *services.UserService
}

func NewAuthHandler(service *services.UserService) *AuthHandler {
	return &AuthHandler{Service: service}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Country  string `json:"country"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Country *string `json:"country"`
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(utils.TokenDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register creates the account and logs the user straight in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Service.Register(r.Context(), req.Name, req.Email, req.Password, req.Country)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		logging.Logger.Errorf("Event ID: TOKEN_GENERATION_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong on the server")
		return
	}
	setSessionCookie(w, token)

	writeJSON(w, http.StatusCreated, envelope{"success": true, "user": user, "token": token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}

	token, err := utils.GenerateToken(user.ID.Hex())
	if err != nil {
		logging.Logger.Errorf("Event ID: TOKEN_GENERATION_FAILED, Description: %v", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong on the server")
		return
	}
	setSessionCookie(w, token)

	writeJSON(w, http.StatusOK, envelope{"success": true, "user": user, "token": token})
}

// Logout clears the session cookie. There is no server-side session state, so
// logout always succeeds from the client's point of view.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	writeJSON(w, http.StatusOK, envelope{"success": true, "message": "Logged out successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "user": user})
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not authorized")
		return
	}

	var req UpdateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := h.Service.UpdateProfile(r.Context(), user.ID, req.Name, req.Country)
	if err != nil {
		writeServiceError(w, err, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "user": updated})
}
