package admin

import (
	"errors"
	"net/http"
	"time"

	"doform/internal/auth"
	"doform/internal/response"
	"doform/internal/server"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := response.DecodeBody(r, &req); err != nil {
		response.Err(w, "Invalid request body", 400)
		return
	}

	user, token, err := auth.Login(h.DB, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			response.Err(w, "Invalid username or password", 401)
			return
		}
		response.Err(w, "Failed to create session", 500)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     server.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(auth.SessionTTL),
	})
	response.JSON(w, map[string]interface{}{"user": user})
}

// Logout deletes the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(server.SessionCookie); err == nil {
		auth.DeleteSession(h.DB, cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     server.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	response.JSON(w, map[string]string{"status": "ok"})
}

// Me returns the current session's user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(server.SessionCookie)
	if err != nil {
		response.Err(w, "Unauthorized", 401)
		return
	}
	user, err := auth.ValidateSession(h.DB, cookie.Value)
	if err != nil {
		response.Err(w, "Unauthorized", 401)
		return
	}
	response.JSON(w, map[string]interface{}{"user": user})
}
