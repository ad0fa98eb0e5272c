package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/auth"
	"github.com/Ngassaki-chadrack-sidney/prise-de-note/internal/services"
)

// AuthHandler handles HTTP requests for registration and session management.
type AuthHandler struct {
	service       services.UserServiceProvider
	tokens        *auth.TokenManager
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenManager, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, secureCookies: secureCookies}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Name     *string `json:"name"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles new user registration. On success the session cookies are
// set immediately; no separate login is needed.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	if details := auth.ValidatePassword(payload.Password); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Password too weak",
			"details": details,
		})
		return
	}

	user, err := h.service.CreateUser(r.Context(), payload.Email, payload.Password, payload.Name)
	if err != nil {
		if !errors.Is(err, services.ErrEmailTaken) {
			log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		}
		writeServiceError(w, err)
		return
	}

	if !h.setSessionCookies(w, user.ID, user.Email) {
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created",
		"user":    user,
	})
}

// Login handles credential verification and session issuance. Unknown email
// and wrong password produce the same 401 body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Email == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			log.Error().Err(err).Str("email", payload.Email).Msg("Login failed unexpectedly")
		}
		writeServiceError(w, err)
		return
	}

	if !h.setSessionCookies(w, user.ID, user.Email) {
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged in",
		"user":    user,
	})
}

// Logout clears both session cookies. Tokens themselves stay valid until
// they expire; there is no server-side revocation.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the authenticated user's current profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// DeleteAccount permanently removes the caller's account. Notes, events, and
// snapshot records cascade with it.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	if err := h.service.DeleteUser(r.Context(), claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}

	h.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Account deleted"})
}

// ForgotPasswordPayload defines the structure for password reset requests.
type ForgotPasswordPayload struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// ForgotPassword overwrites the password hash for an email address. The
// flow performs no proof of email ownership.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var payload ForgotPasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if payload.Email == "" || payload.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Email and new password are required")
		return
	}

	if details := auth.ValidatePassword(payload.NewPassword); len(details) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":   "Password too weak",
			"details": details,
		})
		return
	}

	if err := h.service.ResetPassword(r.Context(), payload.Email, payload.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset"})
}

// setSessionCookies issues a token pair and sets both cookies. Returns false
// after writing an error response if issuance fails.
func (h *AuthHandler) setSessionCookies(w http.ResponseWriter, userID, email string) bool {
	access, refresh, err := h.tokens.IssuePair(userID, email)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to issue session tokens")
		writeError(w, http.StatusInternalServerError, "Failed to create session")
		return false
	}

	http.SetCookie(w, h.sessionCookie("token", access, int(auth.AccessTokenTTL/time.Second)))
	http.SetCookie(w, h.sessionCookie("refreshToken", refresh, int(auth.RefreshTokenTTL/time.Second)))
	return true
}

func (h *AuthHandler) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.sessionCookie("token", "", -1))
	http.SetCookie(w, h.sessionCookie("refreshToken", "", -1))
}

func (h *AuthHandler) sessionCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	}
}
