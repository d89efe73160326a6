package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/yescourses/yescourses-go/internal/auth"
	"github.com/yescourses/yescourses-go/internal/middleware"
	"github.com/yescourses/yescourses-go/internal/render"
	"github.com/yescourses/yescourses-go/internal/store"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	adminEmail     string
}

// NewAuthHandler creates an AuthHandler. adminEmail is the allowlisted
// address that receives the admin session flag on login.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, adminEmail string) *AuthHandler {
	return &AuthHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
		adminEmail:     strings.ToLower(adminEmail),
	}
}

// normalizeEmail case-folds and trims an email for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register handles POST /register. On success the new user is logged in
// immediately. Duplicate emails are detected from the store's uniqueness
// violation rather than a pre-check, so two concurrent registrations cannot
// both pass a lookup and insert.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	back := referrerOrHome(r)

	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email := normalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		flashError(w, r, h.renderer, back, "Please fill in all fields.")
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		flashInternalError(w, r, h.renderer, back,
			"Something went wrong. Please try again.",
			"password hash error", "error", err)
		return
	}

	user, err := h.queries.CreateUser(r.Context(), store.CreateUserParams{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if store.IsUniqueViolation(err) {
			flashError(w, r, h.renderer, back, "An account with this email already exists.")
			return
		}
		flashInternalError(w, r, h.renderer, back,
			"Something went wrong. Please try again.",
			"failed to create user", "error", err)
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		flashInternalError(w, r, h.renderer, back,
			"Something went wrong. Please try again.",
			"session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	flashSuccess(w, r, h.renderer, back, "Registration successful!")
}

// Login handles POST /login. Any failure — unknown email or wrong password —
// yields the same generic message so the form does not reveal which field
// was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	back := referrerOrHome(r)

	if !parseFormOrRedirect(w, r, h.renderer, back) {
		return
	}

	email := normalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Error("database error during login", "error", err)
		}
		flashError(w, r, h.renderer, back, "Invalid email or password.")
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("password check error", "error", err)
		flashError(w, r, h.renderer, back, "Invalid email or password.")
		return
	}
	if !valid {
		slog.Debug("invalid password attempt", "email", email)
		flashError(w, r, h.renderer, back, "Invalid email or password.")
		return
	}

	// Regenerate the session ID to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		flashInternalError(w, r, h.renderer, back,
			"Something went wrong. Please try again.",
			"session renewal error", "error", err)
		return
	}

	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)
	if user.Email == h.adminEmail {
		h.sessionManager.Put(r.Context(), middleware.SessionKeyIsAdmin, true)
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	flashSuccess(w, r, h.renderer, back, "Welcome back!")
}

// Logout handles GET /logout, destroying the whole session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	slog.Info("user logged out", "user_id", userID)
	flashInfo(w, r, h.renderer, RouteRoot, "You have been logged out.")
}
