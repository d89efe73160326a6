package handler

import (
	"crypto/subtle"
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yescourses/yescourses-go/internal/catalog"
	"github.com/yescourses/yescourses-go/internal/middleware"
	"github.com/yescourses/yescourses-go/internal/render"
	"github.com/yescourses/yescourses-go/internal/service"
	"github.com/yescourses/yescourses-go/internal/store"
)

// AdminHandler serves the admin login form, dashboard, and the video
// upload/delete actions.
type AdminHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	access         *service.AccessService
	purchases      *service.PurchaseService
	videos         *service.VideoService
	queries        *store.Queries
	adminUsername  string
	adminPassword  string
}

// NewAdminHandler creates an AdminHandler. Credentials are the shared admin
// username/password checked by the /admin form.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, access *service.AccessService, purchases *service.PurchaseService, videos *service.VideoService, adminUsername, adminPassword string) *AdminHandler {
	return &AdminHandler{
		renderer:       renderer,
		sessionManager: sm,
		access:         access,
		purchases:      purchases,
		videos:         videos,
		queries:        store.New(db),
		adminUsername:  adminUsername,
		adminPassword:  adminPassword,
	}
}

// DashboardData holds data for the admin dashboard template.
type DashboardData struct {
	Packages []catalog.Package
	Stats    map[string]int64
	Videos   []store.Video
}

// isAdmin reports whether the current request counts as an admin session.
func (h *AdminHandler) isAdmin(r *http.Request) bool {
	sessionAdmin := h.sessionManager.GetBool(r.Context(), middleware.SessionKeyIsAdmin)
	return h.access.IsAdmin(sessionAdmin, middleware.GetUser(r))
}

// Page handles GET and POST /admin. A POST carrying the shared credentials
// flags the session as admin; GET shows either the login form or, for admin
// sessions, the dashboard with purchase counts and the video list.
func (h *AdminHandler) Page(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.login(w, r)
		return
	}

	if !h.isAdmin(r) {
		data := render.TemplateData{
			Title: "Admin Login",
			User:  middleware.GetUser(r),
		}
		if err := h.renderer.Render(w, r, "admin_login", data); err != nil {
			logAndInternalError(w, "render error", "error", err)
		}
		return
	}

	stats, err := h.purchases.Stats(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to load purchase stats", "error", err)
		return
	}

	videos, err := h.queries.ListVideos(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list videos", "error", err)
		return
	}

	data := render.TemplateData{
		Title:   "Admin Dashboard",
		User:    middleware.GetUser(r),
		IsAdmin: true,
		Data: DashboardData{
			Packages: catalog.All(),
			Stats:    stats,
			Videos:   videos,
		},
	}

	if err := h.renderer.Render(w, r, "admin_dashboard", data); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// login checks the posted credentials against the configured admin
// username/password in constant time.
func (h *AdminHandler) login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdmin) {
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.adminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.adminPassword)) == 1
	if !userOK || !passOK {
		slog.Warn("failed admin login attempt", "username", username)
		flashError(w, r, h.renderer, RouteAdmin, "Invalid admin credentials.")
		return
	}

	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		flashInternalError(w, r, h.renderer, RouteAdmin,
			"Something went wrong. Please try again.",
			"session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyIsAdmin, true)

	slog.Info("admin logged in")
	flashSuccess(w, r, h.renderer, RouteAdmin, "Logged in as administrator.")
}

// UploadForm handles GET /admin/upload_video.html — the standalone upload
// form page.
func (h *AdminHandler) UploadForm(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		flashError(w, r, h.renderer, RouteAdmin, "Admin access required.")
		return
	}

	data := render.TemplateData{
		Title:   "Upload Video",
		User:    middleware.GetUser(r),
		IsAdmin: true,
		Data:    catalog.All(),
	}

	if err := h.renderer.Render(w, r, "admin_upload", data); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Upload handles /admin/upload_video. GETs redirect to the form page; POSTs
// accept the multipart upload with the target package chosen in the form.
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		http.Redirect(w, r, RouteAdminUploadPage, http.StatusSeeOther)
		return
	}

	if !h.isAdmin(r) {
		flashError(w, r, h.renderer, RouteAdmin, "Admin access required.")
		return
	}

	handleVideoUpload(w, r, h.renderer, h.videos, "", RouteAdminUploadPage)
}

// Delete handles POST /admin/delete_video/{id}. Deleting an id that no
// longer exists is treated as success so a double-submitted form does not
// surface an error.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.isAdmin(r) {
		flashError(w, r, h.renderer, RouteAdmin, "Admin access required.")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		flashError(w, r, h.renderer, RouteAdmin, "Invalid video id.")
		return
	}

	if err := h.videos.Delete(r.Context(), id); err != nil {
		flashInternalError(w, r, h.renderer, RouteAdmin,
			"Could not delete the video. Please try again.",
			"video deletion failed", "video_id", id, "error", err)
		return
	}

	slog.Info("video deleted", "video_id", id)
	flashInfo(w, r, h.renderer, RouteAdmin, "Video deleted.")
}

// AdminLogout handles GET /admin/logout. Only the admin flag is dropped;
// a regular user login on the same session survives.
func (h *AdminHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	h.sessionManager.Remove(r.Context(), middleware.SessionKeyIsAdmin)
	slog.Info("admin logged out")
	flashInfo(w, r, h.renderer, RouteRoot, "Admin session ended.")
}
