package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/yescourses/yescourses-go/internal/catalog"
	"github.com/yescourses/yescourses-go/internal/middleware"
	"github.com/yescourses/yescourses-go/internal/render"
	"github.com/yescourses/yescourses-go/internal/service"
	"github.com/yescourses/yescourses-go/internal/store"
)

// CourseHandler serves the gated course pages and the purchase action.
type CourseHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	access         *service.AccessService
	purchases      *service.PurchaseService
	videos         *service.VideoService
	queries        *store.Queries
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, access *service.AccessService, purchases *service.PurchaseService, videos *service.VideoService) *CourseHandler {
	return &CourseHandler{
		renderer:       renderer,
		sessionManager: sm,
		access:         access,
		purchases:      purchases,
		videos:         videos,
		queries:        store.New(db),
	}
}

// CourseData holds data for the course page template.
type CourseData struct {
	Package catalog.Package
	Videos  []store.Video
}

// coursePath builds the course page URL for a package.
func coursePath(packageID string) string {
	return "/course/" + packageID
}

// Course handles GET /course/{packageID}. The page is only shown to admins
// and to users who purchased the package; everyone else is redirected with a
// flash explaining what is missing.
func (h *CourseHandler) Course(w http.ResponseWriter, r *http.Request) {
	packageID := chi.URLParam(r, "packageID")
	user := middleware.GetUser(r)
	sessionAdmin := h.sessionManager.GetBool(r.Context(), middleware.SessionKeyIsAdmin)

	if err := h.access.CanView(r.Context(), sessionAdmin, user, packageID); err != nil {
		switch {
		case errors.Is(err, service.ErrPackageNotFound):
			flashError(w, r, h.renderer, RouteRoot, "Package not found.")
		case errors.Is(err, service.ErrNotAuthenticated):
			flashError(w, r, h.renderer, RouteRoot, "Please log in to view this course.")
		case errors.Is(err, service.ErrNotPurchased):
			flashError(w, r, h.renderer, RouteRoot, "You need to purchase this package to view the course.")
		default:
			logAndInternalError(w, "access check failed", "package_id", packageID, "error", err)
		}
		return
	}

	pack, _ := catalog.ByID(packageID)

	videos, err := h.queries.ListVideosByPackage(r.Context(), packageID)
	if err != nil {
		logAndInternalError(w, "failed to list videos", "package_id", packageID, "error", err)
		return
	}

	data := render.TemplateData{
		Title:   pack.Name,
		User:    user,
		IsAdmin: h.access.IsAdmin(sessionAdmin, user),
		Data: CourseData{
			Package: pack,
			Videos:  videos,
		},
	}

	if err := h.renderer.Render(w, r, "course", data); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}

// Buy handles POST /buy/{packageID}. Requires a logged-in user; no payment
// is collected.
func (h *CourseHandler) Buy(w http.ResponseWriter, r *http.Request) {
	packageID := chi.URLParam(r, "packageID")
	user := middleware.GetUser(r)

	if user == nil {
		flashError(w, r, h.renderer, RouteRoot, "Please log in to purchase a package.")
		return
	}

	pack, ok := catalog.ByID(packageID)
	if !ok {
		flashError(w, r, h.renderer, RouteRoot, "Package not found.")
		return
	}

	_, err := h.purchases.Buy(r.Context(), user.ID, packageID)
	if errors.Is(err, service.ErrAlreadyOwned) {
		flashInfo(w, r, h.renderer, coursePath(packageID), "You already own this package.")
		return
	}
	if err != nil {
		flashInternalError(w, r, h.renderer, RouteRoot,
			"Could not complete the purchase. Please try again.",
			"purchase failed", "user_id", user.ID, "package_id", packageID, "error", err)
		return
	}

	flashSuccess(w, r, h.renderer, coursePath(packageID),
		fmt.Sprintf("Purchase successful! You now have access to %s.", pack.Name))
}

// CourseUpload handles POST /course/{packageID}/upload — the upload form
// embedded on the course page, admin only.
func (h *CourseHandler) CourseUpload(w http.ResponseWriter, r *http.Request) {
	packageID := chi.URLParam(r, "packageID")
	user := middleware.GetUser(r)
	sessionAdmin := h.sessionManager.GetBool(r.Context(), middleware.SessionKeyIsAdmin)

	if !h.access.IsAdmin(sessionAdmin, user) {
		if user == nil {
			flashError(w, r, h.renderer, RouteRoot, "Please log in first.")
			return
		}
		flashError(w, r, h.renderer, coursePath(packageID), "Admin access required.")
		return
	}

	handleVideoUpload(w, r, h.renderer, h.videos, packageID, coursePath(packageID))
}
