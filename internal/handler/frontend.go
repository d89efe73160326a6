package handler

import (
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/yescourses/yescourses-go/internal/catalog"
	"github.com/yescourses/yescourses-go/internal/middleware"
	"github.com/yescourses/yescourses-go/internal/render"
	"github.com/yescourses/yescourses-go/internal/service"
)

// FrontendHandler serves the public pages.
type FrontendHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	access         *service.AccessService
	purchases      *service.PurchaseService
}

// NewFrontendHandler creates a FrontendHandler.
func NewFrontendHandler(renderer *render.Renderer, sm *scs.SessionManager, access *service.AccessService, purchases *service.PurchaseService) *FrontendHandler {
	return &FrontendHandler{
		renderer:       renderer,
		sessionManager: sm,
		access:         access,
		purchases:      purchases,
	}
}

// HomeData holds data for the home/catalog template.
type HomeData struct {
	Packages []catalog.Package
	Owned    map[string]bool
}

// Home handles GET / - the catalog page.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	// The public catalog still renders if the ownership lookup fails; the
	// visitor just sees buy buttons instead of course links.
	owned, err := h.purchases.OwnedPackageIDs(r.Context(), middleware.GetUserID(r))
	if err != nil {
		slog.Error("failed to load purchases", "error", err)
		owned = map[string]bool{}
	}

	data := render.TemplateData{
		Title:   "Course Packages",
		User:    user,
		IsAdmin: h.access.IsAdmin(h.sessionManager.GetBool(r.Context(), middleware.SessionKeyIsAdmin), user),
		Data: HomeData{
			Packages: catalog.All(),
			Owned:    owned,
		},
	}

	if err := h.renderer.Render(w, r, "home", data); err != nil {
		logAndInternalError(w, "render error", "error", err)
	}
}
