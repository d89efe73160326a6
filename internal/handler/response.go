package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/yescourses/yescourses-go/internal/render"
)

// flashAndRedirect sets a flash message and redirects to the given URL.
// Uses 303 See Other so form POSTs land back on a GET.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message, messageType string) {
	renderer.SetFlash(r, message, messageType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects to the given URL.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "error")
}

// flashSuccess sets a success flash message and redirects to the given URL.
func flashSuccess(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "success")
}

// flashInfo sets an info flash message and redirects to the given URL.
func flashInfo(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, url, message string) {
	flashAndRedirect(w, r, renderer, url, message, "info")
}

// parseFormOrRedirect parses the request form, redirecting with an error
// message on failure. Returns true when parsing succeeded.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, renderer, redirectURL, "Invalid form data.")
		return false
	}
	return true
}

// logAndInternalError logs an error and writes a 500 response. Reserved for
// page-render failures; mutating handlers degrade with flashInternalError
// instead.
func logAndInternalError(w http.ResponseWriter, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// flashInternalError logs an unexpected failure and degrades to a redirect
// with a generic flash message, keeping the redirect-plus-flash contract even
// when storage or the filesystem misbehaves.
func flashInternalError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, redirectURL, message, logMsg string, args ...any) {
	slog.Error(logMsg, args...)
	flashError(w, r, renderer, redirectURL, message)
}

// referrerOrHome returns the local path of the Referer header, or the home
// page. Only same-host relative paths are accepted, to prevent open
// redirects via a forged header.
func referrerOrHome(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return RouteRoot
	}

	u, err := url.Parse(ref)
	if err != nil {
		return RouteRoot
	}
	if u.Host != "" && u.Host != r.Host {
		return RouteRoot
	}
	if !strings.HasPrefix(u.Path, "/") {
		return RouteRoot
	}

	return u.Path
}
