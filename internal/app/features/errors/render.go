// internal/app/features/errors/render.go
package errors

import "net/http"

// RenderUnauthorized shows a friendly "sign in required" page.
// If backURL is empty, it will default to /login.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request, backURL string) {
	if backURL == "" {
		backURL = "/login"
	}
	render(w, r, http.StatusUnauthorized, "error_forbidden",
		"Sign in required", "Please sign in to continue.", backURL)
}

// RenderForbidden shows a friendly access error page with a message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "You don't have permission to view this page."
	}
	render(w, r, http.StatusForbidden, "error_forbidden",
		"Access denied", msg, backURL)
}

// RenderNotFound shows the "not found" page.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "We couldn't find what you were looking for."
	}
	render(w, r, http.StatusNotFound, "error_notfound",
		"Not found", msg, backURL)
}

// RenderServerError shows the generic failure page.
func RenderServerError(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "Something went wrong on our end. Please try again."
	}
	render(w, r, http.StatusInternalServerError, "error_server",
		"Something went wrong", msg, backURL)
}

// RenderBadRequest shows the invalid-input page.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if msg == "" {
		msg = "That request didn't look right."
	}
	render(w, r, http.StatusBadRequest, "error_badrequest",
		"Invalid request", msg, backURL)
}
