package handlers

import (
	"net/http"
	"strings"

	applog "marmitaria/internal/log"
)

type loginStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Message       string `json:"message,omitempty"`
}

// Login processes sign-in submissions. A GET reports the current auth
// state plus any pending failure message; a POST with username and
// password form fields establishes the session and redirects into the
// app. The bootstrap account is created on first access if absent.
func Login(w http.ResponseWriter, r *http.Request) {
	if err := ensureBootstrapUser(r); err != nil {
		applog.Error(r.Context(), "failed to ensure bootstrap user", "error", err)
	}

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		if ActiveSession(r) {
			redirectToApp(w, r)
			return
		}
		message := ""
		if sessionManager != nil {
			message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
		}
		writeJSON(w, http.StatusOK, loginStatusResponse{Authenticated: false, Message: message})
	case http.MethodPost:
		if sessionManager == nil || database == nil {
			http.Error(w, "authentication not available", http.StatusServiceUnavailable)
			return
		}
		if err := r.ParseForm(); err != nil {
			applog.Debug(r.Context(), "failed to parse login form", "error", err)
			http.Error(w, "invalid form submission", http.StatusBadRequest)
			return
		}
		username := strings.TrimSpace(r.PostFormValue("username"))
		password := r.PostFormValue("password")

		if username == "" || password == "" {
			writeJSONError(w, http.StatusBadRequest, "Username and password are required.")
			return
		}

		if !authenticate(w, r, username, password) {
			applog.Debug(r.Context(), "authentication failed", "username", strings.ToLower(username))
			message := ""
			if sessionManager != nil {
				message = sessionManager.PopString(r.Context(), sessionLoginMessageKey)
			}
			if message == "" {
				message = "We were unable to sign you in. Please try again."
			}
			writeJSONError(w, http.StatusUnauthorized, message)
			return
		}

		redirectToApp(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func redirectToApp(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/app/api/dashboard", http.StatusSeeOther)
}
