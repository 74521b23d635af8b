package server

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
)

// OAuthHandler serves the login half of the authorization code flow.
//
// It holds no per-user state: the code from the callback is exchanged immediately and the resulting
// access token is handed to the frontend in the redirect.
type OAuthHandler struct {
	auth     services.Authorizer
	frontend string
	logger   *log.Logger
}

// NewOAuthHandler creates a new OAuth handler that redirects to frontendOrigin after a successful exchange.
func NewOAuthHandler(auth services.Authorizer, frontendOrigin string, logger *log.Logger) *OAuthHandler {
	return &OAuthHandler{auth: auth, frontend: frontendOrigin, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/login", Handler: h.Login},
		{Method: http.MethodGet, Path: "/callback", Handler: h.Callback},
	}
}

// Login returns the provider consent page URL.
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"auth_url": h.auth.AuthURL()})
}

// Callback exchanges the authorization code and redirects (302) to the frontend with access_token set.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	code := query.Get("code")
	if code == "" {
		msg := "missing authorization code"
		if errParam := query.Get("error"); errParam != "" {
			msg = fmt.Sprintf("authorization failed: %s", errParam)
		}
		writeError(w, h.logger, fmt.Errorf("%w: %s", shared.ErrInvalidInput, msg))
		return
	}

	token, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	target, err := redirectURL(h.frontend, token.AccessToken)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("authorization complete", "expires", token.Expiry)
	http.Redirect(w, r, target, http.StatusFound)
}

// redirectURL appends access_token to the frontend origin's query string.
func redirectURL(frontend, accessToken string) (string, error) {
	u, err := url.Parse(frontend)
	if err != nil {
		return "", fmt.Errorf("%w: frontend origin %q: %v", shared.ErrInvalidConfig, frontend, err)
	}

	q := u.Query()
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
