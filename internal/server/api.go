package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moodmix/internal/models"
	"github.com/desertthunder/moodmix/internal/services"
	"github.com/desertthunder/moodmix/internal/shared"
	"github.com/desertthunder/moodmix/internal/tasks"
)

// MaxRequestBody caps the size of a /recommend request body.
const MaxRequestBody = 1 << 20

// RecommendRequest is the /recommend request body.
type RecommendRequest struct {
	PlaylistTracks []models.Track `json:"playlist_tracks"`
}

// APIHandler serves the playlist and recommendation endpoints.
//
// Every request builds its own catalog from the caller's bearer token.
type APIHandler struct {
	provider services.Provider
	logger   *log.Logger
}

// NewAPIHandler creates a new API handler backed by provider.
func NewAPIHandler(provider services.Provider, logger *log.Logger) *APIHandler {
	return &APIHandler{provider: provider, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *APIHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/playlist/{id}", Handler: h.Playlist},
		{Method: http.MethodPost, Path: "/recommend", Handler: h.Recommend},
		{Method: http.MethodGet, Path: "/health", Handler: h.Health},
	}
}

// Playlist returns the playlist's tracks merged with their audio features.
func (h *APIHandler) Playlist(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	engine, err := h.engine(r, logger)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	tracks, err := engine.Playlist(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

// Recommend scores upstream recommendations against the supplied playlist_tracks.
func (h *APIHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	logger := h.requestLogger(r)

	engine, err := h.engine(r, logger)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	var req RecommendRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, logger, err)
		return
	}

	recs, err := engine.Recommend(r.Context(), req.PlaylistTracks)
	if err != nil {
		writeError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, recs)
}

// Health reports that the process is serving.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// engine checks the bearer token and builds an engine bound to it.
func (h *APIHandler) engine(r *http.Request, logger *log.Logger) (tasks.Engine, error) {
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return tasks.NewPlaylistEngine(h.provider.Catalog(r.Context(), token), logger), nil
}

func (h *APIHandler) requestLogger(r *http.Request) *log.Logger {
	return shared.WithLogger(h.logger, "request_id", r.Header.Get(RequestIDHeader))
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: Authorization header is required", shared.ErrMissingToken)
	}

	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", fmt.Errorf("%w: expected \"Bearer <token>\"", shared.ErrMissingToken)
	}

	return token, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBody))
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: request body exceeds %d bytes", shared.ErrInvalidInput, tooLarge.Limit)
		}
		return fmt.Errorf("%w: malformed JSON body: %v", shared.ErrInvalidInput, err)
	}
	return nil
}
