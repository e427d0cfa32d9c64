// Package api exposes HTTP handlers for the exercise store.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/a010145456/FitTrackApp/internal/auth"
	"github.com/a010145456/FitTrackApp/internal/docstore"
	"github.com/a010145456/FitTrackApp/internal/domain"
)

const maxBodyBytes = 1 << 20

// Handler handles HTTP interactions.
type Handler struct {
	service *domain.Service
	logger  *zap.Logger
}

// NewHandler constructs Handler. A nil logger discards output.
func NewHandler(service *domain.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/exercises", h.exercises)
	mux.HandleFunc("/v1/exercises/", h.exerciseByID)
	mux.HandleFunc("/healthz", healthz)
}

// healthz returns an OK response for readiness probes.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) exercises(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if !authorize(w, r, auth.ScopeExercisesRead, auth.ScopeExercisesWrite) {
			return
		}
		h.listExercises(w, r)
	case http.MethodPost:
		if !authorize(w, r, auth.ScopeExercisesWrite) {
			return
		}
		h.addExercise(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) exerciseByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/exercises/")
	switch r.Method {
	case http.MethodPut:
		if !authorize(w, r, auth.ScopeExercisesWrite) {
			return
		}
		h.updateExercise(w, r, id)
	case http.MethodDelete:
		if !authorize(w, r, auth.ScopeExercisesWrite) {
			return
		}
		h.deleteExercise(w, r, id)
	default:
		w.Header().Set("Allow", "PUT, DELETE")
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.service.ListExercises(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": exercises})
}

func (h *Handler) addExercise(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	exercise, err := h.service.AddExercise(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"exercise": exercise})
}

func (h *Handler) updateExercise(w http.ResponseWriter, r *http.Request, id string) {
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	exercise, err := h.service.UpdateExercise(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exercise": exercise})
}

func (h *Handler) deleteExercise(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.service.DeleteExercise(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExerciseRequest is the body accepted by POST and PUT.
type ExerciseRequest struct {
	Name     string        `json:"name"`
	Duration DurationInput `json:"duration"`
}

func (r ExerciseRequest) input() domain.ExerciseInput {
	return domain.ExerciseInput{Name: r.Name, Duration: string(r.Duration)}
}

// DurationInput accepts either a JSON string ("30") or a JSON number (30) and
// keeps the raw text so the domain parser decides what is acceptable.
type DurationInput string

// UnmarshalJSON implements json.Unmarshaler.
func (d *DurationInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*d = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = DurationInput(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("duration must be a string or number: %w", err)
		}
		*d = DurationInput(n.String())
	}
	return nil
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (ExerciseRequest, bool) {
	var req ExerciseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return ExerciseRequest{}, false
	}
	return req, true
}

func authorize(w http.ResponseWriter, r *http.Request, anyOf ...string) bool {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return false
	}
	if !claims.HasAnyScope(anyOf...) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+anyOf[0]+" required")
		return false
	}
	return true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		inputErr *domain.InvalidInputError
		writeErr *domain.StoreWriteError
		readErr  *domain.StoreReadError
	)
	switch {
	case errors.As(err, &inputErr):
		writeError(w, http.StatusBadRequest, "validation_failed", inputErr.Error())
	case errors.As(err, &writeErr) && errors.Is(err, docstore.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "exercise not found")
	case errors.As(err, &writeErr):
		h.logger.Error("store write failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, "store_write_failed", writeErr.Error())
	case errors.As(err, &readErr):
		h.logger.Error("store read failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusBadGateway, "store_read_failed", readErr.Error())
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string]string{"type": code, "detail": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
