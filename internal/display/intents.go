package display

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/julianstephens/streakly/internal/constants"
	"github.com/julianstephens/streakly/internal/logger"
	"github.com/julianstephens/streakly/internal/models"
)

const maxBodyBytes = 1 << 16

// TimerControl is the subset of the timer runner the display may drive.
type TimerControl interface {
	Start(habitID string) bool
	Stop(habitID string) bool
	IsRunning(habitID string) bool
}

// StatusSource resolves a habit id to its current live status.
type StatusSource interface {
	Status(habitID string) (models.LiveStatus, bool)
}

// IntentServer accepts start/stop intents from the display's widget buttons.
type IntentServer struct {
	Timers   TimerControl
	Statuses StatusSource
	Secret   string
}

type intentRequest struct {
	HabitID string `json:"habit_id"`
	Action  string `json:"action"`
}

type intentResponse struct {
	HabitID string `json:"habit_id"`
	Running bool   `json:"running"`
	Changed bool   `json:"changed"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func (s *IntentServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))
	r.Use(loggingMiddleware)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.secretMiddleware)
		r.Post("/intents", s.handleIntent)
		r.Get("/status/{habitID}", s.handleStatus)
	})

	return r
}

// ListenAndServe serves the intent API on addr until ctx is cancelled.
func (s *IntentServer) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Intent server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *IntentServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *IntentServer) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.HabitID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "habit_id required")
		return
	}
	if s.Statuses != nil {
		if _, ok := s.Statuses.Status(req.HabitID); !ok {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Unknown habit")
			return
		}
	}

	var changed bool
	switch req.Action {
	case constants.IntentActionStart:
		changed = s.Timers.Start(req.HabitID)
	case constants.IntentActionStop:
		changed = s.Timers.Stop(req.HabitID)
	default:
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "action must be start or stop")
		return
	}

	logger.Debug("Intent handled", "habit", req.HabitID, "action", req.Action, "changed", changed)
	writeJSON(w, http.StatusOK, intentResponse{
		HabitID: req.HabitID,
		Running: s.Timers.IsRunning(req.HabitID),
		Changed: changed,
	})
}

func (s *IntentServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	habitID := chi.URLParam(r, "habitID")
	if s.Statuses == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Unknown habit")
		return
	}
	st, ok := s.Statuses.Status(habitID)
	if !ok {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Unknown habit")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *IntentServer) secretMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(constants.DisplaySecretHeader)
		if s.Secret == "" || subtle.ConstantTimeCompare([]byte(got), []byte(s.Secret)) != 1 {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid secret")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Debug("Intent request", "method", r.Method, "path", r.URL.Path, "took", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: apiError{Code: code, Message: message}})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid payload")
		return false
	}
	return true
}
