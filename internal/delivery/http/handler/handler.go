package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/user/course-aggregator/internal/delivery/http/response"
	"github.com/user/course-aggregator/internal/entity"
	"github.com/user/course-aggregator/internal/usecase"
)

const healthTimeout = 2 * time.Second

// CourseService is the part of the course service the API exposes.
type CourseService interface {
	GetCourses(ctx context.Context) ([]entity.Course, error)
	RefreshInBackground(trigger string) bool
	ClearCache(ctx context.Context) error
	RecentRuns(ctx context.Context, limit int) ([]entity.SourceRun, error)
	Health(ctx context.Context) error
}

type Handler struct {
	courses CourseService
	logger  *zap.Logger
}

func NewHandler(courses CourseService, logger *zap.Logger) *Handler {
	return &Handler{
		courses: courses,
		logger:  logger,
	}
}

// HandleGetCourses returns the aggregated course list. An empty aggregation is still a 200.
func (h *Handler) HandleGetCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.GetCourses(r.Context())
	if err != nil {
		h.logger.Error("Failed to get courses", zap.Error(err))
		h.writeJSONError(w, http.StatusInternalServerError, "Failed to fetch courses", err)
		return
	}
	h.writeJSON(w, http.StatusOK, courses)
}

func (h *Handler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.ClearCache(r.Context()); err != nil {
		h.logger.Error("Failed to clear cache", zap.Error(err))
		h.writeJSONError(w, http.StatusInternalServerError, "Failed to clear cache", err)
		return
	}
	h.writeJSON(w, http.StatusOK, response.MessageResponse{Message: "Cache cleared"})
}

func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if !h.courses.RefreshInBackground(entity.TriggerManual) {
		h.writeJSON(w, http.StatusConflict, response.MessageResponse{Message: "Refresh already running"})
		return
	}
	h.writeJSON(w, http.StatusAccepted, response.MessageResponse{Message: "Refresh started"})
}

func (h *Handler) HandleRecentRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeJSONError(w, http.StatusBadRequest, "limit must be a positive integer", err)
			return
		}
		limit = n
	}

	runs, err := h.courses.RecentRuns(r.Context(), limit)
	if errors.Is(err, usecase.ErrHistoryDisabled) {
		h.writeJSONError(w, http.StatusNotFound, "Run history is not configured", err)
		return
	}
	if err != nil {
		h.logger.Error("Failed to load run history", zap.Error(err))
		h.writeJSONError(w, http.StatusInternalServerError, "Failed to load run history", err)
		return
	}
	h.writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := h.courses.Health(ctx); err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
		h.writeJSON(w, http.StatusServiceUnavailable, response.HealthResponse{Status: "unavailable", Error: err.Error()})
		return
	}
	h.writeJSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to write JSON response", zap.Error(err))
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, status int, message string, err error) {
	body := response.ErrorResponse{Status: "error", Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	h.writeJSON(w, status, body)
}
