package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/staffboard/internal/domain/analytics"
	"github.com/okian/staffboard/internal/domain/types"
)

// AnalyticsDependencies defines the views computed over engineers and projects.
type AnalyticsDependencies interface {
	Summary(ctx context.Context) (types.View[analytics.Summary], error)
	Skills(ctx context.Context, limit int) (types.View[[]analytics.SkillCount], error)
	Experience(ctx context.Context) (types.View[[]analytics.ExperienceBucket], error)
	Engineers(ctx context.Context) (types.View[[]analytics.EngineerRank], error)
	ProjectStatus(ctx context.Context) (types.View[[]analytics.StatusCount], error)

	// SkillLimits returns the default and maximum length of the skill list.
	SkillLimits() (defaultLimit, maxLimit int)
}

// AnalyticsHandler handles the analytics views.
type AnalyticsHandler struct {
	deps AnalyticsDependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps AnalyticsDependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// HandleSummary handles GET /analytics/summary.
func (h *AnalyticsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Summary(r.Context())
	respond(w, v, err)
}

// HandleSkills handles GET /analytics/skills?limit=N.
func (h *AnalyticsHandler) HandleSkills(w http.ResponseWriter, r *http.Request) {
	def, maxLimit := h.deps.SkillLimits()
	n := def
	if raw := r.URL.Query().Get("limit"); raw != "" {
		var err error
		n, err = strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: limit must be a positive integer", ErrBadRequest))
			return
		}
	}
	if maxLimit > 0 && n > maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded", fmt.Errorf("%w: %d", ErrLimitExceeded, maxLimit))
		return
	}
	v, err := h.deps.Skills(r.Context(), n)
	respond(w, v, err)
}

// HandleExperience handles GET /analytics/experience.
func (h *AnalyticsHandler) HandleExperience(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Experience(r.Context())
	respond(w, v, err)
}

// HandleEngineers handles GET /analytics/engineers.
func (h *AnalyticsHandler) HandleEngineers(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.Engineers(r.Context())
	respond(w, v, err)
}

// HandleProjectStatus handles GET /analytics/projects/status.
func (h *AnalyticsHandler) HandleProjectStatus(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ProjectStatus(r.Context())
	respond(w, v, err)
}

func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
