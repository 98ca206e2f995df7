// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/staffboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AnalyticsDependencies
	ProjectDependencies
	AssistantDependencies
	StatsProvider
}

// Server wires HTTP routes for the view-model API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	analyticsHandler *AnalyticsHandler
	projectsHandler  *ProjectsHandler
	assistantHandler *AssistantHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		analyticsHandler: NewAnalyticsHandler(deps),
		projectsHandler:  NewProjectsHandler(deps),
		assistantHandler: NewAssistantHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /analytics/summary", MetricsMiddleware(s.analyticsHandler.HandleSummary, "analytics_summary"))
	mux.HandleFunc("GET /analytics/skills", MetricsMiddleware(s.analyticsHandler.HandleSkills, "analytics_skills"))
	mux.HandleFunc("GET /analytics/experience", MetricsMiddleware(s.analyticsHandler.HandleExperience, "analytics_experience"))
	mux.HandleFunc("GET /analytics/engineers", MetricsMiddleware(s.analyticsHandler.HandleEngineers, "analytics_engineers"))
	mux.HandleFunc("GET /analytics/projects/status", MetricsMiddleware(s.analyticsHandler.HandleProjectStatus, "analytics_project_status"))

	mux.HandleFunc("GET /projects/staffing", MetricsMiddleware(s.projectsHandler.HandleStaffingOverview, "projects_staffing"))
	mux.HandleFunc("GET /projects/{id}/staffing", MetricsMiddleware(s.projectsHandler.HandleProjectStaffing, "project_staffing"))
	mux.HandleFunc("POST /projects/{id}/assign", MetricsMiddleware(s.projectsHandler.HandleAssign, "project_assign"))

	mux.HandleFunc("POST /chat", MetricsMiddleware(s.assistantHandler.HandleChat, "chat"))
	mux.HandleFunc("GET /report", MetricsMiddleware(s.assistantHandler.HandleReport, "report"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorResponse{Error: code, Message: msg})
}
