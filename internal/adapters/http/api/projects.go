package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/staffboard/internal/domain/analytics"
	"github.com/okian/staffboard/internal/domain/model"
	"github.com/okian/staffboard/internal/domain/types"
)

// ProjectDependencies defines project staffing reads and assignments.
type ProjectDependencies interface {
	StaffingOverview(ctx context.Context) (types.View[[]analytics.ProjectStaffingRow], error)
	ProjectStaffing(ctx context.Context, id model.ID) (types.View[analytics.ProjectStaffingRow], error)
	AssignEngineer(ctx context.Context, projectID model.ID, in model.AssignEngineerInput) error
}

// ProjectsHandler handles project requests.
type ProjectsHandler struct {
	deps ProjectDependencies
}

// NewProjectsHandler creates a new projects handler.
func NewProjectsHandler(deps ProjectDependencies) *ProjectsHandler {
	return &ProjectsHandler{deps: deps}
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandleStaffingOverview handles GET /projects/staffing.
func (h *ProjectsHandler) HandleStaffingOverview(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.StaffingOverview(r.Context())
	respond(w, v, err)
}

// HandleProjectStaffing handles GET /projects/{id}/staffing.
func (h *ProjectsHandler) HandleProjectStaffing(w http.ResponseWriter, r *http.Request) {
	v, err := h.deps.ProjectStaffing(r.Context(), model.ID(r.PathValue("id")))
	respond(w, v, err)
}

// HandleAssign handles POST /projects/{id}/assign. The body is forwarded to
// the remote API, which refreshes the user and project caches on success.
func (h *ProjectsHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var in model.AssignEngineerInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	if err := h.deps.AssignEngineer(r.Context(), model.ID(r.PathValue("id")), in); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "assigned"})
}
