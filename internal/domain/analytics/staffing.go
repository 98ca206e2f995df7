package analytics

import "github.com/okian/staffboard/internal/domain/model"

// Staffing compares a project's headcount requirements with its assignments.
type Staffing struct {
	Required     int `json:"required"`
	Assigned     int `json:"assigned"`
	RatioPercent int `json:"ratio_percent"`
}

// ProjectStaffing sums the project's requirements, each contributing at least
// one head, and relates them to the number of assigned engineers. With nothing
// required the ratio is 100 when anyone is assigned and 0 otherwise.
func ProjectStaffing(p model.Project) Staffing {
	required := 0
	for _, r := range p.Requirements {
		required += max(r.RequiredCount, 1)
	}
	assigned := len(p.Engineers)

	ratio := 0
	switch {
	case required > 0:
		ratio = RoundHalfUp(float64(assigned) / float64(required) * 100)
	case assigned > 0:
		ratio = 100
	}
	return Staffing{Required: required, Assigned: assigned, RatioPercent: ratio}
}

// ProjectStaffingRow is ProjectStaffing labelled with the project.
type ProjectStaffingRow struct {
	ProjectID model.ID            `json:"project_id"`
	Name      string              `json:"name"`
	Status    model.ProjectStatus `json:"status"`
	Staffing
}

// StaffingOverview computes ProjectStaffing for every project, in input order.
func StaffingOverview(projects []model.Project) []ProjectStaffingRow {
	out := make([]ProjectStaffingRow, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectStaffingRow{
			ProjectID: p.ID,
			Name:      p.Name,
			Status:    p.Status,
			Staffing:  ProjectStaffing(p),
		})
	}
	return out
}

// StatusCount is the number of projects in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// StatusBreakdown counts projects per status. Every known status is reported,
// including zero counts, with unset last as "UNSET". Unknown statuses follow in
// first-seen order.
func StatusBreakdown(projects []model.Project) []StatusCount {
	index := make(map[model.ProjectStatus]int, len(model.ProjectStatuses))
	out := make([]StatusCount, 0, len(model.ProjectStatuses))
	for _, s := range model.ProjectStatuses {
		index[s] = len(out)
		out = append(out, StatusCount{Status: s.String()})
	}
	for _, p := range projects {
		i, ok := index[p.Status]
		if !ok {
			i = len(out)
			index[p.Status] = i
			out = append(out, StatusCount{Status: p.Status.String()})
		}
		out[i].Count++
	}
	return out
}
