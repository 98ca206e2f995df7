package model

import "strings"

// Assignment is an engineer-side record of work on a project.
// A missing end date means the assignment is active.
type Assignment struct {
	ProjectID   ID     `json:"project_id"`
	ProjectName string `json:"project_name"`
	Role        string `json:"role,omitempty"`
	StartDate   *Date  `json:"start_date,omitempty"`
	EndDate     *Date  `json:"end_date,omitempty"`
}

// Active reports whether the assignment has no end date.
func (a Assignment) Active() bool { return !isSet(a.EndDate) }

// User is an account. Engineers are users with RoleEngineer.
type User struct {
	ID          ID           `json:"id" validate:"required"`
	Name        string       `json:"name"`
	Email       string       `json:"email,omitempty"`
	Role        Role         `json:"role"`
	Experience  int          `json:"experience" validate:"gte=0"`
	Skills      []SkillName  `json:"skills"`
	Projects    []Assignment `json:"projects" validate:"dive"`
	Designation string       `json:"designation,omitempty"`
	JoinDate    *Date        `json:"join_date,omitempty"`
}

// IsEngineer reports whether the user holds the engineer role.
func (u User) IsEngineer() bool { return u.Role.Is(RoleEngineer) }

// ActiveProjects counts assignments without an end date.
func (u User) ActiveProjects() int {
	n := 0
	for _, a := range u.Projects {
		if a.Active() {
			n++
		}
	}
	return n
}

// DistinctSkills returns trimmed, non-empty skill names in first-seen order
// with duplicates removed.
func (u User) DistinctSkills() []string {
	seen := make(map[string]struct{}, len(u.Skills))
	out := make([]string, 0, len(u.Skills))
	for _, s := range u.Skills {
		name := strings.TrimSpace(string(s))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// ProjectEngineer is a project-side record of an assigned engineer.
type ProjectEngineer struct {
	UserID      ID     `json:"user_id"`
	Name        string `json:"name,omitempty"`
	Designation string `json:"designation,omitempty"`
	AssignedAt  *Date  `json:"assigned_at,omitempty"`
	EndDate     *Date  `json:"end_date,omitempty"`
}

// Requirement is a staffing need for a designation. A zero count is
// tolerated on the wire and treated as one by analytics.
type Requirement struct {
	Designation   string `json:"designation"`
	RequiredCount int    `json:"required_count" validate:"gte=0"`
}

// Project is a unit of work engineers are staffed on.
type Project struct {
	ID           ID                `json:"id" validate:"required"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Status       ProjectStatus     `json:"status" validate:"omitempty,oneof=NEW IN_PROGRESS CLOSED"`
	StartDate    *Date             `json:"start_date,omitempty"`
	EndDate      *Date             `json:"end_date,omitempty"`
	Engineers    []ProjectEngineer `json:"engineers" validate:"dive"`
	Requirements []Requirement     `json:"requirements" validate:"dive"`
}

// Note is a free-text comment attached to a project.
type Note struct {
	ID         ID     `json:"id" validate:"required"`
	ProjectID  ID     `json:"project_id"`
	AuthorID   ID     `json:"author_id,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	Content    string `json:"content"`
	CreatedAt  *Date  `json:"created_at,omitempty"`
	UpdatedAt  *Date  `json:"updated_at,omitempty"`
}

// Skill is a catalogue entry.
type Skill struct {
	ID   ID     `json:"id"`
	Name string `json:"name" validate:"required"`
}

// Designation is a catalogue entry for job titles.
type Designation struct {
	ID   ID     `json:"id"`
	Name string `json:"name" validate:"required"`
}

// AuditLog records who changed what.
type AuditLog struct {
	ID         ID             `json:"id" validate:"required"`
	ActorID    ID             `json:"actor_id,omitempty"`
	ActorName  string         `json:"actor_name,omitempty"`
	Action     string         `json:"action" validate:"required"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   ID             `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	CreatedAt  *Date          `json:"created_at,omitempty"`
}
