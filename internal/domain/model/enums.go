package model

import "strings"

// Role is the account role of a User.
type Role string

const (
	RoleHR       Role = "HR"
	RolePM       Role = "PM"
	RoleLead     Role = "LEAD"
	RoleEngineer Role = "ENGINEER"
)

// String returns the string representation of the Role.
func (r Role) String() string { return string(r) }

// Is compares roles case-insensitively.
func (r Role) Is(other Role) bool { return strings.EqualFold(string(r), string(other)) }

// ProjectStatus is the lifecycle state of a Project. The zero value means unset.
type ProjectStatus string

const (
	ProjectStatusUnset      ProjectStatus = ""
	ProjectStatusNew        ProjectStatus = "NEW"
	ProjectStatusInProgress ProjectStatus = "IN_PROGRESS"
	ProjectStatusClosed     ProjectStatus = "CLOSED"
)

// ProjectStatuses lists the known statuses in display order, unset last.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusNew,
	ProjectStatusInProgress,
	ProjectStatusClosed,
	ProjectStatusUnset,
}

// String returns the string representation of the ProjectStatus.
func (s ProjectStatus) String() string {
	if s == ProjectStatusUnset {
		return "UNSET"
	}
	return string(s)
}
