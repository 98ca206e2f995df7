package hrapi

import (
	"github.com/okian/staffboard/internal/adapters/querycache"
	"github.com/okian/staffboard/internal/domain/model"
)

// Tag types used by the HR API endpoints.
const (
	TagUser        = "User"
	TagProject     = "Project"
	TagNote        = "Note"
	TagAuditLog    = "AuditLog"
	TagSkill       = "Skill"
	TagDesignation = "Designation"
)

func userTag(id model.ID) querycache.Tag    { return querycache.IDTag(TagUser, id.String()) }
func projectTag(id model.ID) querycache.Tag { return querycache.IDTag(TagProject, id.String()) }
func notesTag(projectID model.ID) querycache.Tag {
	return querycache.IDTag(TagNote, projectID.String())
}
