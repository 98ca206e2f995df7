package hrapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/staffboard/internal/adapters/querycache"
	"github.com/okian/staffboard/internal/domain/model"
	"github.com/okian/staffboard/pkg/logger"
)

func validateInput(v any) error {
	if err := model.Validate(v); err != nil {
		return fmt.Errorf("%w: %w", querycache.ErrInvalidRequest, err)
	}
	return nil
}

// CreateProject sends POST /project.
func (c *Client) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	if err := validateInput(in); err != nil {
		return model.Project{}, err
	}
	out, err := c.cache.Mutate(ctx,
		querycache.Request{Method: http.MethodPost, Path: "/project", Body: in},
		querycache.ListTag(TagProject), querycache.TypeTag(TagAuditLog))
	if err != nil {
		return model.Project{}, err
	}
	return model.Decode[model.Project]("project", out)
}

// UpdateProject sends PUT /project/:id.
func (c *Client) UpdateProject(ctx context.Context, id model.ID, in model.ProjectInput) (model.Project, error) {
	if err := requireID("project", id); err != nil {
		return model.Project{}, err
	}
	if err := validateInput(in); err != nil {
		return model.Project{}, err
	}
	out, err := c.cache.Mutate(ctx,
		querycache.Request{Method: http.MethodPut, Path: "/project/" + seg(id), Body: in},
		projectTag(id), querycache.ListTag(TagProject), querycache.TypeTag(TagAuditLog))
	if err != nil {
		return model.Project{}, err
	}
	return model.Decode[model.Project]("project", out)
}

// AssignEngineer sends POST /project/:id/assign-engineer. It changes both the
// project and the engineer, so project and user caches are invalidated.
func (c *Client) AssignEngineer(ctx context.Context, projectID model.ID, in model.AssignEngineerInput) error {
	if err := requireID("project", projectID); err != nil {
		return err
	}
	if err := validateInput(in); err != nil {
		return err
	}
	_, err := c.cache.Mutate(ctx,
		querycache.Request{Method: http.MethodPost, Path: "/project/" + seg(projectID) + "/assign-engineer", Body: in},
		projectTag(projectID), querycache.ListTag(TagProject), querycache.TypeTag(TagUser), querycache.TypeTag(TagAuditLog))
	if err != nil {
		return err
	}
	c.logger.Info(ctx, "engineer assigned",
		logger.String("project_id", projectID.String()),
		logger.String("user_id", in.UserID.String()))
	return nil
}

// CreateNote sends POST /projects/:id/notes.
func (c *Client) CreateNote(ctx context.Context, projectID model.ID, in model.NoteInput) (model.Note, error) {
	if err := requireID("project", projectID); err != nil {
		return model.Note{}, err
	}
	if err := validateInput(in); err != nil {
		return model.Note{}, err
	}
	out, err := c.cache.Mutate(ctx,
		querycache.Request{Method: http.MethodPost, Path: "/projects/" + seg(projectID) + "/notes", Body: in},
		notesTag(projectID), querycache.TypeTag(TagAuditLog))
	if err != nil {
		return model.Note{}, err
	}
	return model.Decode[model.Note]("note", out)
}

// UpdateNote sends PUT /projects/:id/notes/:noteId.
func (c *Client) UpdateNote(ctx context.Context, projectID, noteID model.ID, in model.NoteInput) (model.Note, error) {
	if err := requireID("project", projectID); err != nil {
		return model.Note{}, err
	}
	if err := requireID("note", noteID); err != nil {
		return model.Note{}, err
	}
	if err := validateInput(in); err != nil {
		return model.Note{}, err
	}
	out, err := c.cache.Mutate(ctx,
		querycache.Request{Method: http.MethodPut, Path: notePath(projectID, noteID), Body: in},
		notesTag(projectID), querycache.TypeTag(TagAuditLog))
	if err != nil {
		return model.Note{}, err
	}
	return model.Decode[model.Note]("note", out)
}

// DeleteNote sends DELETE /projects/:id/notes/:noteId.
func (c *Client) DeleteNote(ctx context.Context, projectID, noteID model.ID) error {
	if err := requireID("project", projectID); err != nil {
		return err
	}
	if err := requireID("note", noteID); err != nil {
		return err
	}
	_, err := c.cache.Mutate(ctx,
		querycache.Request{Method: http.MethodDelete, Path: notePath(projectID, noteID)},
		notesTag(projectID), querycache.TypeTag(TagAuditLog))
	return err
}

func notePath(projectID, noteID model.ID) string {
	return "/projects/" + seg(projectID) + "/notes/" + seg(noteID)
}

// Chat sends a message to the chatbot. Replies are never cached.
func (c *Client) Chat(ctx context.Context, message string) (model.ChatReply, error) {
	in := model.ChatRequest{Message: message}
	if err := validateInput(in); err != nil {
		return model.ChatReply{}, err
	}
	out, err := c.fetcher.Do(ctx, querycache.Request{Method: http.MethodPost, Path: "/chatbot", Body: in})
	if err != nil {
		return model.ChatReply{}, err
	}
	return model.Decode[model.ChatReply]("chat reply", out)
}

// DownloadReport fetches the PDF report as raw bytes.
func (c *Client) DownloadReport(ctx context.Context) ([]byte, error) {
	return c.fetcher.Do(ctx, get("/report/download"))
}
