// Package hrapi is the typed client of the remote HR API. Reads go through
// the tagged request cache and writes declare the tags they invalidate.
package hrapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/okian/staffboard/internal/adapters/querycache"
	"github.com/okian/staffboard/internal/domain/model"
	"github.com/okian/staffboard/pkg/logger"
)

// Client exposes the documented endpoints.
type Client struct {
	cache   *querycache.Cache
	fetcher querycache.Fetcher
	logger  logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the client logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a client. Cached reads and mutations use cache. Uncached calls
// such as the chatbot and report download go straight to fetcher.
func New(cache *querycache.Cache, fetcher querycache.Fetcher, opts ...Option) *Client {
	c := &Client{cache: cache, fetcher: fetcher}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("hrapi")
	}
	return c
}

func subscribe[T any](ctx context.Context, c *Client, req querycache.Request, decode func([]byte) (T, error), tags ...querycache.Tag) (*Live[T], error) {
	sub, err := c.cache.Query(ctx, req, tags...)
	if err != nil {
		return nil, err
	}
	return newLive(sub, decode), nil
}

func listDecoder[T any](entity string) func([]byte) ([]T, error) {
	return func(b []byte) ([]T, error) { return model.DecodeList[T](entity, b) }
}

func itemDecoder[T any](entity string) func([]byte) (T, error) {
	return func(b []byte) (T, error) { return model.Decode[T](entity, b) }
}

func requireID(what string, id model.ID) error {
	if id == "" {
		return fmt.Errorf("%w: %s id is empty", querycache.ErrInvalidRequest, what)
	}
	return nil
}

func seg(id model.ID) string { return url.PathEscape(id.String()) }

func get(path string) querycache.Request {
	return querycache.Request{Method: http.MethodGet, Path: path}
}

// Users subscribes to GET /users.
func (c *Client) Users(ctx context.Context) (*Live[[]model.User], error) {
	return subscribe(ctx, c, get("/users"), listDecoder[model.User]("user"),
		querycache.TypeTag(TagUser), querycache.ListTag(TagUser))
}

// User subscribes to GET /users/:id.
func (c *Client) User(ctx context.Context, id model.ID) (*Live[model.User], error) {
	if err := requireID("user", id); err != nil {
		return nil, err
	}
	return subscribe(ctx, c, get("/users/"+seg(id)), itemDecoder[model.User]("user"), userTag(id))
}

// Projects subscribes to GET /project.
func (c *Client) Projects(ctx context.Context) (*Live[[]model.Project], error) {
	return subscribe(ctx, c, get("/project"), listDecoder[model.Project]("project"),
		querycache.TypeTag(TagProject), querycache.ListTag(TagProject))
}

// Project subscribes to GET /project/:id.
func (c *Client) Project(ctx context.Context, id model.ID) (*Live[model.Project], error) {
	if err := requireID("project", id); err != nil {
		return nil, err
	}
	return subscribe(ctx, c, get("/project/"+seg(id)), itemDecoder[model.Project]("project"), projectTag(id))
}

// UserProjects subscribes to GET /project/user/:id.
func (c *Client) UserProjects(ctx context.Context, userID model.ID) (*Live[[]model.Project], error) {
	if err := requireID("user", userID); err != nil {
		return nil, err
	}
	return subscribe(ctx, c, get("/project/user/"+seg(userID)), listDecoder[model.Project]("project"),
		querycache.ListTag(TagProject), userTag(userID))
}

// Notes subscribes to GET /projects/:id/notes.
func (c *Client) Notes(ctx context.Context, projectID model.ID) (*Live[[]model.Note], error) {
	if err := requireID("project", projectID); err != nil {
		return nil, err
	}
	return subscribe(ctx, c, get("/projects/"+seg(projectID)+"/notes"), listDecoder[model.Note]("note"),
		notesTag(projectID))
}

// AuditLogs subscribes to GET /audit-logs.
func (c *Client) AuditLogs(ctx context.Context) (*Live[[]model.AuditLog], error) {
	return subscribe(ctx, c, get("/audit-logs"), listDecoder[model.AuditLog]("audit log"),
		querycache.TypeTag(TagAuditLog))
}

// Skills subscribes to GET /skills.
func (c *Client) Skills(ctx context.Context) (*Live[[]model.Skill], error) {
	return subscribe(ctx, c, get("/skills"), listDecoder[model.Skill]("skill"), querycache.TypeTag(TagSkill))
}

// Designations subscribes to GET /designations.
func (c *Client) Designations(ctx context.Context) (*Live[[]model.Designation], error) {
	return subscribe(ctx, c, get("/designations"), listDecoder[model.Designation]("designation"),
		querycache.TypeTag(TagDesignation))
}
