// Package service wires the remote API client, the query cache and the
// refetch pipeline, and computes the dashboard views served by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/staffboard/internal/adapters/credentials"
	"github.com/okian/staffboard/internal/adapters/hrapi"
	eventqueue "github.com/okian/staffboard/internal/adapters/mq/queue"
	workerpool "github.com/okian/staffboard/internal/adapters/mq/worker"
	"github.com/okian/staffboard/internal/adapters/querycache"
	"github.com/okian/staffboard/internal/adapters/transport"
	"github.com/okian/staffboard/internal/config"
	"github.com/okian/staffboard/internal/domain/analytics"
	"github.com/okian/staffboard/internal/domain/dedupe"
	"github.com/okian/staffboard/internal/domain/model"
	"github.com/okian/staffboard/internal/domain/types"
	"github.com/okian/staffboard/pkg/logger"
	"github.com/okian/staffboard/pkg/metrics"
)

// ErrNotStarted is returned by view methods before Start.
var ErrNotStarted = fmt.Errorf("%w: not started", types.ErrUnavailable)

// Service implements the API dependencies for the staffing dashboard.
type Service struct {
	mu sync.RWMutex

	cfg        *config.Config
	creds      credentials.Provider
	httpClient *http.Client
	clock      clockwork.Clock

	// Core components
	transport *transport.Client
	cache     *querycache.Cache
	api       *hrapi.Client
	queue     *eventqueue.InMemoryQueue
	pending   dedupe.Pending
	pool      *workerpool.Pool

	// Long-lived subscriptions kept open while the service runs.
	users    *hrapi.Live[[]model.User]
	projects *hrapi.Live[[]model.Project]

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithConfig sets the configuration. config.New() is used otherwise.
func WithConfig(cfg *config.Config) Option {
	return func(s *Service) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithCredentials sets the token provider used for every remote call.
func WithCredentials(p credentials.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.creds = p
		}
	}
}

// WithHTTPClient sets the HTTP client used to reach the remote API.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// WithClock sets the clock driving cache eviction and job timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service. Components are built by Start.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:   config.New(),
		clock: clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components, starts the refetch workers and opens the
// user and project subscriptions the dashboard reads from.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger.Info(ctx, "starting staffboard service...")

	if s.creds == nil {
		creds, err := s.loadCredentials()
		if err != nil {
			return err
		}
		s.creds = creds
	}

	topts := []transport.Option{
		transport.WithTimeout(s.cfg.APITimeout()),
		transport.WithLogger(s.logger.Named("transport")),
	}
	if s.httpClient != nil {
		topts = append(topts, transport.WithHTTPClient(s.httpClient))
	}
	s.transport = transport.New(s.cfg.APIBaseURL, s.creds, topts...)

	s.queue = eventqueue.NewInMemoryQueue(
		eventqueue.WithCapacity(s.cfg.RefetchQueueSize),
		eventqueue.WithClock(s.clock),
	)
	s.pending = dedupe.NewPending(dedupe.WithMaxSize(s.cfg.PendingRefetchSize))
	s.cache = querycache.New(s.transport,
		querycache.WithKeepUnusedDataFor(s.cfg.KeepUnusedDataFor()),
		querycache.WithClock(s.clock),
		querycache.WithDispatcher(newQueueDispatcher(s.queue, s.pending, s.logger)),
		querycache.WithLogger(s.logger.Named("querycache")),
	)
	s.api = hrapi.New(s.cache, s.transport, hrapi.WithLogger(s.logger.Named("hrapi")))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.pool = workerpool.NewPool(s.cfg.RefetchWorkerCount, s.queue, s.cache,
		workerpool.WithPending(s.pending),
		workerpool.WithLogger(s.logger.Named("refetch")),
	)
	s.pool.Start(runCtx)

	users, err := s.api.Users(ctx)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe users: %w", err)
	}
	projects, err := s.api.Projects(ctx)
	if err != nil {
		users.Close()
		cancel()
		return fmt.Errorf("subscribe projects: %w", err)
	}
	s.users, s.projects = users, projects

	s.cancel = cancel
	s.started = true
	s.logger.Info(ctx, "staffboard service started",
		logger.String("api", s.cfg.APIBaseURL),
		logger.Int("workers", s.cfg.RefetchWorkerCount),
		logger.Int("queueSize", s.cfg.RefetchQueueSize),
		logger.Duration("keepUnusedDataFor", s.cfg.KeepUnusedDataFor()),
	)
	return nil
}

func (s *Service) loadCredentials() (credentials.Provider, error) {
	if s.cfg.APITokenFile != "" {
		store, err := credentials.LoadFile(s.cfg.APITokenFile)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	return credentials.NewStore(s.cfg.APIToken), nil
}

// Stop releases the subscriptions and drains the refetch workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping staffboard service...")

	s.users.Close()
	s.projects.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.pool.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.cancel()

	s.started = false
	s.logger.Info(ctx, "staffboard service stopped")
}

// sources returns the long-lived subscriptions, or ErrNotStarted.
func (s *Service) sources() (*hrapi.Live[[]model.User], *hrapi.Live[[]model.Project], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.users, s.projects, nil
}

// read returns the current snapshot of live. A cached transport error is
// refetched once, so a read after an outage sees the recovered data. Decode
// errors are returned as they are.
func read[T any](ctx context.Context, live *hrapi.Live[T]) (hrapi.Snapshot[T], error) {
	snap, err := live.Snapshot(ctx)
	if err == nil || ctx.Err() != nil || !errors.Is(err, transport.ErrTransport) {
		return snap, err
	}
	if rerr := live.Refetch(ctx); rerr != nil {
		return snap, rerr
	}
	return live.Snapshot(ctx)
}

func (s *Service) engineers(ctx context.Context) ([]model.User, types.Freshness, error) {
	users, _, err := s.sources()
	if err != nil {
		return nil, types.Freshness{}, err
	}
	snap, err := read(ctx, users)
	if err != nil {
		return nil, snap.Freshness, err
	}
	return analytics.Engineers(snap.Value), snap.Freshness, nil
}

func (s *Service) allProjects(ctx context.Context) ([]model.Project, types.Freshness, error) {
	_, projects, err := s.sources()
	if err != nil {
		return nil, types.Freshness{}, err
	}
	snap, err := read(ctx, projects)
	return snap.Value, snap.Freshness, err
}

// compute times one view computation.
func compute[T any](view string, f func() T) T {
	start := time.Now()
	defer func() { metrics.RecordAggregationLatency(view, metrics.SinceMs(start)) }()
	return f()
}

// Summary returns the headline engineer statistics.
func (s *Service) Summary(ctx context.Context) (types.View[analytics.Summary], error) {
	engineers, fresh, err := s.engineers(ctx)
	if err != nil {
		return types.View[analytics.Summary]{}, err
	}
	sum := compute("summary", func() analytics.Summary { return analytics.SummaryStatistics(engineers) })
	return types.NewView(sum, fresh), nil
}

// Skills returns the skill distribution truncated to limit entries. A limit
// of zero or less returns every skill.
func (s *Service) Skills(ctx context.Context, limit int) (types.View[[]analytics.SkillCount], error) {
	engineers, fresh, err := s.engineers(ctx)
	if err != nil {
		return types.View[[]analytics.SkillCount]{}, err
	}
	dist := compute("skills", func() []analytics.SkillCount {
		d := analytics.SkillDistribution(engineers)
		if limit > 0 {
			d = analytics.TopSkills(d, limit)
		}
		return d
	})
	return types.NewView(dist, fresh), nil
}

// Experience returns the four experience buckets.
func (s *Service) Experience(ctx context.Context) (types.View[[]analytics.ExperienceBucket], error) {
	engineers, fresh, err := s.engineers(ctx)
	if err != nil {
		return types.View[[]analytics.ExperienceBucket]{}, err
	}
	buckets := compute("experience", func() []analytics.ExperienceBucket { return analytics.ExperienceBuckets(engineers) })
	return types.NewView(buckets, fresh), nil
}

// Engineers returns every engineer ranked by utilization score.
func (s *Service) Engineers(ctx context.Context) (types.View[[]analytics.EngineerRank], error) {
	engineers, fresh, err := s.engineers(ctx)
	if err != nil {
		return types.View[[]analytics.EngineerRank]{}, err
	}
	ranks := compute("engineers", func() []analytics.EngineerRank { return analytics.RankEngineers(engineers) })
	return types.NewView(ranks, fresh), nil
}

// ProjectStatus returns the number of projects per status.
func (s *Service) ProjectStatus(ctx context.Context) (types.View[[]analytics.StatusCount], error) {
	projects, fresh, err := s.allProjects(ctx)
	if err != nil {
		return types.View[[]analytics.StatusCount]{}, err
	}
	counts := compute("project_status", func() []analytics.StatusCount { return analytics.StatusBreakdown(projects) })
	return types.NewView(counts, fresh), nil
}

// StaffingOverview returns the staffing row of every project.
func (s *Service) StaffingOverview(ctx context.Context) (types.View[[]analytics.ProjectStaffingRow], error) {
	projects, fresh, err := s.allProjects(ctx)
	if err != nil {
		return types.View[[]analytics.ProjectStaffingRow]{}, err
	}
	rows := compute("staffing", func() []analytics.ProjectStaffingRow { return analytics.StaffingOverview(projects) })
	return types.NewView(rows, fresh), nil
}

// ProjectStaffing returns the staffing of one project. The project query is
// released afterwards and stays cached for the grace period.
func (s *Service) ProjectStaffing(ctx context.Context, id model.ID) (types.View[analytics.ProjectStaffingRow], error) {
	var zero types.View[analytics.ProjectStaffingRow]
	api, err := s.client()
	if err != nil {
		return zero, err
	}
	live, err := api.Project(ctx, id)
	if err != nil {
		return zero, err
	}
	defer live.Close()

	snap, err := read(ctx, live)
	if err != nil {
		return zero, err
	}
	rows := compute("staffing", func() []analytics.ProjectStaffingRow {
		return analytics.StaffingOverview([]model.Project{snap.Value})
	})
	return types.NewView(rows[0], snap.Freshness), nil
}

// AssignEngineer assigns an engineer to a project. Users and projects are
// refetched in the background once the assignment succeeds.
func (s *Service) AssignEngineer(ctx context.Context, projectID model.ID, in model.AssignEngineerInput) error {
	api, err := s.client()
	if err != nil {
		return err
	}
	return api.AssignEngineer(ctx, projectID, in)
}

// Chat forwards a message to the assistant endpoint.
func (s *Service) Chat(ctx context.Context, message string) (model.ChatReply, error) {
	api, err := s.client()
	if err != nil {
		return model.ChatReply{}, err
	}
	return api.Chat(ctx, message)
}

// Report downloads the staffing report as raw bytes.
func (s *Service) Report(ctx context.Context) ([]byte, error) {
	api, err := s.client()
	if err != nil {
		return nil, err
	}
	return api.DownloadReport(ctx)
}

func (s *Service) client() (*hrapi.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.api, nil
}

// SkillLimits returns the default and maximum skill list length.
func (s *Service) SkillLimits() (defaultLimit, maxLimit int) {
	return s.cfg.DefaultSkillLimit, s.cfg.MaxSkillLimit
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := types.Stats{Started: s.started}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	cs := s.cache.Stats()
	stats.Cache = types.CacheStats{Entries: cs.Entries, Subscribers: cs.Subscribers, InFlight: cs.InFlight}
	stats.Queue = types.QueueStats{
		Length:   s.queue.Len(ctx),
		Capacity: s.queue.Capacity(),
		Pending:  s.pending.Size(),
	}
	ws := s.pool.Stats()
	stats.Workers = types.WorkerStats{Workers: ws.Workers, Processed: ws.Processed, Failed: ws.Failed}

	metrics.UpdateCacheEntries(cs.Entries)
	metrics.UpdateCacheSubscribers(cs.Subscribers)
	return stats
}
