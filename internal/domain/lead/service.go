package lead

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"crm/internal/database"
	"crm/internal/monitoring"
	"crm/internal/pkg/cache"
	"crm/internal/pkg/events"
)

// Service handles lead business logic
type Service struct {
	repo     LeadRepository
	cache    cache.Cache
	events   events.Publisher
	cacheTTL time.Duration
	now      func() time.Time
}

// NewService creates lead service. Pass cache.Nop{} and events.Nop{} to
// run without redis or kafka.
func NewService(repo LeadRepository, c cache.Cache, p events.Publisher, cacheTTL time.Duration) *Service {
	return &Service{
		repo:     repo,
		cache:    c,
		events:   p,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// CacheKey is the redis key for a single lead.
func CacheKey(id int64) string {
	return fmt.Sprintf("crm:lead:%d", id)
}

// VersionKey holds a counter bumped on every write to the lead. Cached
// entries carry the counter value seen before the database read.
func VersionKey(id int64) string {
	return CacheKey(id) + ":version"
}

type cachedLead struct {
	Version int64 `json:"version"`
	Lead    Lead  `json:"lead"`
}

// List returns every lead, newest first
func (s *Service) List(ctx context.Context) ([]Lead, error) {
	leads, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// GetByID returns lead by ID, reading through the cache. An entry written
// before a concurrent update carries an old version and is ignored.
func (s *Service) GetByID(ctx context.Context, id int64) (*Lead, error) {
	key := CacheKey(id)

	version, cacheable := s.cacheVersion(ctx, id)
	if cacheable {
		var cached cachedLead
		found, err := s.cache.Get(ctx, key, &cached)
		switch {
		case err != nil:
			cacheable = false
			monitoring.CacheRequests.WithLabelValues("error").Inc()
			logrus.WithError(err).WithField("lead_id", id).Warn("lead cache read failed")
		case found && cached.Version == version:
			monitoring.CacheRequests.WithLabelValues("hit").Inc()
			return &cached.Lead, nil
		case found:
			monitoring.CacheRequests.WithLabelValues("stale").Inc()
		default:
			monitoring.CacheRequests.WithLabelValues("miss").Inc()
		}
	}

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get lead %d: %w", id, err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, cachedLead{Version: version, Lead: *lead}, s.cacheTTL); err != nil {
			logrus.WithError(err).WithField("lead_id", id).Warn("lead cache write failed")
		}
	}
	return lead, nil
}

func (s *Service) cacheVersion(ctx context.Context, id int64) (int64, bool) {
	var version int64
	if _, err := s.cache.Get(ctx, VersionKey(id), &version); err != nil {
		monitoring.CacheRequests.WithLabelValues("error").Inc()
		logrus.WithError(err).WithField("lead_id", id).Warn("lead cache version read failed")
		return 0, false
	}
	return version, true
}

// Create stores a new lead and returns its id
func (s *Service) Create(ctx context.Context, req *CreateLeadRequest) (int64, error) {
	id, err := s.repo.Create(ctx, req, s.now())
	if err != nil {
		logConstraint(err, 0, "lead rejected by database")
		return 0, fmt.Errorf("create lead: %w", err)
	}

	status := DefaultStatus
	if req.Status != nil {
		status = *req.Status
	}
	events.Emit(ctx, s.events, events.New(events.LeadCreated, id, map[string]interface{}{
		"id":     id,
		"name":   deref(req.Name),
		"status": status,
	}))
	return id, nil
}

// UpdateStatus changes the status of a lead. Updating a missing lead is not an error.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *UpdateStatusRequest) error {
	n, err := s.repo.UpdateStatus(ctx, id, req.Status, s.now())
	if err != nil {
		logConstraint(err, id, "lead status rejected by database")
		return fmt.Errorf("update lead %d status: %w", id, err)
	}

	s.invalidate(ctx, id)
	if n == 0 {
		logrus.WithField("lead_id", id).Debug("status update matched no lead")
		return nil
	}

	events.Emit(ctx, s.events, events.New(events.LeadStatusUpdated, id, map[string]interface{}{
		"id":     id,
		"status": *req.Status,
	}))
	return nil
}

// Edit replaces the contact details of a lead. Editing a missing lead is not an error.
func (s *Service) Edit(ctx context.Context, id int64, req *EditLeadRequest) error {
	n, err := s.repo.UpdateDetails(ctx, id, req, s.now())
	if err != nil {
		logConstraint(err, id, "lead details rejected by database")
		return fmt.Errorf("edit lead %d: %w", id, err)
	}

	s.invalidate(ctx, id)
	if n == 0 {
		logrus.WithField("lead_id", id).Debug("edit matched no lead")
		return nil
	}

	events.Emit(ctx, s.events, events.New(events.LeadUpdated, id, map[string]interface{}{
		"id":         id,
		"name":       deref(req.Name),
		"address":    deref(req.Address),
		"phone":      deref(req.Phone),
		"occupation": deref(req.Occupation),
	}))
	return nil
}

// invalidate runs after the database write. Bumping the version first
// makes any read still in flight store an entry that will never match.
func (s *Service) invalidate(ctx context.Context, id int64) {
	if _, err := s.cache.Incr(ctx, VersionKey(id)); err != nil {
		logrus.WithError(err).WithField("lead_id", id).Warn("lead cache version bump failed")
	}
	if err := s.cache.Delete(ctx, CacheKey(id)); err != nil {
		logrus.WithError(err).WithField("lead_id", id).Warn("lead cache invalidation failed")
	}
}

func logConstraint(err error, id int64, msg string) {
	if !database.IsConstraintViolation(err) {
		return
	}
	entry := logrus.WithError(err)
	if id > 0 {
		entry = entry.WithField("lead_id", id)
	}
	entry.Info(msg)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
