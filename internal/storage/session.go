package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"jobflow/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidTheme = errors.New("invalid theme")
	ErrNoSession    = errors.New("no session id")
)

const (
	DefaultRecentSearchCap = 10
	DefaultSavedSearchCap  = 10

	// PostedJobRedirect is where the client goes after posting a job.
	PostedJobRedirect = "/jobs"
)

const lockStripes = 64

// Manager hands out sessions over a shared store. Read-modify-write
// operations on one session are serialized.
type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	recentCap int
	savedCap  int

	locks [lockStripes]sync.Mutex
}

type Option func(*Manager)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithRecentSearchCap(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.recentCap = n
		}
	}
}

func NewManager(store Store, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:     store,
		logger:    logger,
		now:       time.Now,
		recentCap: DefaultRecentSearchCap,
		savedCap:  DefaultSavedSearchCap,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Session returns the state of session id.
func (m *Manager) Session(id string) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNoSession
	}
	h := fnv.New32a()
	h.Write([]byte(id))
	return &Session{
		m:      m,
		id:     id,
		mu:     &m.locks[h.Sum32()%lockStripes],
		logger: m.logger.With(zap.String("session_id", id)),
	}, nil
}

// Session is the persisted client state of one visitor.
type Session struct {
	m      *Manager
	id     string
	mu     *sync.Mutex
	logger *zap.Logger
}

func (s *Session) ID() string { return s.id }

// load decodes key. An absent or malformed value yields def; malformed
// values are logged.
func load[T any](ctx context.Context, s *Session, key string, def T) (T, error) {
	raw, ok, err := s.m.store.Get(ctx, s.id, key)
	if err != nil {
		return def, fmt.Errorf("get %s: %w", key, err)
	}
	if !ok || raw == "" {
		return def, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("Discarding malformed stored value",
			zap.String("key", key),
			zap.Error(err),
		)
		return def, nil
	}
	return v, nil
}

func (s *Session) save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.m.store.Set(ctx, s.id, key, string(data)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Theme returns the stored theme, light when absent or unrecognised.
func (s *Session) Theme(ctx context.Context) (models.Theme, error) {
	raw, ok, err := s.m.store.Get(ctx, s.id, models.KeyTheme)
	if err != nil {
		return models.ThemeLight, fmt.Errorf("get theme: %w", err)
	}
	if !ok {
		return models.ThemeLight, nil
	}

	var theme models.Theme
	if err := json.Unmarshal([]byte(raw), &theme); err != nil {
		// older clients stored the bare word
		theme = models.Theme(raw)
	}
	if !theme.Valid() {
		s.logger.Warn("Ignoring unknown stored theme", zap.String("theme", raw))
		return models.ThemeLight, nil
	}
	return theme, nil
}

func (s *Session) SetTheme(ctx context.Context, theme models.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.save(ctx, models.KeyTheme, theme)
}

// ToggleTheme flips the theme and returns the new value.
func (s *Session) ToggleTheme(ctx context.Context) (models.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Theme(ctx)
	if err != nil {
		return current, err
	}
	next := current.Opposite()
	if err := s.SetTheme(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

// SavedJobs returns the saved job identifiers in insertion order.
func (s *Session) SavedJobs(ctx context.Context) ([]string, error) {
	ids, err := load(ctx, s, models.KeySavedJobs, []string{})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func (s *Session) IsJobSaved(ctx context.Context, id string) (bool, error) {
	ids, err := s.SavedJobs(ctx)
	if err != nil {
		return false, err
	}
	return indexOf(ids, id) >= 0, nil
}

// SaveJob adds id to the saved set. It returns false when id was already
// saved.
func (s *Session) SaveJob(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveJob(ctx, id)
}

func (s *Session) saveJob(ctx context.Context, id string) (bool, error) {
	ids, err := s.SavedJobs(ctx)
	if err != nil {
		return false, err
	}
	if indexOf(ids, id) >= 0 {
		return false, nil
	}
	if err := s.save(ctx, models.KeySavedJobs, append(ids, id)); err != nil {
		return false, err
	}
	return true, nil
}

// UnsaveJob removes id from the saved set. It returns false when id was not
// saved.
func (s *Session) UnsaveJob(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unsaveJob(ctx, id)
}

func (s *Session) unsaveJob(ctx context.Context, id string) (bool, error) {
	ids, err := s.SavedJobs(ctx)
	if err != nil {
		return false, err
	}
	i := indexOf(ids, id)
	if i < 0 {
		return false, nil
	}
	ids = append(ids[:i], ids[i+1:]...)
	if err := s.save(ctx, models.KeySavedJobs, ids); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleSavedJob saves id if absent, otherwise removes it. It returns the
// resulting saved state.
func (s *Session) ToggleSavedJob(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := s.IsJobSaved(ctx, id)
	if err != nil {
		return false, err
	}
	if saved {
		_, err = s.unsaveJob(ctx, id)
		return false, err
	}
	_, err = s.saveJob(ctx, id)
	return err == nil, err
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

// RecentSearches returns the search history, most recent first.
func (s *Session) RecentSearches(ctx context.Context) ([]models.RecentSearch, error) {
	searches, err := load(ctx, s, models.KeyRecentSearches, []models.RecentSearch{})
	if err != nil {
		return nil, err
	}
	if searches == nil {
		searches = []models.RecentSearch{}
	}
	return searches, nil
}

// SaveSearch records a search at the front of the history, replacing an
// identical (query, location) entry and dropping the oldest beyond the cap.
func (s *Session) SaveSearch(ctx context.Context, query, location string) ([]models.RecentSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.RecentSearches(ctx)
	if err != nil {
		return nil, err
	}

	searches := make([]models.RecentSearch, 0, len(existing)+1)
	searches = append(searches, models.RecentSearch{
		Query:     query,
		Location:  location,
		Timestamp: models.UnixMillis(s.m.now()),
	})
	for _, prev := range existing {
		if prev.Query == query && prev.Location == location {
			continue
		}
		searches = append(searches, prev)
	}
	if len(searches) > s.m.recentCap {
		searches = searches[:s.m.recentCap]
	}

	if err := s.save(ctx, models.KeyRecentSearches, searches); err != nil {
		return nil, err
	}
	return searches, nil
}

// SavedSearches returns the saved listing states, most recent first.
func (s *Session) SavedSearches(ctx context.Context) ([]models.SavedSearch, error) {
	searches, err := load(ctx, s, models.KeySavedSearches, []models.SavedSearch{})
	if err != nil {
		return nil, err
	}
	if searches == nil {
		searches = []models.SavedSearch{}
	}
	return searches, nil
}

// SaveCurrentSearch snapshots filters and sort at the front of the saved
// searches, keeping the newest ten.
func (s *Session) SaveCurrentSearch(ctx context.Context, filters models.FilterCriteria, sort models.SortMode) (models.SavedSearch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	searches, err := s.SavedSearches(ctx)
	if err != nil {
		return models.SavedSearch{}, err
	}

	saved := models.SavedSearch{
		Filters:   filters,
		Sort:      models.ParseSortMode(string(sort)),
		Timestamp: models.UnixMillis(s.m.now()),
	}
	searches = append([]models.SavedSearch{saved}, searches...)
	if len(searches) > s.m.savedCap {
		searches = searches[:s.m.savedCap]
	}

	if err := s.save(ctx, models.KeySavedSearches, searches); err != nil {
		return models.SavedSearch{}, err
	}
	return saved, nil
}

// Applications returns the submitted applications in submission order.
func (s *Session) Applications(ctx context.Context) ([]models.Application, error) {
	apps, err := load(ctx, s, models.KeyApplications, []models.Application{})
	if err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

// SaveApplication stamps app with a new identifier and the current time and
// appends it to the log.
func (s *Session) SaveApplication(ctx context.Context, app models.Application) (models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	apps, err := s.Applications(ctx)
	if err != nil {
		return models.Application{}, err
	}

	app.ID = uuid.New().String()
	app.Timestamp = s.m.now().UTC()
	if err := s.save(ctx, models.KeyApplications, append(apps, app)); err != nil {
		return models.Application{}, err
	}

	s.logger.Info("Application submitted",
		zap.String("application_id", app.ID),
		zap.String("job_id", app.JobID),
	)
	return app, nil
}

// PostedJobs returns the jobs posted from this session.
func (s *Session) PostedJobs(ctx context.Context) ([]models.PostedJob, error) {
	jobs, err := load(ctx, s, models.KeyPostedJobs, []models.PostedJob{})
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []models.PostedJob{}
	}
	return jobs, nil
}

// PostJob appends job with a new identifier and posting time. The returned
// path is where the client should navigate next.
func (s *Session) PostJob(ctx context.Context, job models.PostedJob) (models.PostedJob, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs, err := s.PostedJobs(ctx)
	if err != nil {
		return models.PostedJob{}, "", err
	}

	job.ID = uuid.New().String()
	job.Posted = s.m.now().UTC()
	if job.SalaryPeriod == "" {
		job.SalaryPeriod = "yearly"
	}
	if err := s.save(ctx, models.KeyPostedJobs, append(jobs, job)); err != nil {
		return models.PostedJob{}, "", err
	}

	s.logger.Info("Job posted",
		zap.String("posted_job_id", job.ID),
		zap.String("title", job.Title),
	)
	return job, PostedJobRedirect, nil
}

// SaveDraft replaces the stored job posting draft.
func (s *Session) SaveDraft(ctx context.Context, draft models.JobDraft) error {
	if draft == nil {
		draft = models.JobDraft{}
	}
	return s.save(ctx, models.KeyJobDraft, draft)
}

// LoadDraft returns the stored draft and whether one exists.
func (s *Session) LoadDraft(ctx context.Context) (models.JobDraft, bool, error) {
	draft, err := load[models.JobDraft](ctx, s, models.KeyJobDraft, nil)
	if err != nil {
		return nil, false, err
	}
	if draft == nil {
		return models.JobDraft{}, false, nil
	}
	return draft, true, nil
}

// ClearDraft removes the stored draft.
func (s *Session) ClearDraft(ctx context.Context) error {
	return s.m.store.Delete(ctx, s.id, models.KeyJobDraft)
}
