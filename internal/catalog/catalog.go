// Package catalog loads the job and company tables, joins them in memory and
// serves the joined snapshot to the listing pipeline.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"jobflow/internal/models"

	"go.uber.org/zap"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrNoJobID     = errors.New("no job ID specified")
	ErrNotLoaded   = errors.New("catalog not loaded")
)

// Snapshot is one immutable, joined view of both tables.
type Snapshot struct {
	Jobs      []models.Job
	Companies []models.Company
	LoadedAt  time.Time

	byID map[string]int
}

// Catalog owns the current snapshot. A failed reload keeps the previous
// snapshot; readers never observe partial data.
type Catalog struct {
	jobs      Source
	companies Source
	logger    *zap.Logger

	mu      sync.RWMutex
	snap    *Snapshot
	lastErr error
}

// New returns an empty catalog reading from the given sources.
func New(jobs, companies Source, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{jobs: jobs, companies: companies, logger: logger}
}

// NewStatic returns a catalog already holding the join of jobs and companies.
func NewStatic(jobs []models.Job, companies []models.Company) *Catalog {
	c := &Catalog{logger: zap.NewNop()}
	c.snap = newSnapshot(jobs, companies, time.Now())
	return c
}

// Reload fetches both sources and swaps in the new snapshot. Fetch or parse
// failure of either source aborts the reload.
func (c *Catalog) Reload(ctx context.Context) error {
	if c.jobs == nil || c.companies == nil {
		return ErrNotLoaded
	}

	start := time.Now()

	var jobs []models.Job
	if err := c.jobs.Decode(ctx, &jobs); err != nil {
		c.setErr(err)
		c.logger.Error("Failed to load jobs", zap.String("source", c.jobs.String()), zap.Error(err))
		return fmt.Errorf("load jobs: %w", err)
	}

	var companies []models.Company
	if err := c.companies.Decode(ctx, &companies); err != nil {
		c.setErr(err)
		c.logger.Error("Failed to load companies", zap.String("source", c.companies.String()), zap.Error(err))
		return fmt.Errorf("load companies: %w", err)
	}

	snap := newSnapshot(jobs, companies, time.Now())

	c.mu.Lock()
	c.snap = snap
	c.lastErr = nil
	c.mu.Unlock()

	c.logger.Info("Catalog loaded",
		zap.Int("jobs", len(snap.Jobs)),
		zap.Int("companies", len(snap.Companies)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (c *Catalog) setErr(err error) {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
}

// Snapshot returns the current snapshot, or an empty one before the first
// successful load.
func (c *Catalog) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap == nil {
		return &Snapshot{}
	}
	return c.snap
}

// LastError is the error of the most recent failed reload, cleared by the
// next successful one.
func (c *Catalog) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Loaded reports whether any snapshot has been published.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap != nil
}

// Jobs returns the joined jobs of the current snapshot. Callers must not
// modify the returned slice.
func (c *Catalog) Jobs() []models.Job {
	return c.Snapshot().Jobs
}

// Find looks up a job by identifier.
func (c *Catalog) Find(id string) (models.Job, error) {
	if id == "" {
		return models.Job{}, ErrNoJobID
	}
	snap := c.Snapshot()
	i, ok := snap.byID[id]
	if !ok {
		return models.Job{}, ErrJobNotFound
	}
	return snap.Jobs[i], nil
}

// Similar returns up to n other jobs sharing the role or the company
// industry of job, in catalog order.
func (c *Catalog) Similar(job models.Job, n int) []models.Job {
	var out []models.Job
	for _, other := range c.Snapshot().Jobs {
		if len(out) >= n {
			break
		}
		if other.ID == job.ID {
			continue
		}
		sameRole := other.Role == job.Role
		sameIndustry := other.Company.Industry == job.Company.Industry
		if sameRole || sameIndustry {
			out = append(out, other)
		}
	}
	return out
}

// Join attaches each job's company by identifier. Jobs without a matching
// company get the zero Company.
func Join(jobs []models.Job, companies []models.Company) []models.Job {
	byID := make(map[string]models.Company, len(companies))
	for _, company := range companies {
		if _, dup := byID[company.ID]; !dup {
			byID[company.ID] = company
		}
	}

	joined := make([]models.Job, len(jobs))
	for i, job := range jobs {
		job.Company = byID[job.CompanyID]
		joined[i] = job
	}
	return joined
}

func newSnapshot(jobs []models.Job, companies []models.Company, at time.Time) *Snapshot {
	joined := Join(jobs, companies)
	byID := make(map[string]int, len(joined))
	for i, job := range joined {
		if _, dup := byID[job.ID]; !dup {
			byID[job.ID] = i
		}
	}
	return &Snapshot{
		Jobs:      joined,
		Companies: append([]models.Company(nil), companies...),
		LoadedAt:  at,
		byID:      byID,
	}
}
