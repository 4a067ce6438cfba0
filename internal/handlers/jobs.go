package handlers

import (
	"errors"
	"net/http"
	"time"

	"jobflow/internal/catalog"
	"jobflow/internal/listing"
	"jobflow/internal/models"
	"jobflow/internal/storage"
	"jobflow/internal/ui"
	"jobflow/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type JobsHandler struct {
	catalog     *catalog.Catalog
	sessions    *storage.Manager
	chrome      *ui.Registry
	logger      *zap.Logger
	pageSize    int
	similarJobs int
	maxFileSize int64
	now         func() time.Time
}

// JobsOptions tunes listing and form limits.
type JobsOptions struct {
	PageSize    int
	SimilarJobs int
	MaxFileSize int64
}

func NewJobsHandler(cat *catalog.Catalog, sessions *storage.Manager, chrome *ui.Registry, logger *zap.Logger, opts JobsOptions) *JobsHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = listing.DefaultPageSize
	}
	if opts.SimilarJobs <= 0 {
		opts.SimilarJobs = 3
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = validation.DefaultMaxFileSize
	}
	return &JobsHandler{
		catalog:     cat,
		sessions:    sessions,
		chrome:      chrome,
		logger:      logger,
		pageSize:    opts.PageSize,
		similarJobs: opts.SimilarJobs,
		maxFileSize: opts.MaxFileSize,
		now:         time.Now,
	}
}

// ListJobsResponse is one page of the filtered listing.
type ListJobsResponse struct {
	Jobs       []JobCard             `json:"jobs"`
	Count      int                   `json:"count"`
	CountLabel string                `json:"countLabel"`
	Filters    models.FilterCriteria `json:"filters"`
	Sort       models.SortMode       `json:"sort"`
	Pagination listing.Pagination    `json:"pagination"`
	URL        string                `json:"url"`
}

// JobDetailResponse is a single job with its similar jobs.
type JobDetailResponse struct {
	Job     JobCard   `json:"job"`
	Similar []JobCard `json:"similar"`
	Saved   bool      `json:"saved"`
}

// ListJobs handles the filtered, sorted and paginated listing
// @Summary List jobs
// @Description Filter, sort and paginate the job catalog. A catalog that failed to load yields an empty page and an error toast.
// @Tags jobs
// @Produce json
// @Param q query string false "Text query"
// @Param loc query string false "Location"
// @Param role query string false "Role"
// @Param experience query string false "Experience level"
// @Param type query string false "Employment type"
// @Param salary query string false "Salary band, min-max"
// @Param sort query string false "relevance, date, salary-high or salary-low"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} ListJobsResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/jobs [get]
func (h *JobsHandler) ListJobs(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	query := listing.ParseQuery(c.Request.URL.Query())

	if !h.catalog.Loaded() {
		h.logger.Warn("Listing requested before catalog load", zap.Error(h.catalog.LastError()))
		toast(c, h.chrome, msgLoadFailed, ui.ToastError)
	}

	now := h.now()
	view := listing.NewView(h.pageSize)
	view.ApplyQuery(h.catalog.Jobs(), query, now)
	result := view.Result()

	saved, err := sess.SavedJobs(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load saved jobs")
		return
	}

	c.JSON(http.StatusOK, ListJobsResponse{
		Jobs:       newJobCards(result.Jobs, savedSet(saved), now),
		Count:      result.Count,
		CountLabel: listing.FormatCount(result.Count),
		Filters:    result.Filters,
		Sort:       result.Sort,
		Pagination: result.Pagination,
		URL:        result.URL,
	})
}

// GetJob handles a single job lookup
// @Summary Get job
// @Description Get a job with similar jobs and the session's saved flag
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} JobDetailResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/jobs/{id} [get]
func (h *JobsHandler) GetJob(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	job, err := h.catalog.Find(c.Param("id"))
	if err != nil {
		msg, code := msgJobNotFound, "JOB_NOT_FOUND"
		if errors.Is(err, catalog.ErrNoJobID) {
			msg, code = msgNoJobID, "MISSING_JOB_ID"
		}
		toast(c, h.chrome, msg, ui.ToastError)
		abortWithError(c, http.StatusNotFound, msg, code)
		return
	}

	savedIDs, err := sess.SavedJobs(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load saved jobs")
		return
	}
	saved := savedSet(savedIDs)

	now := h.now()
	c.JSON(http.StatusOK, JobDetailResponse{
		Job:     newJobCard(job, saved, now),
		Similar: newJobCards(h.catalog.Similar(job, h.similarJobs), saved, now),
		Saved:   saved[job.ID],
	})
}

// ListCompanies handles listing the loaded companies
// @Summary List companies
// @Description List the companies of the current catalog snapshot
// @Tags jobs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/companies [get]
func (h *JobsHandler) ListCompanies(c *gin.Context) {
	snap := h.catalog.Snapshot()
	companies := snap.Companies
	if companies == nil {
		companies = []models.Company{}
	}
	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
		"count":     len(companies),
	})
}

// PostJob handles the job posting form
// @Summary Post job
// @Description Validate and store a job posting for the session, then redirect to the listing
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body validation.JobPostingForm true "Job posting"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /api/v1/jobs [post]
func (h *JobsHandler) PostJob(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	var form validation.JobPostingForm
	if !bindForm(c, h.chrome, h.maxFileSize, &form) {
		return
	}

	posted, redirect, err := sess.PostJob(c.Request.Context(), form.ToPostedJob())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to post job")
		return
	}

	toast(c, h.chrome, msgJobPosted, ui.ToastSuccess)

	c.JSON(http.StatusCreated, gin.H{
		"job":      posted,
		"redirect": redirect,
	})
}

// Apply handles the application form
// @Summary Submit application
// @Description Validate and store an application for the session
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body validation.ApplicationForm true "Application"
// @Success 201 {object} models.Application
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Router /api/v1/applications [post]
func (h *JobsHandler) Apply(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	var form validation.ApplicationForm
	if !bindForm(c, h.chrome, h.maxFileSize, &form) {
		return
	}

	if form.JobTitle == "" && form.JobID != "" {
		if job, err := h.catalog.Find(form.JobID); err == nil {
			form.JobTitle = job.Title
		}
	}

	app, err := sess.SaveApplication(c.Request.Context(), form.ToApplication())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to save application")
		return
	}

	if chrome := chromeFor(c, h.chrome); chrome != nil {
		chrome.Modals.Close(applyModalID)
		chrome.Toasts.Show(msgApplicationSent, ui.ToastSuccess)
	}

	c.JSON(http.StatusCreated, app)
}
