// Package handlers exposes the listing, session and UI commands over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"jobflow/internal/listing"
	"jobflow/internal/middleware"
	"jobflow/internal/models"
	"jobflow/internal/storage"
	"jobflow/internal/ui"
	"jobflow/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Toast messages raised by the handlers.
const (
	msgLoadFailed      = "Failed to load jobs. Please try again later."
	msgJobNotFound     = "Job not found"
	msgNoJobID         = "No job ID specified"
	msgJobSaved        = "Job saved to your list"
	msgJobUnsaved      = "Job removed from saved jobs"
	msgSearchSaved     = "Search saved successfully"
	msgDraftSaved      = "Draft saved successfully"
	msgJobPosted       = "Job posted successfully!"
	msgApplicationSent = "Application submitted successfully!"
	msgStorageFailed   = "Something went wrong. Please try again."
)

const (
	summaryLength = 150
	cardTagCount  = 3
	applyModalID  = "apply"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ValidationErrorResponse is returned with 422 when a form is rejected.
type ValidationErrorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields"`
	Focus  string                  `json:"focus,omitempty"`
}

func abortWithError(c *gin.Context, status int, message, code string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}

// sessionFor resolves the request's persisted session. It writes the error
// response itself and returns false when there is none.
func sessionFor(c *gin.Context, sessions *storage.Manager) (*storage.Session, bool) {
	id, _ := middleware.GetSessionID(c)
	sess, err := sessions.Session(id)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Session id is required", "MISSING_SESSION")
		return nil, false
	}
	return sess, true
}

// chromeFor returns the UI state of the request's session, or nil when the
// request carries no session.
func chromeFor(c *gin.Context, registry *ui.Registry) *ui.Chrome {
	id, ok := middleware.GetSessionID(c)
	if !ok || registry == nil {
		return nil
	}
	return registry.Get(id)
}

func toast(c *gin.Context, registry *ui.Registry, message string, typ ui.ToastType) {
	if chrome := chromeFor(c, registry); chrome != nil {
		chrome.Toasts.Show(message, typ)
	}
}

// storageError answers a failed store operation with 500.
func storageError(c *gin.Context, logger *zap.Logger, registry *ui.Registry, err error, msg string) {
	logger.Error(msg, zap.Error(err))
	toast(c, registry, msgStorageFailed, ui.ToastError)
	abortWithError(c, http.StatusInternalServerError, msg, "STORAGE_ERROR")
}

// bindForm binds a JSON body into form. A validation failure is answered
// with 422, the inline field errors and a queued toast; malformed JSON with
// 400.
func bindForm(c *gin.Context, registry *ui.Registry, maxFileSize int64, form interface{}) bool {
	err := c.ShouldBindJSON(form)
	if err == nil {
		return true
	}

	fields := validation.FieldErrors(err, maxFileSize)
	if fields == nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return false
	}

	toast(c, registry, validation.FormErrorToast, ui.ToastError)
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationErrorResponse{
		Error:  validation.FormErrorToast,
		Code:   "VALIDATION_FAILED",
		Fields: fields,
		Focus:  fields[0].Field,
	})
	return false
}

// JobCard is a job as the listing renders it.
type JobCard struct {
	models.Job
	SalaryLabel string   `json:"salaryLabel"`
	PostedLabel string   `json:"postedLabel"`
	Initials    string   `json:"initials"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
	Saved       bool     `json:"saved"`
	URL         string   `json:"url"`
}

func newJobCard(job models.Job, saved map[string]bool, now time.Time) JobCard {
	return JobCard{
		Job:         job,
		SalaryLabel: listing.FormatSalary(job.SalaryMin, job.SalaryMax),
		PostedLabel: listing.FormatPosted(job.Posted, now),
		Initials:    job.Company.Initials(),
		Summary:     job.Summary(summaryLength),
		Tags:        job.Tags(cardTagCount),
		Saved:       saved[job.ID],
		URL:         listing.JobURL(job.ID),
	}
}

func newJobCards(jobs []models.Job, saved map[string]bool, now time.Time) []JobCard {
	cards := make([]JobCard, len(jobs))
	for i, job := range jobs {
		cards[i] = newJobCard(job, saved, now)
	}
	return cards
}

func savedSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func isInvalidTheme(err error) bool {
	return errors.Is(err, storage.ErrInvalidTheme)
}
