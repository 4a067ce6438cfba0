package handlers

import (
	"net/http"
	"time"

	"jobflow/internal/catalog"
	"jobflow/internal/models"
	"jobflow/internal/storage"
	"jobflow/internal/ui"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionHandler serves the persisted per-session state.
type SessionHandler struct {
	sessions *storage.Manager
	catalog  *catalog.Catalog
	chrome   *ui.Registry
	logger   *zap.Logger
	now      func() time.Time
}

func NewSessionHandler(sessions *storage.Manager, cat *catalog.Catalog, chrome *ui.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		catalog:  cat,
		chrome:   chrome,
		logger:   logger,
		now:      time.Now,
	}
}

// ThemeRequest represents the theme update request
type ThemeRequest struct {
	Theme models.Theme `json:"theme" binding:"required,oneof=light dark"`
}

// GetTheme handles reading the theme
// @Summary Get theme
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/theme [get]
func (h *SessionHandler) GetTheme(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	theme, err := sess.Theme(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// SetTheme handles changing the theme
// @Summary Set theme
// @Tags session
// @Accept json
// @Produce json
// @Param request body ThemeRequest true "Theme"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} ErrorResponse
// @Router /api/v1/session/theme [put]
func (h *SessionHandler) SetTheme(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	var req ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusUnprocessableEntity, "Theme must be light or dark", "INVALID_THEME")
		return
	}

	if err := sess.SetTheme(c.Request.Context(), req.Theme); err != nil {
		if isInvalidTheme(err) {
			abortWithError(c, http.StatusUnprocessableEntity, "Theme must be light or dark", "INVALID_THEME")
			return
		}
		storageError(c, h.logger, h.chrome, err, "Failed to save theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

// ToggleTheme handles switching between light and dark
// @Summary Toggle theme
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/theme/toggle [post]
func (h *SessionHandler) ToggleTheme(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	theme, err := sess.ToggleTheme(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to toggle theme")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// ListSavedJobs handles reading the saved job set
// @Summary List saved jobs
// @Description Saved job ids in insertion order, plus the ones still present in the catalog
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/saved-jobs [get]
func (h *SessionHandler) ListSavedJobs(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	ids, err := sess.SavedJobs(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load saved jobs")
		return
	}

	saved := savedSet(ids)
	now := h.now()
	jobs := make([]JobCard, 0, len(ids))
	for _, id := range ids {
		if job, err := h.catalog.Find(id); err == nil {
			jobs = append(jobs, newJobCard(job, saved, now))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"ids":  ids,
		"jobs": jobs,
	})
}

// SaveJob handles adding a job to the saved set
// @Summary Save job
// @Description Idempotent; changed is false when the job was already saved
// @Tags session
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/saved-jobs/{id} [post]
func (h *SessionHandler) SaveJob(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	changed, err := sess.SaveJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to save job")
		return
	}
	if changed {
		toast(c, h.chrome, msgJobSaved, ui.ToastSuccess)
	}
	c.JSON(http.StatusOK, gin.H{"saved": true, "changed": changed})
}

// UnsaveJob handles removing a job from the saved set
// @Summary Unsave job
// @Description Idempotent; changed is false when the job was not saved
// @Tags session
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/saved-jobs/{id} [delete]
func (h *SessionHandler) UnsaveJob(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	changed, err := sess.UnsaveJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to unsave job")
		return
	}
	if changed {
		toast(c, h.chrome, msgJobUnsaved, ui.ToastInfo)
	}
	c.JSON(http.StatusOK, gin.H{"saved": false, "changed": changed})
}

// ToggleSavedJob handles the save button
// @Summary Toggle saved job
// @Tags session
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/saved-jobs/{id}/toggle [post]
func (h *SessionHandler) ToggleSavedJob(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	saved, err := sess.ToggleSavedJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to toggle saved job")
		return
	}
	if saved {
		toast(c, h.chrome, msgJobSaved, ui.ToastSuccess)
	} else {
		toast(c, h.chrome, msgJobUnsaved, ui.ToastInfo)
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

// ListRecentSearches handles reading the search history
// @Summary List recent searches
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/recent-searches [get]
func (h *SessionHandler) ListRecentSearches(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	searches, err := sess.RecentSearches(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load recent searches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"recent_searches": searches})
}

// ListSavedSearches handles reading the saved searches
// @Summary List saved searches
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/saved-searches [get]
func (h *SessionHandler) ListSavedSearches(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	searches, err := sess.SavedSearches(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load saved searches")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved_searches": searches})
}

// ListApplications handles reading the application log
// @Summary List applications
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/applications [get]
func (h *SessionHandler) ListApplications(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	apps, err := sess.Applications(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load applications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "count": len(apps)})
}

// ListPostedJobs handles reading the jobs posted from the session
// @Summary List posted jobs
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/posted-jobs [get]
func (h *SessionHandler) ListPostedJobs(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	jobs, err := sess.PostedJobs(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load posted jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posted_jobs": jobs, "count": len(jobs)})
}

// GetDraft handles restoring the job posting draft
// @Summary Get draft
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/session/draft [get]
func (h *SessionHandler) GetDraft(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	draft, exists, err := sess.LoadDraft(c.Request.Context())
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to load draft")
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft, "exists": exists})
}

// SaveDraft handles storing the job posting draft
// @Summary Save draft
// @Description Replace the draft with a flat field id to value snapshot
// @Tags session
// @Accept json
// @Produce json
// @Param request body models.JobDraft true "Draft fields"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/session/draft [put]
func (h *SessionHandler) SaveDraft(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	var draft models.JobDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return
	}

	if err := sess.SaveDraft(c.Request.Context(), draft); err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to save draft")
		return
	}
	toast(c, h.chrome, msgDraftSaved, ui.ToastInfo)
	c.JSON(http.StatusOK, gin.H{"draft": draft, "exists": true})
}

// ClearDraft handles discarding the job posting draft
// @Summary Clear draft
// @Tags session
// @Success 204
// @Router /api/v1/session/draft [delete]
func (h *SessionHandler) ClearDraft(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	if err := sess.ClearDraft(c.Request.Context()); err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to clear draft")
		return
	}
	c.Status(http.StatusNoContent)
}
