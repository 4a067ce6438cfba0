package handlers

import (
	"net/http"
	"strings"

	"jobflow/internal/listing"
	"jobflow/internal/models"
	"jobflow/internal/storage"
	"jobflow/internal/ui"
	"jobflow/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SearchHandler struct {
	sessions    *storage.Manager
	chrome      *ui.Registry
	logger      *zap.Logger
	maxFileSize int64
}

func NewSearchHandler(sessions *storage.Manager, chrome *ui.Registry, logger *zap.Logger, maxFileSize int64) *SearchHandler {
	return &SearchHandler{
		sessions:    sessions,
		chrome:      chrome,
		logger:      logger,
		maxFileSize: maxFileSize,
	}
}

// SaveSearchRequest snapshots the listing state to keep.
type SaveSearchRequest struct {
	Filters models.FilterCriteria `json:"filters"`
	Sort    string                `json:"sort"`
}

// Search handles the search form
// @Summary Search
// @Description Record the search in the recent search list and return the listing URL to navigate to
// @Tags search
// @Accept json
// @Produce json
// @Param request body validation.SearchForm true "Search"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} ValidationErrorResponse
// @Router /api/v1/search [post]
func (h *SearchHandler) Search(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	var form validation.SearchForm
	if !bindForm(c, h.chrome, h.maxFileSize, &form) {
		return
	}

	query := strings.TrimSpace(form.Query)
	location := strings.TrimSpace(form.Location)

	if form.IsEmpty() {
		c.JSON(http.StatusOK, gin.H{
			"redirect":        listing.JobsPath,
			"recent_searches": []models.RecentSearch{},
		})
		return
	}

	recent, err := sess.SaveSearch(c.Request.Context(), query, location)
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to save search")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"redirect":        listing.SearchURL(query, location),
		"recent_searches": recent,
	})
}

// SaveSearch handles saving the current listing state
// @Summary Save search
// @Description Keep the current filters and sort mode in the saved search list
// @Tags search
// @Accept json
// @Produce json
// @Param request body SaveSearchRequest true "Listing state"
// @Success 201 {object} models.SavedSearch
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/search/save [post]
func (h *SearchHandler) SaveSearch(c *gin.Context) {
	sess, ok := sessionFor(c, h.sessions)
	if !ok {
		return
	}

	var req SaveSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return
	}

	saved, err := sess.SaveCurrentSearch(c.Request.Context(), req.Filters, models.ParseSortMode(req.Sort))
	if err != nil {
		storageError(c, h.logger, h.chrome, err, "Failed to save search")
		return
	}

	toast(c, h.chrome, msgSearchSaved, ui.ToastSuccess)
	c.JSON(http.StatusCreated, saved)
}
