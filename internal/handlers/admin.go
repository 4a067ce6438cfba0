package handlers

import (
	"context"
	"net/http"
	"time"

	"jobflow/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes operator commands over the catalog.
type AdminHandler struct {
	catalog *catalog.Catalog
	logger  *zap.Logger
	timeout time.Duration
}

func NewAdminHandler(cat *catalog.Catalog, logger *zap.Logger, timeout time.Duration) *AdminHandler {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AdminHandler{
		catalog: cat,
		logger:  logger,
		timeout: timeout,
	}
}

func (h *AdminHandler) status() gin.H {
	snap := h.catalog.Snapshot()
	status := gin.H{
		"loaded":    h.catalog.Loaded(),
		"jobs":      len(snap.Jobs),
		"companies": len(snap.Companies),
	}
	if !snap.LoadedAt.IsZero() {
		status["loaded_at"] = snap.LoadedAt
	}
	if err := h.catalog.LastError(); err != nil {
		status["last_error"] = err.Error()
	}
	return status
}

// CatalogStatus handles reading the catalog state
// @Summary Catalog status
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/admin/catalog [get]
func (h *AdminHandler) CatalogStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.status())
}

// ReloadCatalog handles refetching both catalog sources
// @Summary Reload catalog
// @Description Refetch jobs and companies. A failed reload keeps the previous snapshot.
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /api/v1/admin/catalog/reload [post]
func (h *AdminHandler) ReloadCatalog(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.catalog.Reload(ctx); err != nil {
		h.logger.Error("Catalog reload failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to reload catalog",
			"code":    "CATALOG_RELOAD_FAILED",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, h.status())
}
