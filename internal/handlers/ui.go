package handlers

import (
	"net/http"

	"jobflow/internal/ui"
	"jobflow/internal/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UIHandler drives the per-session page chrome: modals, toasts, the mobile
// nav and the live search box.
type UIHandler struct {
	chrome    *ui.Registry
	validator *validation.Validator
	logger    *zap.Logger
}

func NewUIHandler(chrome *ui.Registry, validator *validation.Validator, logger *zap.Logger) *UIHandler {
	return &UIHandler{
		chrome:    chrome,
		validator: validator,
		logger:    logger,
	}
}

// CloseModalRequest names the modal to close; empty closes whichever is open.
type CloseModalRequest struct {
	ID string `json:"id"`
}

// FocusRequest is a click on an element inside the open modal.
type FocusRequest struct {
	Element string `json:"element" binding:"required"`
}

// KeyRequest is a key press while a modal may be open.
type KeyRequest struct {
	Key   string `json:"key" binding:"required"`
	Shift bool   `json:"shift"`
}

// ToastRequest represents the toast creation request
type ToastRequest struct {
	Message string `json:"message" binding:"required,max=500"`
	Type    string `json:"type"`
}

// DismissToastRequest names the toast to dismiss; empty dismisses the
// visible one.
type DismissToastRequest struct {
	ID string `json:"id"`
}

// SearchInputRequest is one keystroke in a live search box.
type SearchInputRequest struct {
	Field string `json:"field" binding:"required,oneof=keywords location"`
	Value string `json:"value" binding:"max=200"`
}

// ValidateRequest carries the fields of a form for live validation. Submit
// marks the final check before sending the form.
type ValidateRequest struct {
	Fields []validation.Field `json:"fields" binding:"required,dive"`
	Submit bool               `json:"submit"`
}

func (h *UIHandler) chromeOrAbort(c *gin.Context) (*ui.Chrome, bool) {
	chrome := chromeFor(c, h.chrome)
	if chrome == nil {
		abortWithError(c, http.StatusBadRequest, "Session id is required", "MISSING_SESSION")
		return nil, false
	}
	return chrome, true
}

// State handles reading the whole chrome
// @Summary UI state
// @Tags ui
// @Produce json
// @Success 200 {object} ui.State
// @Router /api/v1/ui/state [get]
func (h *UIHandler) State(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, chrome.State())
}

// OpenModal handles opening a modal
// @Summary Open modal
// @Description Open a modal, closing any other first, and focus its first element
// @Tags ui
// @Produce json
// @Param id path string true "Modal ID"
// @Success 200 {object} ui.ModalState
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/ui/modals/{id}/open [post]
func (h *UIHandler) OpenModal(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}

	if !chrome.Modals.Open(c.Param("id")) {
		abortWithError(c, http.StatusNotFound, "Modal not found", "MODAL_NOT_FOUND")
		return
	}
	c.JSON(http.StatusOK, chrome.Modals.State())
}

// CloseModal handles closing a modal
// @Summary Close modal
// @Tags ui
// @Accept json
// @Produce json
// @Param request body CloseModalRequest false "Modal to close"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ui/modals/close [post]
func (h *UIHandler) CloseModal(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}

	var req CloseModalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
			return
		}
	}

	var closed bool
	if req.ID == "" {
		closed = chrome.Modals.CloseActive()
	} else {
		closed = chrome.Modals.Close(req.ID)
	}

	c.JSON(http.StatusOK, gin.H{
		"closed": closed,
		"modal":  chrome.Modals.State(),
	})
}

// FocusModal handles a click that moves focus inside the open modal
// @Summary Focus modal element
// @Tags ui
// @Accept json
// @Produce json
// @Param request body FocusRequest true "Element"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/ui/modals/focus [post]
func (h *UIHandler) FocusModal(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}

	var req FocusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"focused": chrome.Modals.Focus(req.Element),
		"modal":   chrome.Modals.State(),
	})
}

// HandleKey handles Tab, Shift+Tab and Escape inside an open modal
// @Summary Modal key press
// @Tags ui
// @Accept json
// @Produce json
// @Param request body KeyRequest true "Key"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/ui/keys [post]
func (h *UIHandler) HandleKey(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}

	var req KeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return
	}

	handled := chrome.Modals.HandleKey(req.Key, req.Shift)
	c.JSON(http.StatusOK, gin.H{
		"handled": handled,
		"modal":   chrome.Modals.State(),
	})
}

// ListToasts handles reading the toast queue
// @Summary Toast queue
// @Tags ui
// @Produce json
// @Success 200 {object} ui.ToastState
// @Router /api/v1/ui/toasts [get]
func (h *UIHandler) ListToasts(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, chrome.Toasts.State())
}

// ShowToast handles queueing a toast
// @Summary Show toast
// @Tags ui
// @Accept json
// @Produce json
// @Param request body ToastRequest true "Toast"
// @Success 201 {object} ui.Toast
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/ui/toasts [post]
func (h *UIHandler) ShowToast(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}

	var req ToastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return
	}

	c.JSON(http.StatusCreated, chrome.Toasts.Show(req.Message, ui.ParseToastType(req.Type)))
}

// DismissToast handles dismissing a toast by hand
// @Summary Dismiss toast
// @Tags ui
// @Accept json
// @Produce json
// @Param request body DismissToastRequest false "Toast to dismiss"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/ui/toasts/dismiss [post]
func (h *UIHandler) DismissToast(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}

	var req DismissToastRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
			return
		}
	}

	if !chrome.Toasts.Dismiss(req.ID) {
		abortWithError(c, http.StatusNotFound, "Toast not found", "TOAST_NOT_FOUND")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"dismissed": true,
		"toasts":    chrome.Toasts.State(),
	})
}

// ToggleNav handles the mobile menu button
// @Summary Toggle mobile nav
// @Tags ui
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ui/nav/toggle [post]
func (h *UIHandler) ToggleNav(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"open": chrome.Nav.Toggle()})
}

// SelectNavLink handles following a link from the mobile nav
// @Summary Select nav link
// @Description Following a link closes the mobile nav
// @Tags ui
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/ui/nav/select [post]
func (h *UIHandler) SelectNavLink(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}
	chrome.Nav.SelectLink()
	c.JSON(http.StatusOK, gin.H{"open": chrome.Nav.IsOpen()})
}

// SearchInput handles a keystroke in a live search box
// @Summary Live search input
// @Description Debounced; the value settles once typing pauses and is ignored below three characters
// @Tags ui
// @Accept json
// @Produce json
// @Param request body SearchInputRequest true "Keystroke"
// @Success 202 {object} ui.LiveSearchState
// @Failure 400 {object} ErrorResponse
// @Router /api/v1/ui/search-input [post]
func (h *UIHandler) SearchInput(c *gin.Context) {
	chrome, ok := h.chromeOrAbort(c)
	if !ok {
		return
	}

	var req SearchInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return
	}

	chrome.Search.Input(req.Field, req.Value, nil)
	c.JSON(http.StatusAccepted, chrome.Search.State())
}

// Validate handles live field validation
// @Summary Validate fields
// @Description Check every field; with submit set a failing form also raises a toast and answers 422
// @Tags ui
// @Accept json
// @Produce json
// @Param request body ValidateRequest true "Fields"
// @Success 200 {object} validation.FormResult
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} validation.FormResult
// @Router /api/v1/validate [post]
func (h *UIHandler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request data", "INVALID_REQUEST")
		return
	}

	result := h.validator.ValidateForm(req.Fields)
	if !req.Submit {
		c.JSON(http.StatusOK, result)
		return
	}

	if !result.Valid {
		toast(c, h.chrome, result.Toast, ui.ToastError)
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
