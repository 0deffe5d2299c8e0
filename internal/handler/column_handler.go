package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"excelsaver/internal/columns"
	"excelsaver/internal/service"
)

// ColumnHandler handles table column preference endpoints.
type ColumnHandler struct {
	columnService service.ColumnService
}

// NewColumnHandler creates a new ColumnHandler.
func NewColumnHandler(columnService service.ColumnService) *ColumnHandler {
	return &ColumnHandler{columnService: columnService}
}

// Get handles GET /api/v1/columns
func (h *ColumnHandler) Get(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}
	RespondOK(c, h.columnService.Get(ownerID))
}

// Replace handles PUT /api/v1/columns
func (h *ColumnHandler) Replace(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var cols []columns.Descriptor
	if err := c.ShouldBindJSON(&cols); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "malformed column list")
		return
	}

	updated, err := h.columnService.Replace(ownerID, cols)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, updated)
}

// Move handles POST /api/v1/columns/:key/move
func (h *ColumnHandler) Move(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "direction must be up or down")
		return
	}

	updated, err := h.columnService.Move(ownerID, c.Param("key"), columns.Direction(req.Direction))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, updated)
}

// SetVisibility handles PUT /api/v1/columns/:key/visibility
func (h *ColumnHandler) SetVisibility(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Visible *bool `json:"isVisible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "isVisible is required")
		return
	}

	updated, err := h.columnService.SetVisibility(ownerID, c.Param("key"), *req.Visible)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, updated)
}
