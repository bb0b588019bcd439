package draft

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/auth"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateDraft godoc
// @Summary      Start a booking draft
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Success      201  {object}  Draft
// @Failure      500  {object}  gin.H
// @Router       /drafts [post]
func (h *Handler) CreateDraft(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	d, err := h.service.CreateDraft(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create draft"})
		return
	}

	c.JSON(http.StatusCreated, d)
}

// GetDraft godoc
// @Summary      Read a booking draft
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Param        draftID  path      string  true  "Draft ID"
// @Success      200      {object}  Draft
// @Failure      404      {object}  gin.H
// @Router       /drafts/{draftID} [get]
func (h *Handler) GetDraft(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	d, err := h.service.GetDraft(c.Request.Context(), userID, c.Param("draftID"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// SetBookingDetails godoc
// @Summary      Merge fields into a booking draft
// @Description  Partial update: only provided fields change. The total amount is recomputed from base amount, add-ons and vehicle count.
// @Tags         drafts
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        draftID  path      string  true  "Draft ID"
// @Param        patch    body      Patch   true  "Fields to merge"
// @Success      200      {object}  Draft
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Router       /drafts/{draftID} [patch]
func (h *Handler) SetBookingDetails(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid draft payload"})
		return
	}

	d, err := h.service.SetBookingDetails(c.Request.Context(), userID, c.Param("draftID"), patch)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

// ClearDraft godoc
// @Summary      Reset a booking draft
// @Tags         drafts
// @Security     BearerAuth
// @Produce      json
// @Param        draftID  path      string  true  "Draft ID"
// @Success      200      {object}  Draft
// @Failure      404      {object}  gin.H
// @Router       /drafts/{draftID} [delete]
func (h *Handler) ClearDraft(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	d, err := h.service.ClearBooking(c.Request.Context(), userID, c.Param("draftID"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Draft not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only access your own drafts"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Draft operation failed"})
	}
}
