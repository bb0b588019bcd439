package pricing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/auth"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/upstream"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type quoteQuery struct {
	Timezone string `form:"timezone" binding:"required"`
	StartAt  string `form:"startAt" binding:"required"`
	EndAt    string `form:"endAt" binding:"required"`
}

// GetQuote godoc
// @Summary      Price quote for a parking window
// @Description  Returns the total amount, availability and per-day price segments for a location and date range.
// @Tags         pricing
// @Security     BearerAuth
// @Produce      json
// @Param        id        path      string  true  "Parking location ID"
// @Param        timezone  query     string  true  "IANA time zone"
// @Param        startAt   query     string  true  "Local start timestamp (2006-01-02T15:04:05)"
// @Param        endAt     query     string  true  "Local end timestamp (2006-01-02T15:04:05)"
// @Success      200  {object}  Quote
// @Failure      400  {object}  gin.H
// @Failure      401  {object}  gin.H
// @Failure      502  {object}  gin.H
// @Router       /parking/{id}/quote [get]
func (h *Handler) GetQuote(c *gin.Context) {
	var q quoteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timezone, startAt and endAt are required"})
		return
	}

	quote, err := h.service.Quote(c.Request.Context(), auth.GetToken(c), c.Param("id"), q.Timezone, q.StartAt, q.EndAt)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadTimezone), errors.Is(err, ErrBadTimestamp), errors.Is(err, ErrInvalidRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case upstream.IsUnauthorized(err):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		default:
			if apiErr, ok := upstream.AsAPIError(err); ok {
				c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch parking amount"})
		}
		return
	}

	c.JSON(http.StatusOK, quote)
}
