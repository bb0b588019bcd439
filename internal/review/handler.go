package review

import (
	"errors"
	"net/http"
	"strconv"

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

// CreateReview godoc
// @Summary      Review a completed booking
// @Description  Accepts a multipart form with the rating, the review text and optional images. Images are uploaded before the review is created.
// @Tags         reviews
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        bookingID  path      string  true   "Booking ID"
// @Param        rating     formData  int     true   "Rating from 1 to 5"
// @Param        review     formData  string  false  "Review text"
// @Param        images     formData  file    false  "Review images"
// @Success      201        {object}  Review
// @Failure      400        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Router       /bookings/{bookingID}/review [post]
func (h *Handler) CreateReview(c *gin.Context) {
	if _, ok := auth.GetUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be a number"})
		return
	}

	sub := Submission{
		Rating:  rating,
		Comment: c.PostForm("review"),
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["images"] {
			f, err := fh.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded image"})
				return
			}
			defer f.Close()
			sub.Images = append(sub.Images, File{
				Name:        fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        f,
			})
		}
	}

	created, err := h.service.Submit(c.Request.Context(), auth.GetToken(c), c.Param("bookingID"), sub)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) renderError(c *gin.Context, err error) {
	var apiErr *upstream.APIError

	switch {
	case errors.Is(err, ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Rating must be between 1 and 5"})
	case errors.Is(err, ErrNotCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "Only completed bookings can be reviewed"})
	case errors.Is(err, ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking already has a review"})
	case errors.As(err, &apiErr):
		c.JSON(apiErr.StatusCode, gin.H{"error": apiErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Review submission failed"})
	}
}
