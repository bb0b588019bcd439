package review

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/booking"
)

func setupReviewRouter(api *mockAPI, bookings *mockBookings) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(NewService(api, bookings))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.Set("bearerToken", "token")
		c.Next()
	})
	router.POST("/bookings/:bookingID/review", handler.CreateReview)
	return router
}

func reviewForm(t *testing.T, rating, text string, images ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("rating", rating))
	require.NoError(t, w.WriteField("review", text))
	for i, img := range images {
		part, err := w.CreateFormFile("images", img)
		require.NoError(t, err)
		_, err = part.Write([]byte{byte(i)})
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestCreateReviewHandler(t *testing.T) {
	api := new(mockAPI)
	bookings := new(mockBookings)
	router := setupReviewRouter(api, bookings)

	bookings.On("Get", mock.Anything, "token", "booking-1").Return(completedBooking(), nil)
	api.On("UploadFiles", mock.Anything, "token", mock.MatchedBy(func(files []File) bool {
		return len(files) == 1 && files[0].Name == "img-1.jpg"
	})).Return([]string{"https://cdn.example.com/img-1.jpg"}, nil)
	api.On("CreateReview", mock.Anything, "token", mock.Anything).
		Return(&Review{ID: "review-1", Rating: 4}, nil)

	body, contentType := reviewForm(t, "4", "Great spot", "img-1.jpg")
	req := httptest.NewRequest("POST", "/bookings/booking-1/review", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "review-1", created.ID)
}

func TestCreateReviewHandlerInvalidRating(t *testing.T) {
	api := new(mockAPI)
	bookings := new(mockBookings)
	router := setupReviewRouter(api, bookings)

	body, contentType := reviewForm(t, "0", "Text does not rescue a zero rating")
	req := httptest.NewRequest("POST", "/bookings/booking-1/review", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	bookings.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReviewHandlerAlreadyReviewed(t *testing.T) {
	api := new(mockAPI)
	bookings := new(mockBookings)
	router := setupReviewRouter(api, bookings)

	b := completedBooking()
	b.Review = &booking.Review{ID: "review-1"}
	bookings.On("Get", mock.Anything, "token", "booking-1").Return(b, nil)

	body, contentType := reviewForm(t, "5", "Second attempt")
	req := httptest.NewRequest("POST", "/bookings/booking-1/review", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
