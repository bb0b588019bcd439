package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/upstream"
)

func TestClientUploadFiles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		require.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Len(t, r.MultipartForm.File["files"], 2)

		json.NewEncoder(w).Encode([]string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"})
	}))
	defer srv.Close()

	client := NewClient(upstream.New(srv.URL, 5*time.Second))

	urls, err := client.UploadFiles(context.Background(), "token", []File{
		{Name: "a.jpg", Data: strings.NewReader("aaa")},
		{Name: "b.jpg", Data: strings.NewReader("bbb")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, urls)
}

func TestClientCreateReview(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/parking-reviews", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var payload CreatePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "booking-1", payload.BookingID)
		assert.Equal(t, 4, payload.Rating)

		json.NewEncoder(w).Encode(Review{ID: "review-1", BookingID: payload.BookingID, Rating: payload.Rating})
	}))
	defer srv.Close()

	client := NewClient(upstream.New(srv.URL, 5*time.Second))

	created, err := client.CreateReview(context.Background(), "token", CreatePayload{
		BookingID: "booking-1",
		Rating:    4,
		Review:    "Great spot",
	})
	require.NoError(t, err)
	assert.Equal(t, "review-1", created.ID)
}
