package review

import (
	"context"
	"errors"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/booking"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/metrics"
)

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrNotCompleted    = errors.New("only completed bookings can be reviewed")
	ErrAlreadyReviewed = errors.New("booking already has a review")
)

// BookingReader fetches the authoritative booking for eligibility checks.
type BookingReader interface {
	Get(ctx context.Context, token, id string) (*booking.Booking, error)
}

type Service struct {
	api      API
	bookings BookingReader
}

func NewService(api API, bookings BookingReader) *Service {
	return &Service{api: api, bookings: bookings}
}

// Submit creates a review for a completed booking. The rating gate runs
// before anything else, so an invalid rating never triggers an upload. Images
// are uploaded first; the review is created with their URLs, so a failed
// upload leaves no half-attached review behind.
func (s *Service) Submit(ctx context.Context, token, bookingID string, sub Submission) (*Review, error) {
	if sub.Rating < 1 || sub.Rating > 5 {
		metrics.RecordReview("rejected")
		return nil, ErrInvalidRating
	}

	b, err := s.bookings.Get(ctx, token, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != booking.StatusCompleted {
		metrics.RecordReview("rejected")
		return nil, ErrNotCompleted
	}
	if b.Review != nil {
		metrics.RecordReview("rejected")
		return nil, ErrAlreadyReviewed
	}

	var urls []string
	if len(sub.Images) > 0 {
		urls, err = s.api.UploadFiles(ctx, token, sub.Images)
		if err != nil {
			metrics.RecordReview("error")
			return nil, err
		}
	}

	created, err := s.api.CreateReview(ctx, token, CreatePayload{
		BookingID: b.ID,
		Rating:    sub.Rating,
		Review:    sub.Comment,
		Images:    urls,
	})
	if err != nil {
		metrics.RecordReview("error")
		return nil, err
	}

	metrics.RecordReview("ok")
	return created, nil
}
