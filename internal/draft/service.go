package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrForbidden = errors.New("draft belongs to another user")

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateDraft starts a new empty booking flow and mints the idempotency key
// that will deduplicate its eventual submission.
func (s *Service) CreateDraft(ctx context.Context, userID string) (*Draft, error) {
	d := &Draft{
		ID:                uuid.NewString(),
		UserID:            userID,
		IdempotencyKey:    uuid.NewString(),
		VehicleMultiplier: 1,
		UpdatedAt:         time.Now().UTC(),
	}
	if err := s.store.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}
	return d, nil
}

func (s *Service) GetDraft(ctx context.Context, userID, id string) (*Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.UserID != userID {
		return nil, ErrForbidden
	}
	return d, nil
}

// SetBookingDetails merges the patch into the draft, stamps a new
// modification timestamp and persists. Last write wins.
func (s *Service) SetBookingDetails(ctx context.Context, userID, id string, p Patch) (*Draft, error) {
	d, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	d.apply(p)
	d.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to persist draft: %w", err)
	}
	return d, nil
}

// ClearBooking resets the draft to its empty state with a fresh idempotency
// key, so a new flow on the same draft is a new submission to the upstream.
func (s *Service) ClearBooking(ctx context.Context, userID, id string) (*Draft, error) {
	d, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	d.reset(uuid.NewString())
	d.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to persist draft: %w", err)
	}
	return d, nil
}

// RecordBooking pins the created booking to the draft. Further submissions of
// the same draft resolve to this booking instead of hitting the upstream.
func (s *Service) RecordBooking(ctx context.Context, userID, id, bookingID string) error {
	d, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return err
	}
	d.BookingID = &bookingID
	d.UpdatedAt = time.Now().UTC()
	return s.store.Update(ctx, d)
}

// Discard removes the draft for good once its booking is reconciled. The
// flow is closed at that point; a later submission starts a fresh draft.
func (s *Service) Discard(ctx context.Context, userID, id string) error {
	if _, err := s.GetDraft(ctx, userID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// MarkPaid records the client-observed payment success on the draft. The
// authoritative paid state still comes from reconciliation.
func (s *Service) MarkPaid(ctx context.Context, userID, id string) error {
	d, err := s.GetDraft(ctx, userID, id)
	if err != nil {
		return err
	}
	d.Paid = true
	d.UpdatedAt = time.Now().UTC()
	return s.store.Update(ctx, d)
}
