package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/api"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/draft"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/logger"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/metrics"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/payment"
)

var (
	ErrBookingInProgress  = errors.New("booking creation for this draft is already in progress")
	ErrAlreadyPaid        = errors.New("booking is already paid")
	ErrNoPendingPayment   = errors.New("no pending payment on this booking")
	ErrCancellationWindow = errors.New("bookings cannot be cancelled within 24 hours of the start time")
)

// DraftIncompleteError reports which preconditions failed. It is raised
// before any upstream call.
type DraftIncompleteError struct {
	Details []api.ValidationError
}

func (e *DraftIncompleteError) Error() string {
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.Message
	}
	return "booking draft is incomplete: " + strings.Join(msgs, "; ")
}

// Drafts is the slice of the draft service used during checkout.
type Drafts interface {
	GetDraft(ctx context.Context, userID, id string) (*draft.Draft, error)
	RecordBooking(ctx context.Context, userID, id, bookingID string) error
	MarkPaid(ctx context.Context, userID, id string) error
	Discard(ctx context.Context, userID, id string) error
}

// Locker serializes submissions of one draft.
type Locker interface {
	Acquire(ctx context.Context, draftID string) (bool, error)
	Release(ctx context.Context, draftID string) error
}

type Service struct {
	api            API
	drafts         Drafts
	locker         Locker
	publishableKey string
	now            func() time.Time
}

func NewService(upstreamAPI API, drafts Drafts, locker Locker, publishableKey string) *Service {
	return &Service{
		api:            upstreamAPI,
		drafts:         drafts,
		locker:         locker,
		publishableKey: publishableKey,
		now:            time.Now,
	}
}

// CreateFromDraft submits the draft to the upstream, which atomically creates
// the booking and a payment intent sized to the total. The call happens at
// most once per draft: a recorded booking short-circuits to the existing
// payment session, the idempotency key deduplicates across sessions, and the
// in-flight lock collapses concurrent submits.
func (s *Service) CreateFromDraft(ctx context.Context, token, userID, draftID string) (*CreateResponse, error) {
	d, err := s.drafts.GetDraft(ctx, userID, draftID)
	if err != nil {
		return nil, err
	}

	if d.BookingID != nil {
		metrics.RecordBookingCreated("duplicate")
		return s.resumeExisting(ctx, token, *d.BookingID)
	}

	payload, err := payloadFromDraft(d)
	if err != nil {
		return nil, err
	}

	acquired, err := s.locker.Acquire(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to take booking lock: %w", err)
	}
	if !acquired {
		return nil, ErrBookingInProgress
	}

	resp, err := s.api.CreateBooking(ctx, token, d.IdempotencyKey, *payload)
	if err != nil {
		// Free the lock so the user can resubmit after the failure. No
		// automatic retry.
		if relErr := s.locker.Release(ctx, draftID); relErr != nil {
			logger.Error("failed to release booking lock", "draft_id", draftID, "error", relErr)
		}
		metrics.RecordBookingCreated("error")
		return nil, err
	}

	if err := s.drafts.RecordBooking(ctx, userID, draftID, resp.Booking.ID); err != nil {
		// The booking exists upstream; losing the local reference only costs
		// the duplicate short-circuit.
		logger.Error("failed to record booking on draft", "draft_id", draftID, "error", err)
	}
	if err := s.locker.Release(ctx, draftID); err != nil {
		logger.Error("failed to release booking lock", "draft_id", draftID, "error", err)
	}

	metrics.RecordBookingCreated("ok")
	return resp, nil
}

// resumeExisting rebuilds the checkout response for a draft whose booking was
// already created, reusing the pending payment's intent.
func (s *Service) resumeExisting(ctx context.Context, token, bookingID string) (*CreateResponse, error) {
	b, err := s.api.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Paid() {
		return nil, ErrAlreadyPaid
	}

	pending := b.PendingPayment()
	if pending == nil || pending.PaymentIntentID == nil {
		return nil, ErrNoPendingPayment
	}

	intent, err := s.api.GetPaymentIntent(ctx, token, *pending.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	return &CreateResponse{
		Booking: *b,
		Payment: IntentPayment{
			ID:           pending.ID,
			ClientSecret: intent.ClientSecret,
			Amount:       pending.Amount,
			Currency:     pending.Currency,
			Status:       intent.Status,
		},
	}, nil
}

func payloadFromDraft(d *draft.Draft) (*CreatePayload, error) {
	payload := CreatePayload{
		ParkingLocationID: deref(d.ParkingID),
		StartTime:         deref(d.StartDate),
		EndTime:           deref(d.EndDate),
		OutboundFlight:    d.OutboundFlight,
		InboundFlight:     d.InboundFlight,
		Timezone:          d.Timezone,
	}

	for _, v := range d.Vehicles {
		payload.Vehicles = append(payload.Vehicles, PayloadVehicle{
			LicensePlateNumber: v.LicensePlate,
			MakeAndModel:       v.MakeAndModel,
			VehicleType:        strings.ToUpper(v.VehicleType),
			NumberOfPeople:     v.NumberOfPeople,
			Features:           d.SelectedServiceIDs,
		})
	}

	if details := api.ValidateStruct(payload); details != nil {
		return nil, &DraftIncompleteError{Details: details}
	}
	return &payload, nil
}

// Get re-fetches the authoritative booking. This is the reconciliation read:
// after any payment event the UI must trust this, not the client-observed
// payment status.
func (s *Service) Get(ctx context.Context, token, id string) (*Booking, error) {
	return s.api.GetBooking(ctx, token, id)
}

func (s *Service) List(ctx context.Context, token string, q ListQuery) (*List, error) {
	return s.api.ListBookings(ctx, token, q)
}

// Session is everything the frontend needs to run the payment UI for an
// already-created booking.
type Session struct {
	BookingID       string        `json:"bookingId"`
	PaymentID       string        `json:"paymentId"`
	PaymentIntentID string        `json:"paymentIntentId"`
	ClientSecret    string        `json:"clientSecret"`
	PublishableKey  string        `json:"publishableKey"`
	State           payment.State `json:"state"`
	CanSubmit       bool          `json:"canSubmit"`
	Amount          string        `json:"amount"`
	Currency        string        `json:"currency"`
}

// PaymentSession locates the pending payment on an unpaid booking and fetches
// its intent's client secret. It never creates a new payment.
func (s *Service) PaymentSession(ctx context.Context, token, bookingID string) (*Session, error) {
	b, err := s.api.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Paid() {
		return nil, ErrAlreadyPaid
	}

	pending := b.PendingPayment()
	if pending == nil || pending.PaymentIntentID == nil {
		return nil, ErrNoPendingPayment
	}

	intent, err := s.api.GetPaymentIntent(ctx, token, *pending.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	m := payment.Resume(payment.FromIntentStatus(payment.IntentStatus(intent.Status)))
	return &Session{
		BookingID:       b.ID,
		PaymentID:       pending.ID,
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		PublishableKey:  s.publishableKey,
		State:           m.State(),
		CanSubmit:       m.CanSubmit(),
		Amount:          pending.Amount,
		Currency:        pending.Currency,
	}, nil
}

// Cancel checks the cancellation window locally before delegating to the
// upstream, which is authoritative for the actual refund.
func (s *Service) Cancel(ctx context.Context, token, id, reason string) (*Booking, error) {
	b, err := s.api.GetBooking(ctx, token, id)
	if err != nil {
		return nil, err
	}

	start, err := parseUpstreamTime(b.StartTime)
	if err != nil {
		return nil, fmt.Errorf("booking has unparseable start time %q: %w", b.StartTime, err)
	}
	if !CanCancel(b.Status, start, s.now()) {
		return nil, ErrCancellationWindow
	}

	cancelled, err := s.api.CancelBooking(ctx, token, id, reason)
	if err != nil {
		return nil, err
	}

	metrics.RecordBookingCancellation()
	return cancelled, nil
}

// PaymentResult is the outcome of ingesting a client-observed intent status.
// CanSubmit tells the frontend whether re-confirming the intent is legal;
// Terminal tells it the flow is closed.
type PaymentResult struct {
	State     payment.State `json:"state"`
	Booking   *Booking      `json:"booking"`
	CanSubmit bool          `json:"canSubmit"`
	Terminal  bool          `json:"terminal"`
}

// ApplyPaymentResult advances the payment state machine with the status the
// client observed and then reconciles against the upstream. The reconciled
// booking, not the reported status, decides whether the flow is closed.
func (s *Service) ApplyPaymentResult(ctx context.Context, token, userID, bookingID, draftID string, status payment.IntentStatus) (*PaymentResult, error) {
	m := payment.Resume(payment.StateConfirming)
	state, err := m.ApplyIntentStatus(status)
	if err != nil {
		return nil, err
	}
	metrics.RecordPaymentTransition(string(state))

	if state == payment.StateSucceeded && draftID != "" {
		if err := s.drafts.MarkPaid(ctx, userID, draftID); err != nil {
			logger.Error("failed to mark draft paid", "draft_id", draftID, "error", err)
		}
	}

	b, err := s.api.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Paid() {
		if err := m.Advance(payment.StateReconciled); err == nil {
			state = payment.StateReconciled
			metrics.RecordPaymentTransition(string(state))
		}
	}

	if state == payment.StateReconciled && draftID != "" {
		// The flow is closed; the draft has served its purpose.
		if err := s.drafts.Discard(ctx, userID, draftID); err != nil {
			logger.Error("failed to discard draft", "draft_id", draftID, "error", err)
		}
	}

	return &PaymentResult{State: state, Booking: b, CanSubmit: m.CanSubmit(), Terminal: m.Terminal()}, nil
}

// Details decorates a booking with the derived flags the frontend renders.
type Details struct {
	Booking        *Booking        `json:"booking"`
	Paid           bool            `json:"paid"`
	CanCancel      bool            `json:"canCancel"`
	RefundEstimate *RefundEstimate `json:"refundEstimate,omitempty"`
	CanReview      bool            `json:"canReview"`
}

// Describe computes the derived view of a booking at a point in time.
func Describe(b *Booking, now time.Time) *Details {
	details := &Details{
		Booking:   b,
		Paid:      b.Paid(),
		CanReview: b.Status == StatusCompleted && b.Review == nil,
	}
	if start, err := parseUpstreamTime(b.StartTime); err == nil {
		details.CanCancel = CanCancel(b.Status, start, now)
	}
	details.RefundEstimate = EstimateRefundFor(b, now)
	return details
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
