package booking

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/upstream"
)

// API is the slice of the upstream the booking service depends on.
type API interface {
	CreateBooking(ctx context.Context, token, idempotencyKey string, payload CreatePayload) (*CreateResponse, error)
	GetBooking(ctx context.Context, token, id string) (*Booking, error)
	ListBookings(ctx context.Context, token string, q ListQuery) (*List, error)
	CancelBooking(ctx context.Context, token, id, reason string) (*Booking, error)
	GetPaymentIntent(ctx context.Context, token, intentID string) (*Intent, error)
}

// ListQuery mirrors the upstream listing filters used by the account pages.
type ListQuery struct {
	SearchQuery   string
	BookingStatus string
	PaymentStatus string
	Page          int
	Limit         int
}

type Client struct {
	client *upstream.Client
}

func NewClient(client *upstream.Client) *Client {
	return &Client{client: client}
}

func (c *Client) CreateBooking(ctx context.Context, token, idempotencyKey string, payload CreatePayload) (*CreateResponse, error) {
	headers := http.Header{}
	if idempotencyKey != "" {
		headers.Set("Idempotency-Key", idempotencyKey)
	}

	var resp CreateResponse
	if err := c.client.Post(ctx, token, "/bookings", headers, payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) GetBooking(ctx context.Context, token, id string) (*Booking, error) {
	var b Booking
	if err := c.client.Get(ctx, token, "/bookings/"+id, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) ListBookings(ctx context.Context, token string, q ListQuery) (*List, error) {
	query := url.Values{}
	if q.SearchQuery != "" {
		query.Set("searchQuery", q.SearchQuery)
	}
	if q.BookingStatus != "" {
		query.Set("bookingStatus", q.BookingStatus)
	}
	if q.PaymentStatus != "" {
		query.Set("paymentStatus", q.PaymentStatus)
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}

	var list List
	if err := c.client.Get(ctx, token, "/bookings", query, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) CancelBooking(ctx context.Context, token, id, reason string) (*Booking, error) {
	query := url.Values{"reason": {reason}}

	var b Booking
	if err := c.client.Delete(ctx, token, "/bookings/"+id, query, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) GetPaymentIntent(ctx context.Context, token, intentID string) (*Intent, error) {
	var intent Intent
	if err := c.client.Get(ctx, token, "/payments/intent/"+intentID, nil, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
