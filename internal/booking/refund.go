package booking

import (
	"strconv"
	"time"
)

// cancellationCutoff is the window before the parking start inside which a
// booking can no longer be cancelled.
const cancellationCutoff = 24

// RefundEstimate is the client-side preview of the refund tiers. The upstream
// is authoritative for the actual refunded amount; Estimate is always true to
// make that explicit to the frontend.
type RefundEstimate struct {
	Percentage int     `json:"percentage"`
	Amount     float64 `json:"amount"`
	Estimate   bool    `json:"estimate"`
}

func hoursUntil(start, now time.Time) int {
	return int(start.Sub(now).Hours())
}

// CanCancel reports whether cancellation is still allowed: only confirmed
// bookings, and strictly more than 24 hours before the start.
func CanCancel(status Status, start, now time.Time) bool {
	return status == StatusConfirmed && hoursUntil(start, now) > cancellationCutoff
}

// EstimateRefund computes the displayed refund: 100% above 72 hours before
// the start, 50% between 24 and 72 hours, nothing below 24.
func EstimateRefund(totalAmount float64, start, now time.Time) RefundEstimate {
	h := hoursUntil(start, now)

	switch {
	case h > 72:
		return RefundEstimate{Percentage: 100, Amount: totalAmount, Estimate: true}
	case h > 24:
		return RefundEstimate{Percentage: 50, Amount: totalAmount * 0.5, Estimate: true}
	default:
		return RefundEstimate{Percentage: 0, Amount: 0, Estimate: true}
	}
}

// EstimateRefundFor parses the booking's amounts and timestamps and returns
// the estimate, or nil when the booking cannot be cancelled anyway.
func EstimateRefundFor(b *Booking, now time.Time) *RefundEstimate {
	start, err := parseUpstreamTime(b.StartTime)
	if err != nil {
		return nil
	}
	if !CanCancel(b.Status, start, now) {
		return nil
	}
	total, err := strconv.ParseFloat(b.TotalAmount, 64)
	if err != nil {
		return nil
	}
	est := EstimateRefund(total, start, now)
	return &est
}

// parseUpstreamTime accepts the timestamp shapes the upstream emits.
func parseUpstreamTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", s)
}
