package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iamkashifkhn/parkfinder-consumer/internal/logger"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/metrics"
	"github.com/iamkashifkhn/parkfinder-consumer/internal/upstream"
)

// LocalTimeLayout is the offset-free timestamp format the upstream expects.
// Timestamps are interpreted in the supplied IANA time zone.
const LocalTimeLayout = "2006-01-02T15:04:05"

var (
	ErrBadTimezone    = errors.New("unknown time zone")
	ErrBadTimestamp   = errors.New("timestamps must be formatted as 2006-01-02T15:04:05")
	ErrInvalidRange   = errors.New("start must be before end")
	ErrMalformedQuote = errors.New("upstream quote does not cover the requested range")
)

type Service struct {
	client   *upstream.Client
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewService builds the quote service. cache may be nil, in which case every
// quote goes to the upstream.
func NewService(client *upstream.Client, cache *redis.Client, cacheTTL time.Duration) *Service {
	return &Service{client: client, cache: cache, cacheTTL: cacheTTL}
}

// Quote asks the upstream for the total amount and price segments of a
// parking window. Any upstream failure is returned to the caller, which must
// not display a price and must keep the booking action disabled.
func (s *Service) Quote(ctx context.Context, token, parkingID, timezone, startAt, endAt string) (*Quote, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTimezone, timezone)
	}

	start, err := time.ParseInLocation(LocalTimeLayout, startAt, loc)
	if err != nil {
		return nil, ErrBadTimestamp
	}
	end, err := time.ParseInLocation(LocalTimeLayout, endAt, loc)
	if err != nil {
		return nil, ErrBadTimestamp
	}
	if !start.Before(end) {
		return nil, ErrInvalidRange
	}

	cacheKey := fmt.Sprintf("quote:%s:%s:%s:%s", parkingID, timezone, startAt, endAt)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		metrics.RecordQuoteCache("hit")
		return cached, nil
	}
	metrics.RecordQuoteCache("miss")

	query := url.Values{
		"timezone": {timezone},
		"startAt":  {startAt},
		"endAt":    {endAt},
	}

	var quote Quote
	if err := s.client.Get(ctx, token, "/parking/space/amount/"+parkingID, query, &quote); err != nil {
		metrics.RecordQuote("error")
		return nil, err
	}

	if quote.IsAvailable {
		if err := verifySegments(quote.PriceSegments, start, end, loc); err != nil {
			metrics.RecordQuote("error")
			return nil, err
		}
		metrics.RecordQuote("ok")
	} else {
		metrics.RecordQuote("unavailable")
	}

	s.toCache(ctx, cacheKey, &quote)
	return &quote, nil
}

// verifySegments checks the segments are ordered, gap-free and span the
// requested window.
func verifySegments(segments []PriceSegment, start, end time.Time, loc *time.Location) error {
	if len(segments) == 0 {
		return fmt.Errorf("%w: no price segments", ErrMalformedQuote)
	}

	cursor := start
	for i, seg := range segments {
		segStart, err := time.ParseInLocation(LocalTimeLayout, seg.StartTime, loc)
		if err != nil {
			return fmt.Errorf("%w: segment %d has bad start time", ErrMalformedQuote, i)
		}
		segEnd, err := time.ParseInLocation(LocalTimeLayout, seg.EndTime, loc)
		if err != nil {
			return fmt.Errorf("%w: segment %d has bad end time", ErrMalformedQuote, i)
		}
		if !segStart.Equal(cursor) {
			return fmt.Errorf("%w: gap or overlap before segment %d", ErrMalformedQuote, i)
		}
		if !segStart.Before(segEnd) {
			return fmt.Errorf("%w: segment %d is empty or inverted", ErrMalformedQuote, i)
		}
		if seg.PricePerDay < 0 {
			return fmt.Errorf("%w: segment %d has negative rate", ErrMalformedQuote, i)
		}
		cursor = segEnd
	}
	if !cursor.Equal(end) {
		return fmt.Errorf("%w: segments stop before the requested end", ErrMalformedQuote)
	}
	return nil
}

func (s *Service) fromCache(ctx context.Context, key string) *Quote {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Error("quote cache read failed", "error", err)
		}
		return nil
	}
	var quote Quote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil
	}
	return &quote
}

func (s *Service) toCache(ctx context.Context, key string, quote *Quote) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		logger.Error("quote cache write failed", "error", err)
	}
}
