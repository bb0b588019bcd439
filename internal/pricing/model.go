package pricing

// PriceSegment is a sub-interval of the booking window with its own daily
// rate. Segments are owned by the backend; the client only verifies they tile
// the requested window.
type PriceSegment struct {
	StartTime   string  `json:"startTime"`
	EndTime     string  `json:"endTime"`
	PricePerDay float64 `json:"pricePerDay"`
}

// Quote is the priced answer for a location and date range. When IsAvailable
// is false capacity is exhausted for the window and booking must stay
// disabled.
type Quote struct {
	TotalAmount   float64        `json:"totalAmount"`
	IsAvailable   bool           `json:"isAvailable"`
	PriceSegments []PriceSegment `json:"priceSegments"`
}
