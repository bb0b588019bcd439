package booking

// Status is the server-owned booking lifecycle state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

type Refund struct {
	ID          string  `json:"id"`
	PaymentID   string  `json:"paymentId"`
	Amount      string  `json:"amount"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	CompletedAt *string `json:"completedAt"`
}

type Payment struct {
	ID              string        `json:"id"`
	BookingID       string        `json:"bookingId"`
	Amount          string        `json:"amount"`
	Currency        string        `json:"currency"`
	Status          PaymentStatus `json:"status"`
	PaymentIntentID *string       `json:"paymentIntentId"`
	PaymentMethod   *string       `json:"paymentMethod"`
	PaidAt          *string       `json:"paidAt"`
	ErrorCode       *string       `json:"errorCode"`
	ErrorMessage    *string       `json:"errorMessage"`
	Refunds         []Refund      `json:"refunds,omitempty"`
}

type BookingVehicle struct {
	ID                 string `json:"id"`
	BookingID          string `json:"bookingId"`
	LicensePlateNumber string `json:"licensePlateNumber"`
	MakeAndModel       string `json:"makeAndModel"`
	VehicleType        string `json:"vehicleType"`
	NumberOfPeople     int    `json:"numberOfPeople"`
}

type PriceSegment struct {
	ID          string `json:"id"`
	BookingID   string `json:"bookingId"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	PricePerDay string `json:"pricePerDay"`
}

type Review struct {
	ID        string   `json:"id"`
	BookingID string   `json:"bookingId"`
	Rating    int      `json:"rating"`
	Review    string   `json:"review"`
	Images    []string `json:"images"`
}

type ParkingLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// Booking is the authoritative record owned by the upstream. Amounts arrive
// as decimal strings and are passed through untouched except for the refund
// estimate, which parses the total locally.
type Booking struct {
	ID                   string           `json:"id"`
	BookingID            int64            `json:"bookingId"`
	UserID               string           `json:"userId"`
	ParkingLocationID    string           `json:"parkingLocationId"`
	StartTime            string           `json:"startTime"`
	EndTime              string           `json:"endTime"`
	Status               Status           `json:"status"`
	TotalAmount          string           `json:"totalAmount"`
	ParkingAmount        string           `json:"parkingAmount"`
	FeaturesAmount       string           `json:"featuresAmount"`
	CancellationReason   *string          `json:"cancellationReason"`
	OutboundFlightNumber string           `json:"outboundFlightNumber"`
	InboundFlightNumber  string           `json:"inboundFlightNumber"`
	ParkingLocation      *ParkingLocation `json:"parkingLocation,omitempty"`
	Vehicles             []BookingVehicle `json:"vehicles"`
	PriceSegments        []PriceSegment   `json:"parkingPriceSegments,omitempty"`
	Payments             []Payment        `json:"payments,omitempty"`
	Review               *Review          `json:"review,omitempty"`
	CreatedAt            string           `json:"createdAt"`
	UpdatedAt            string           `json:"updatedAt"`
}

// CompletedPayment returns the payment that settled this booking, if any.
func (b *Booking) CompletedPayment() *Payment {
	for i := range b.Payments {
		if b.Payments[i].Status == PaymentCompleted {
			return &b.Payments[i]
		}
	}
	return nil
}

// PendingPayment returns the open payment awaiting confirmation, if any.
func (b *Booking) PendingPayment() *Payment {
	for i := range b.Payments {
		if b.Payments[i].Status == PaymentPending {
			return &b.Payments[i]
		}
	}
	return nil
}

// Paid reports whether any payment on the booking completed. "Pay Now" is
// offered exactly when this is false.
func (b *Booking) Paid() bool {
	return b.CompletedPayment() != nil
}

// PayloadVehicle is a draft vehicle mapped to the upstream's create contract.
type PayloadVehicle struct {
	LicensePlateNumber string   `json:"licensePlateNumber" validate:"required"`
	MakeAndModel       string   `json:"makeAndModel" validate:"required"`
	VehicleType        string   `json:"vehicleType" validate:"required,oneof=SEDAN SUV VAN TRUCK"`
	NumberOfPeople     int      `json:"numberOfPeople" validate:"min=1"`
	Features           []string `json:"features"`
}

// CreatePayload is the body of the upstream POST /bookings call. Validate
// tags enforce the preconditions checked before any network call.
type CreatePayload struct {
	StartTime         string           `json:"startTime" validate:"required"`
	EndTime           string           `json:"endTime" validate:"required"`
	ParkingLocationID string           `json:"parkingLocationId" validate:"required"`
	Vehicles          []PayloadVehicle `json:"vehicles" validate:"min=1,dive"`
	OutboundFlight    string           `json:"outboundFlightNumber"`
	InboundFlight     string           `json:"inboundFlightNumber"`
	Timezone          string           `json:"timezone" validate:"required"`
}

// IntentPayment is the payment-intent summary returned alongside a created
// booking. ClientSecret is handed to the processor's client library.
type IntentPayment struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// CreateResponse is the atomic booking-plus-intent result of the upstream.
type CreateResponse struct {
	Booking Booking       `json:"booking"`
	Payment IntentPayment `json:"payment"`
}

// Intent is the processor payment-intent as exposed by the upstream.
type Intent struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	ClientSecret string `json:"client_secret"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// List is a paginated booking listing.
type List struct {
	Data []Booking `json:"data"`
	Meta ListMeta  `json:"meta"`
}

type ListMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}
