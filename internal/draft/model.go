package draft

import (
	"time"
)

type Vehicle struct {
	ID             string `json:"id"`
	LicensePlate   string `json:"licensePlate"`
	MakeAndModel   string `json:"makeAndModel"`
	VehicleType    string `json:"vehicleType"`
	NumberOfPeople int    `json:"numberOfPeople"`
}

type AdditionalService struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
}

// Draft is the in-progress booking. It survives page navigations and is the
// single input to booking creation. Nullable fields stay nil until the user
// fills them in.
type Draft struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	IdempotencyKey string `json:"idempotencyKey"`

	ParkingID *string `json:"parkingId"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Timezone  string  `json:"timezone,omitempty"`

	SelectedServiceIDs []string            `json:"selectedServiceIds"`
	AdditionalServices []AdditionalService `json:"additionalServices"`

	OutboundFlight string    `json:"outboundFlight"`
	InboundFlight  string    `json:"inboundFlight"`
	Vehicles       []Vehicle `json:"vehicles"`

	Amount                   *float64 `json:"amount"`
	BaseParkingAmount        *float64 `json:"baseParkingAmount"`
	AdditionalServicesAmount *float64 `json:"additionalServicesAmount"`
	VehicleMultiplier        int      `json:"vehicleMultiplier"`

	BookingID *string `json:"bookingId,omitempty"`
	Paid      bool    `json:"paid"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// Patch carries the fields of a setBookingDetails call. Nil means "leave
// unchanged"; a pointer to a zero value overwrites.
type Patch struct {
	ParkingID *string `json:"parkingId"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	Timezone  *string `json:"timezone"`

	SelectedServiceIDs *[]string            `json:"selectedServiceIds"`
	AdditionalServices *[]AdditionalService `json:"additionalServices"`

	OutboundFlight *string    `json:"outboundFlight"`
	InboundFlight  *string    `json:"inboundFlight"`
	Vehicles       *[]Vehicle `json:"vehicles"`

	BaseParkingAmount        *float64 `json:"baseParkingAmount"`
	AdditionalServicesAmount *float64 `json:"additionalServicesAmount"`
}

// apply merges the patch into the draft and keeps the amount invariant:
// amount = (baseParkingAmount + additionalServicesAmount) * vehicleMultiplier
// with the multiplier applying to base and add-ons identically per vehicle.
func (d *Draft) apply(p Patch) {
	if p.ParkingID != nil {
		d.ParkingID = p.ParkingID
	}
	if p.StartDate != nil {
		d.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		d.EndDate = p.EndDate
	}
	if p.Timezone != nil {
		d.Timezone = *p.Timezone
	}
	if p.SelectedServiceIDs != nil {
		d.SelectedServiceIDs = *p.SelectedServiceIDs
	}
	if p.AdditionalServices != nil {
		d.AdditionalServices = *p.AdditionalServices
	}
	if p.OutboundFlight != nil {
		d.OutboundFlight = *p.OutboundFlight
	}
	if p.InboundFlight != nil {
		d.InboundFlight = *p.InboundFlight
	}
	if p.Vehicles != nil {
		d.Vehicles = *p.Vehicles
	}
	if p.BaseParkingAmount != nil {
		d.BaseParkingAmount = p.BaseParkingAmount
	}
	if p.AdditionalServicesAmount != nil {
		d.AdditionalServicesAmount = p.AdditionalServicesAmount
	} else if p.AdditionalServices != nil {
		// The add-on total follows the selected add-ons unless the caller
		// supplied it explicitly.
		sum := 0.0
		for _, s := range d.AdditionalServices {
			sum += s.Price
		}
		d.AdditionalServicesAmount = &sum
	}

	d.VehicleMultiplier = len(d.Vehicles)
	if d.VehicleMultiplier < 1 {
		d.VehicleMultiplier = 1
	}
	d.recomputeAmount()
}

func (d *Draft) recomputeAmount() {
	if d.BaseParkingAmount == nil || d.AdditionalServicesAmount == nil {
		return
	}
	amount := (*d.BaseParkingAmount + *d.AdditionalServicesAmount) * float64(d.VehicleMultiplier)
	d.Amount = &amount
}

// reset returns the draft to its empty state, keeping the identity but
// issuing a fresh idempotency key for the next flow.
func (d *Draft) reset(newKey string) {
	*d = Draft{
		ID:                d.ID,
		UserID:            d.UserID,
		IdempotencyKey:    newKey,
		VehicleMultiplier: 1,
	}
}
