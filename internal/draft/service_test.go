package draft

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string       { return &s }
func floatPtr(f float64) *float64   { return &f }
func vehiclesPtr(v []Vehicle) *[]Vehicle { return &v }

func newTestService(t *testing.T) (*Service, *Draft) {
	svc := NewService(NewMemoryStore())
	d, err := svc.CreateDraft(context.Background(), "user-1")
	require.NoError(t, err)
	return svc, d
}

func TestCreateDraft(t *testing.T) {
	svc, d := newTestService(t)

	assert.NotEmpty(t, d.ID)
	assert.NotEmpty(t, d.IdempotencyKey)
	assert.Equal(t, "user-1", d.UserID)
	assert.Equal(t, 1, d.VehicleMultiplier)
	assert.Nil(t, d.ParkingID)
	assert.Nil(t, d.Amount)

	got, err := svc.GetDraft(context.Background(), "user-1", d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestSetBookingDetailsMergesPartially(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetBookingDetails(ctx, "user-1", d.ID, Patch{
		ParkingID:      strPtr("p1"),
		OutboundFlight: strPtr("LH123"),
	})
	require.NoError(t, err)

	// A later patch must leave unrelated fields untouched.
	got, err := svc.SetBookingDetails(ctx, "user-1", d.ID, Patch{
		StartDate: strPtr("2024-06-01T10:00:00"),
		Vehicles: vehiclesPtr([]Vehicle{
			{ID: "v1", LicensePlate: "B-AB 1234", MakeAndModel: "VW Golf", VehicleType: "sedan", NumberOfPeople: 2},
			{ID: "v2", LicensePlate: "B-CD 5678", MakeAndModel: "Audi A4", VehicleType: "sedan", NumberOfPeople: 3},
		}),
	})
	require.NoError(t, err)

	assert.Equal(t, "p1", *got.ParkingID)
	assert.Equal(t, "LH123", got.OutboundFlight)
	assert.Equal(t, "2024-06-01T10:00:00", *got.StartDate)
	assert.Len(t, got.Vehicles, 2)
	assert.Equal(t, 2, got.VehicleMultiplier)
}

func TestAmountInvariant(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()

	got, err := svc.SetBookingDetails(ctx, "user-1", d.ID, Patch{
		BaseParkingAmount:        floatPtr(40),
		AdditionalServicesAmount: floatPtr(10),
	})
	require.NoError(t, err)
	require.NotNil(t, got.Amount)
	assert.Equal(t, float64(50), *got.Amount)

	// Adding vehicles multiplies base and add-ons identically per vehicle.
	got, err = svc.SetBookingDetails(ctx, "user-1", d.ID, Patch{
		Vehicles: vehiclesPtr([]Vehicle{
			{ID: "v1", LicensePlate: "A", MakeAndModel: "X", VehicleType: "suv", NumberOfPeople: 1},
			{ID: "v2", LicensePlate: "B", MakeAndModel: "Y", VehicleType: "van", NumberOfPeople: 1},
			{ID: "v3", LicensePlate: "C", MakeAndModel: "Z", VehicleType: "sedan", NumberOfPeople: 1},
		}),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, got.VehicleMultiplier)
	assert.Equal(t, float64(150), *got.Amount)

	// Removing all vehicles falls back to a multiplier of one.
	got, err = svc.SetBookingDetails(ctx, "user-1", d.ID, Patch{
		Vehicles: vehiclesPtr([]Vehicle{}),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.VehicleMultiplier)
	assert.Equal(t, float64(50), *got.Amount)
}

func TestAmountStaysUnsetUntilBothPartsKnown(t *testing.T) {
	svc, d := newTestService(t)

	got, err := svc.SetBookingDetails(context.Background(), "user-1", d.ID, Patch{
		BaseParkingAmount: floatPtr(40),
	})
	require.NoError(t, err)
	assert.Nil(t, got.Amount)
}

func TestAdditionalServicesAmountDerived(t *testing.T) {
	svc, d := newTestService(t)

	got, err := svc.SetBookingDetails(context.Background(), "user-1", d.ID, Patch{
		BaseParkingAmount: floatPtr(40),
		AdditionalServices: &[]AdditionalService{
			{ID: "s1", Name: "Car wash", Price: 15},
			{ID: "s2", Name: "EV charging", Price: 5},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, got.AdditionalServicesAmount)
	assert.Equal(t, float64(20), *got.AdditionalServicesAmount)
	require.NotNil(t, got.Amount)
	assert.Equal(t, float64(60), *got.Amount)
}

func TestSetBookingDetailsStampsTimestamp(t *testing.T) {
	svc, d := newTestService(t)

	got, err := svc.SetBookingDetails(context.Background(), "user-1", d.ID, Patch{ParkingID: strPtr("p1")})
	require.NoError(t, err)
	assert.False(t, got.UpdatedAt.Before(d.UpdatedAt))
}

func TestClearBooking(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetBookingDetails(ctx, "user-1", d.ID, Patch{
		ParkingID:                strPtr("p1"),
		BaseParkingAmount:        floatPtr(40),
		AdditionalServicesAmount: floatPtr(10),
	})
	require.NoError(t, err)

	cleared, err := svc.ClearBooking(ctx, "user-1", d.ID)
	require.NoError(t, err)

	assert.Equal(t, d.ID, cleared.ID)
	assert.Nil(t, cleared.ParkingID)
	assert.Nil(t, cleared.Amount)
	assert.Empty(t, cleared.Vehicles)
	// A cleared draft is a new flow: a new idempotency key.
	assert.NotEqual(t, d.IdempotencyKey, cleared.IdempotencyKey)
}

func TestOwnership(t *testing.T) {
	svc, d := newTestService(t)

	_, err := svc.GetDraft(context.Background(), "user-2", d.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.SetBookingDetails(context.Background(), "user-2", d.ID, Patch{ParkingID: strPtr("p1")})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRecordBookingAndMarkPaid(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.RecordBooking(ctx, "user-1", d.ID, "bk-1"))
	require.NoError(t, svc.MarkPaid(ctx, "user-1", d.ID))

	got, err := svc.GetDraft(ctx, "user-1", d.ID)
	require.NoError(t, err)
	require.NotNil(t, got.BookingID)
	assert.Equal(t, "bk-1", *got.BookingID)
	assert.True(t, got.Paid)
}

func TestGetDraftNotFound(t *testing.T) {
	svc := NewService(NewMemoryStore())

	_, err := svc.GetDraft(context.Background(), "user-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiscard(t *testing.T) {
	svc, d := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Discard(ctx, "user-1", d.ID))

	_, err := svc.GetDraft(ctx, "user-1", d.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Discarding respects ownership like every other operation.
	svc2, d2 := newTestService(t)
	assert.ErrorIs(t, svc2.Discard(ctx, "user-2", d2.ID), ErrForbidden)
}
