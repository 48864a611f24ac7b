package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget_KnownTypes(t *testing.T) {
	for _, tt := range []TargetType{TargetGuide, TargetHotel, TargetVehicle, TargetTour, TargetCustomTrip} {
		d, err := ResolveTarget(tt)
		require.NoError(t, err, "type %s", tt)
		assert.NotEmpty(t, d.OwnerRole)
		assert.NotEmpty(t, d.DetailedCategories)
	}
}

func TestResolveTarget_Unknown(t *testing.T) {
	_, err := ResolveTarget(TargetType("restaurant"))
	assert.ErrorIs(t, err, ErrUnknownTargetType)

	_, err = ResolveTarget(TargetType(""))
	assert.ErrorIs(t, err, ErrUnknownTargetType)
}

func TestAllowsCategory(t *testing.T) {
	d, err := ResolveTarget(TargetHotel)
	require.NoError(t, err)

	assert.True(t, d.AllowsCategory("cleanliness"))
	assert.False(t, d.AllowsCategory("punctuality"))
}

func TestBookingReviewEligible(t *testing.T) {
	cases := []struct {
		status   BookingStatus
		payment  PaymentStatus
		eligible bool
	}{
		{BookingCompleted, PaymentPaid, true},
		{BookingCompleted, PaymentUnpaid, true},
		{BookingConfirmed, PaymentPaid, true},
		{BookingConfirmed, PaymentUnpaid, false},
		{BookingPending, PaymentUnpaid, false},
		{BookingPending, PaymentPaid, false},
		{BookingCancelled, PaymentRefunded, false},
	}

	for _, tc := range cases {
		b := &Booking{Status: tc.status, PaymentStatus: tc.payment}
		assert.Equal(t, tc.eligible, b.ReviewEligible(), "status=%s payment=%s", tc.status, tc.payment)
	}
}
