package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"drutaseva/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func paymentSession() *models.BookingSession {
	return &models.BookingSession{
		SessionID:      "sess-1",
		UserID:         "user-1",
		PickupLocation: "123 Main St",
		Destination:    "City Hospital",
		ServiceType:    "advanced",
		AmbulanceName:  "Advanced Life Support",
		Price:          2500,
		EstimatedTime:  "12 mins",
		PaymentMethod:  models.PaymentCash,
		Vehicle: &models.AssignedVehicle{
			PlateNumber:   "CA-789012",
			DriverName:    "Rajesh Kumar",
			DriverContact: "+91 98765 43211",
		},
	}
}

func TestDispatchWaitsWithinLatencyBounds(t *testing.T) {
	r := NewSimulatedResponder(500*time.Millisecond, 1500*time.Millisecond, zap.NewNop())

	var waited time.Duration
	r.Sleep = func(_ context.Context, d time.Duration) error {
		waited = d
		return nil
	}

	booking, err := r.Dispatch(context.Background(), paymentSession())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, waited, 500*time.Millisecond)
	assert.Less(t, waited, 1500*time.Millisecond)
	assert.Equal(t, models.StatusOnWay, booking.Status)
	assert.True(t, strings.HasPrefix(booking.ID, "BK-"), "booking ID %q", booking.ID)
}

func TestDispatchCopiesSessionFields(t *testing.T) {
	r := NewSimulatedResponder(0, 0, zap.NewNop())
	r.Sleep = func(context.Context, time.Duration) error { return nil }

	session := paymentSession()
	booking, err := r.Dispatch(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, session.UserID, booking.UserID)
	assert.Equal(t, session.Price, booking.Price)
	assert.Equal(t, session.ServiceType, booking.ServiceType)
	assert.Equal(t, session.Vehicle.PlateNumber, booking.Vehicle.PlateNumber)
	assert.Equal(t, session.PaymentMethod, booking.PaymentMethod)
}

func TestDispatchFailureInjection(t *testing.T) {
	r := NewSimulatedResponder(0, 0, zap.NewNop())
	r.Sleep = func(context.Context, time.Duration) error { return nil }
	r.FailureHook = func(*models.BookingSession) error {
		return errors.New("no units available")
	}

	_, err := r.Dispatch(context.Background(), paymentSession())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no units available")
}

func TestDispatchRequiresVehicle(t *testing.T) {
	r := NewSimulatedResponder(0, 0, zap.NewNop())
	r.Sleep = func(context.Context, time.Duration) error { return nil }

	session := paymentSession()
	session.Vehicle = nil

	_, err := r.Dispatch(context.Background(), session)
	require.Error(t, err)
}

func TestDispatchAbortsOnCancelledContext(t *testing.T) {
	r := NewSimulatedResponder(time.Hour, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Dispatch(ctx, paymentSession())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
