// Package dispatch simulates the ambulance dispatch backend. Real vehicle
// assignment lives outside this system; the Responder interface is the seam a
// production dispatcher would plug into.
package dispatch

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"drutaseva/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Responder acknowledges a finalized draft with an assigned ambulance.
type Responder interface {
	Dispatch(ctx context.Context, session *models.BookingSession) (*models.Booking, error)
}

// SimulatedResponder models backend latency with a bounded random delay and
// supports deterministic failure injection for tests.
type SimulatedResponder struct {
	MinDelay time.Duration
	MaxDelay time.Duration
	Logger   *zap.Logger

	// FailureHook, when set, runs before the result is produced; returning a
	// non-nil error makes the dispatch fail.
	FailureHook func(session *models.BookingSession) error

	// Sleep can be replaced in tests with a synchronous stand-in.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewSimulatedResponder builds a responder with the given latency bounds.
func NewSimulatedResponder(minDelay, maxDelay time.Duration, logger *zap.Logger) *SimulatedResponder {
	return &SimulatedResponder{
		MinDelay: minDelay,
		MaxDelay: maxDelay,
		Logger:   logger,
	}
}

func (r *SimulatedResponder) delay() time.Duration {
	if r.MaxDelay <= r.MinDelay {
		return r.MinDelay
	}
	return r.MinDelay + time.Duration(rand.Int63n(int64(r.MaxDelay-r.MinDelay)))
}

func (r *SimulatedResponder) sleep(ctx context.Context, d time.Duration) error {
	if r.Sleep != nil {
		return r.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Dispatch waits out the simulated latency, then either fails (via the
// injection hook) or returns a booking with the catalog vehicle assigned and
// status on-way. Context cancellation aborts the wait so an abandoned wizard
// never receives a late acknowledgment.
func (r *SimulatedResponder) Dispatch(ctx context.Context, session *models.BookingSession) (*models.Booking, error) {
	if err := r.sleep(ctx, r.delay()); err != nil {
		return nil, fmt.Errorf("dispatch aborted: %w", err)
	}

	if r.FailureHook != nil {
		if err := r.FailureHook(session); err != nil {
			return nil, fmt.Errorf("dispatch rejected: %w", err)
		}
	}

	if session.Vehicle == nil {
		return nil, fmt.Errorf("dispatch requires a selected ambulance")
	}

	booking := &models.Booking{
		ID:             newBookingID(),
		UserID:         session.UserID,
		PickupLocation: session.PickupLocation,
		Destination:    session.Destination,
		ServiceType:    session.ServiceType,
		AmbulanceName:  session.AmbulanceName,
		Vehicle:        *session.Vehicle,
		PaymentMethod:  session.PaymentMethod,
		Price:          session.Price,
		Status:         models.StatusOnWay,
		EstimatedTime:  session.EstimatedTime,
		CreatedAt:      time.Now(),
	}

	if r.Logger != nil {
		r.Logger.Info("ambulance dispatched",
			zap.String("booking", booking.ID),
			zap.String("serviceType", booking.ServiceType),
			zap.String("plate", booking.Vehicle.PlateNumber))
	}
	return booking, nil
}

func newBookingID() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "BK-" + id[:8]
}
