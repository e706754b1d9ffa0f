package booking

import (
	"context"

	bookingRepo "drutaseva/database/repository/booking"
	"drutaseva/models"
	"drutaseva/services/dispatch"
	"drutaseva/services/payment"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// WizardService drives the booking wizard: location, then ambulance tier, then
// payment, ending in a confirmed dispatch.
type WizardService interface {
	StartSession(ctx context.Context, userID string) (*models.BookingSession, error)
	GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error)
	SetLocation(ctx context.Context, sessionID, pickup, destination string) (*models.BookingSession, error)
	SelectAmbulance(ctx context.Context, sessionID, serviceType string) (*models.BookingSession, error)
	ConfirmPayment(ctx context.Context, sessionID string, method models.PaymentMethod) (*models.WizardOutcome, error)
	CompleteGatewayPayment(ctx context.Context, sessionID, gatewayRef string) (*models.Booking, error)
	CancelSession(ctx context.Context, sessionID string) error
}

// ProgressScheduler enqueues the simulated status progression for a freshly
// dispatched booking.
type ProgressScheduler interface {
	ScheduleProgress(bookingID string, current models.BookingStatus) error
}

// DefaultWizardService implements WizardService on the Redis session store.
type DefaultWizardService struct {
	Cache     *redis.Client
	Repo      bookingRepo.BookingRepository
	Responder dispatch.Responder
	Gateway   payment.Gateway
	Scheduler ProgressScheduler
	Logger    *zap.Logger
}
