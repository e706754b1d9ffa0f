package booking

import (
	"context"
	"testing"

	"drutaseva/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBookingRepo struct {
	created []*models.Booking
}

func (f *fakeBookingRepo) Create(b *models.Booking) error { f.created = append(f.created, b); return nil }
func (f *fakeBookingRepo) GetByID(id string) (*models.Booking, error) {
	for _, b := range f.created {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}
func (f *fakeBookingRepo) GetActiveByUser(userID string) (*models.Booking, error) { return nil, nil }
func (f *fakeBookingRepo) ListByUser(userID string) ([]models.Booking, error)     { return nil, nil }
func (f *fakeBookingRepo) UpdateStatus(id string, status models.BookingStatus) error {
	return nil
}

type responderFunc func(ctx context.Context, session *models.BookingSession) (*models.Booking, error)

func (f responderFunc) Dispatch(ctx context.Context, session *models.BookingSession) (*models.Booking, error) {
	return f(ctx, session)
}

// instantResponder acknowledges immediately with the session's vehicle.
func instantResponder() responderFunc {
	return func(_ context.Context, session *models.BookingSession) (*models.Booking, error) {
		return &models.Booking{
			ID:             "BK-TEST0001",
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
		}, nil
	}
}

type gatewayFunc func(ctx context.Context, method models.PaymentMethod, amountRupees int, reference string) (*models.GatewayHandoff, error)

func (f gatewayFunc) InitiatePayment(ctx context.Context, method models.PaymentMethod, amountRupees int, reference string) (*models.GatewayHandoff, error) {
	return f(ctx, method, amountRupees, reference)
}

type fakeScheduler struct {
	scheduled []string
}

func (f *fakeScheduler) ScheduleProgress(bookingID string, current models.BookingStatus) error {
	f.scheduled = append(f.scheduled, bookingID)
	return nil
}

func newTestService(t *testing.T) (*DefaultWizardService, *fakeBookingRepo, *fakeScheduler) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := &fakeBookingRepo{}
	sched := &fakeScheduler{}
	svc := &DefaultWizardService{
		Cache:     client,
		Repo:      repo,
		Responder: instantResponder(),
		Gateway: gatewayFunc(func(_ context.Context, method models.PaymentMethod, amount int, ref string) (*models.GatewayHandoff, error) {
			return &models.GatewayHandoff{Method: method, Reference: "gw_" + ref, RedirectURL: "https://pay.example/" + ref}, nil
		}),
		Scheduler: sched,
		Logger:    zap.NewNop(),
	}
	return svc, repo, sched
}

func TestStartSessionBeginsAtLocationStep(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, models.StageLocation, session.Stage)
	assert.False(t, session.HasLocation())
	assert.False(t, session.HasService())
}

func TestSelectAmbulanceRequiresLocation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.SelectAmbulance(ctx, session.SessionID, "basic")
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfirmPaymentRequiresService(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, session.SessionID, models.PaymentCash)
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestConfirmPaymentRejectsUnknownMethod(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(ctx, session.SessionID, models.PaymentMethod("crypto"))
	if !IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCashBookingDispatchesImmediately(t *testing.T) {
	svc, repo, sched := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)

	session, err = svc.SelectAmbulance(ctx, session.SessionID, "advanced")
	require.NoError(t, err)
	assert.Equal(t, 2500, session.Price)
	assert.Equal(t, models.StagePayment, session.Stage)
	require.NotNil(t, session.Vehicle)

	outcome, err := svc.ConfirmPayment(ctx, session.SessionID, models.PaymentCash)
	require.NoError(t, err)
	require.NotNil(t, outcome.Booking)
	assert.Nil(t, outcome.Handoff)
	assert.Equal(t, models.StatusOnWay, outcome.Booking.Status)
	assert.Equal(t, 2500, outcome.Booking.Price)

	require.Len(t, repo.created, 1)
	assert.Equal(t, []string{outcome.Booking.ID}, sched.scheduled)

	// The draft is gone once the booking is confirmed.
	_, err = svc.GetSession(ctx, session.SessionID)
	if !IsSessionExpired(err) {
		t.Fatalf("expected expired session after confirmation, got %v", err)
	}
}

func TestNonCashPaymentReturnsGatewayHandoff(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)
	_, err = svc.SelectAmbulance(ctx, session.SessionID, "basic")
	require.NoError(t, err)

	outcome, err := svc.ConfirmPayment(ctx, session.SessionID, models.PaymentUPI)
	require.NoError(t, err)
	require.NotNil(t, outcome.Handoff)
	assert.Nil(t, outcome.Booking)
	assert.Empty(t, repo.created)

	// The gateway return leg completes the booking.
	confirmed, err := svc.CompleteGatewayPayment(ctx, session.SessionID, outcome.Handoff.Reference)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOnWay, confirmed.Status)
	require.Len(t, repo.created, 1)
}

func TestGatewayCompletionRequiresMatchingReference(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)
	_, err = svc.SelectAmbulance(ctx, session.SessionID, "basic")
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, session.SessionID, models.PaymentCard)
	require.NoError(t, err)

	_, err = svc.CompleteGatewayPayment(ctx, session.SessionID, "gw_someone_else")
	if !IsConflict(err) {
		t.Fatalf("expected conflict for mismatched gateway reference, got %v", err)
	}
}

func TestStaleDispatchIsDiscarded(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)
	_, err = svc.SelectAmbulance(ctx, session.SessionID, "critical")
	require.NoError(t, err)

	// The rider cancels while the dispatch acknowledgment is still in flight.
	inner := instantResponder()
	svc.Responder = responderFunc(func(ctx context.Context, s *models.BookingSession) (*models.Booking, error) {
		if err := svc.CancelSession(ctx, s.SessionID); err != nil {
			return nil, err
		}
		return inner(ctx, s)
	})

	_, err = svc.ConfirmPayment(ctx, session.SessionID, models.PaymentCash)
	if !IsSessionExpired(err) {
		t.Fatalf("expected stale dispatch to be discarded, got %v", err)
	}
	assert.Empty(t, repo.created, "a cancelled draft must never turn into a booking")
}

func TestConfirmPaymentConflictsWhileInFlight(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)
	_, err = svc.SelectAmbulance(ctx, session.SessionID, "basic")
	require.NoError(t, err)

	// A second confirm arriving mid-dispatch must be rejected, not doubled.
	var second error
	inner := instantResponder()
	svc.Responder = responderFunc(func(ctx context.Context, s *models.BookingSession) (*models.Booking, error) {
		_, second = svc.ConfirmPayment(ctx, s.SessionID, models.PaymentCash)
		return inner(ctx, s)
	})

	_, err = svc.ConfirmPayment(ctx, session.SessionID, models.PaymentCash)
	require.NoError(t, err)
	if !IsConflict(second) {
		t.Fatalf("expected conflict for concurrent confirm, got %v", second)
	}
}

func TestDispatchFailureClearsInFlightForRetry(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)
	_, err = svc.SelectAmbulance(ctx, session.SessionID, "basic")
	require.NoError(t, err)

	svc.Responder = responderFunc(func(context.Context, *models.BookingSession) (*models.Booking, error) {
		return nil, assert.AnError
	})

	_, err = svc.ConfirmPayment(ctx, session.SessionID, models.PaymentCash)
	if !IsDispatchFailed(err) {
		t.Fatalf("expected dispatch failure, got %v", err)
	}
	assert.Empty(t, repo.created)

	// The draft survives and the rider can retry.
	svc.Responder = instantResponder()
	outcome, err := svc.ConfirmPayment(ctx, session.SessionID, models.PaymentCash)
	require.NoError(t, err)
	require.NotNil(t, outcome.Booking)
}

func TestSetLocationOverwritesSingleDraft(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, "user-1")
	require.NoError(t, err)

	first, err := svc.SetLocation(ctx, session.SessionID, "123 Main St", "City Hospital")
	require.NoError(t, err)
	second, err := svc.SetLocation(ctx, session.SessionID, "456 Hospital Ave", "Trauma Center")
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "456 Hospital Ave", second.PickupLocation)
	assert.Equal(t, "Trauma Center", second.Destination)
}

func TestExpiredSessionReturnsSessionExpired(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetLocation(ctx, "missing-session", "123 Main St", "City Hospital")
	if !IsSessionExpired(err) {
		t.Fatalf("expected session expired, got %v", err)
	}
}
