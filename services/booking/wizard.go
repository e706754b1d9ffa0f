// File: services/booking/wizard.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"drutaseva/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	sessionPrefix = "bookingSession:"
	sessionTTL    = 15 * time.Minute
)

func (s *DefaultWizardService) loadSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.Cache.Get(ctx, sessionPrefix+sessionID).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, NewSessionExpiredError()
		}
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *DefaultWizardService) saveSession(ctx context.Context, session *models.BookingSession) error {
	session.LastUpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, sessionPrefix+session.SessionID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

// StartSession creates an empty draft at the location step. One wizard attempt
// maps to one session; abandoning it simply lets the TTL reap the draft.
func (s *DefaultWizardService) StartSession(ctx context.Context, userID string) (*models.BookingSession, error) {
	session := &models.BookingSession{
		SessionID:     uuid.New().String(),
		UserID:        userID,
		Stage:         models.StageLocation,
		DispatchToken: uuid.New().String(),
		CreatedAt:     time.Now(),
	}
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns the current draft.
func (s *DefaultWizardService) GetSession(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.loadSession(ctx, sessionID)
}

// SetLocation records pickup and destination and moves the draft to the
// service step. Calling it again (backward navigation) just overwrites the
// fields; the same draft is mutated, never a second one created.
func (s *DefaultWizardService) SetLocation(ctx context.Context, sessionID, pickup, destination string) (*models.BookingSession, error) {
	pickup = strings.TrimSpace(pickup)
	destination = strings.TrimSpace(destination)
	if pickup == "" {
		return nil, NewValidationError("pickupLocation", "pickup location is required")
	}
	if destination == "" {
		return nil, NewValidationError("destination", "destination is required")
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.AwaitingGateway {
		return nil, NewConflictError("payment is awaiting gateway confirmation")
	}

	session.PickupLocation = pickup
	session.Destination = destination
	session.Stage = models.StageService

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// SelectAmbulance attaches a catalog tier to the draft. The location step is
// re-validated here rather than trusting the stored stage, so a draft whose
// location was cleared cannot sneak through.
func (s *DefaultWizardService) SelectAmbulance(ctx context.Context, sessionID, serviceType string) (*models.BookingSession, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasLocation() {
		return nil, NewValidationError("pickupLocation", "select pickup and destination first")
	}
	if session.AwaitingGateway {
		return nil, NewConflictError("payment is awaiting gateway confirmation")
	}

	option, err := LookupAmbulance(serviceType)
	if err != nil {
		return nil, err
	}

	// Price and vehicle come from the catalog, never the client.
	session.ServiceType = option.ID
	session.AmbulanceName = option.Name
	session.Price = option.Price
	session.EstimatedTime = option.EstimatedTime
	session.Vehicle = &models.AssignedVehicle{
		PlateNumber:   option.PlateNumber,
		DriverName:    option.DriverName,
		DriverContact: option.DriverContact,
	}
	session.Stage = models.StagePayment

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ConfirmPayment finalizes the payment step. Cash dispatches immediately; any
// other method hands off to the payment gateway and the wizard stays open
// until CompleteGatewayPayment.
func (s *DefaultWizardService) ConfirmPayment(ctx context.Context, sessionID string, method models.PaymentMethod) (*models.WizardOutcome, error) {
	if !method.Valid() {
		return nil, NewValidationError("paymentMethod", "select a payment method")
	}

	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasLocation() {
		return nil, NewValidationError("pickupLocation", "select pickup and destination first")
	}
	if !session.HasService() {
		return nil, NewValidationError("serviceType", "select an ambulance service first")
	}
	if session.InFlight {
		return nil, NewConflictError("a submission is already in flight for this booking")
	}
	if session.AwaitingGateway {
		return nil, NewConflictError("payment is awaiting gateway confirmation")
	}

	session.PaymentMethod = method

	switch {
	case method.Immediate():
		session.InFlight = true
		if err := s.saveSession(ctx, session); err != nil {
			return nil, err
		}
		booking, err := s.dispatch(ctx, session)
		if err != nil {
			// Clear the guard so the rider can retry; the server failing is
			// never allowed to strand them without options.
			session.InFlight = false
			if saveErr := s.saveSession(ctx, session); saveErr != nil {
				s.Logger.Error("failed to clear in-flight flag", zap.Error(saveErr))
			}
			return nil, err
		}
		return &models.WizardOutcome{Booking: booking}, nil

	default:
		handoff, err := s.Gateway.InitiatePayment(ctx, method, session.Price, session.SessionID)
		if err != nil {
			return nil, NewDispatchError(fmt.Sprintf("payment initiation failed: %v", err))
		}
		session.AwaitingGateway = true
		session.GatewayRef = handoff.Reference
		if err := s.saveSession(ctx, session); err != nil {
			return nil, err
		}
		return &models.WizardOutcome{Handoff: handoff}, nil
	}
}

// CompleteGatewayPayment is the gateway's return leg: once the external
// payment confirms, the draft dispatches exactly like a cash booking.
func (s *DefaultWizardService) CompleteGatewayPayment(ctx context.Context, sessionID, gatewayRef string) (*models.Booking, error) {
	session, err := s.loadSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.AwaitingGateway || session.GatewayRef != gatewayRef {
		return nil, NewConflictError("no matching gateway payment for this session")
	}
	if session.InFlight {
		return nil, NewConflictError("a submission is already in flight for this booking")
	}

	session.InFlight = true
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	booking, err := s.dispatch(ctx, session)
	if err != nil {
		session.InFlight = false
		if saveErr := s.saveSession(ctx, session); saveErr != nil {
			s.Logger.Error("failed to clear in-flight flag", zap.Error(saveErr))
		}
		return nil, err
	}
	return booking, nil
}

// dispatch runs the responder, then re-reads the session before persisting so
// a delayed acknowledgment for a cancelled draft is discarded instead of
// resurrecting it.
func (s *DefaultWizardService) dispatch(ctx context.Context, session *models.BookingSession) (*models.Booking, error) {
	token := session.DispatchToken

	booking, err := s.Responder.Dispatch(ctx, session)
	if err != nil {
		return nil, NewDispatchError(fmt.Sprintf("dispatch failed: %v", err))
	}

	current, err := s.loadSession(ctx, session.SessionID)
	if err != nil || current.DispatchToken != token {
		s.Logger.Warn("discarding stale dispatch result",
			zap.String("session", session.SessionID))
		return nil, NewSessionExpiredError()
	}

	if err := s.Repo.Create(booking); err != nil {
		return nil, NewDispatchError(fmt.Sprintf("failed to record booking: %v", err))
	}

	if s.Scheduler != nil {
		if err := s.Scheduler.ScheduleProgress(booking.ID, booking.Status); err != nil {
			s.Logger.Warn("failed to schedule status progression",
				zap.String("booking", booking.ID), zap.Error(err))
		}
	}

	if err := s.Cache.Del(ctx, sessionPrefix+session.SessionID).Err(); err != nil {
		s.Logger.Warn("failed to clear booking session", zap.Error(err))
	}
	return booking, nil
}

// CancelSession discards the draft. Deleting the key doubles as the stale
// completion guard: any dispatch still sleeping will fail its token re-check.
func (s *DefaultWizardService) CancelSession(ctx context.Context, sessionID string) error {
	if err := s.Cache.Del(ctx, sessionPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}
