package models

import "time"

// WizardStage names the step a booking draft has reached.
type WizardStage string

const (
	StageLocation  WizardStage = "location"
	StageService   WizardStage = "service"
	StagePayment   WizardStage = "payment"
	StageConfirmed WizardStage = "confirmed"
)

// BookingSession is the wizard draft held between steps. It lives in the
// session store for the duration of one booking attempt and is discarded on
// confirmation or cancel. Stage is advisory; every transition re-validates the
// fields it depends on instead of trusting it.
type BookingSession struct {
	SessionID      string           `json:"sessionId"`
	UserID         string           `json:"userId"`
	Stage          WizardStage      `json:"stage"`
	PickupLocation string           `json:"pickupLocation,omitempty"`
	Destination    string           `json:"destination,omitempty"`
	ServiceType    string           `json:"serviceType,omitempty"`
	AmbulanceName  string           `json:"ambulanceName,omitempty"`
	Vehicle        *AssignedVehicle `json:"vehicle,omitempty"`
	Price          int              `json:"price,omitempty"`
	EstimatedTime  string           `json:"estimatedTime,omitempty"`
	PaymentMethod  PaymentMethod    `json:"paymentMethod,omitempty"`

	// AwaitingGateway marks a non-cash draft handed off to the payment
	// gateway; GatewayRef ties the callback to this attempt.
	AwaitingGateway bool   `json:"awaitingGateway,omitempty"`
	GatewayRef      string `json:"gatewayRef,omitempty"`

	// InFlight guards against re-entrant dispatch triggers.
	InFlight bool `json:"inFlight,omitempty"`

	// DispatchToken ties a dispatch acknowledgment to this draft. The draft
	// is re-read after the responder returns; a missing draft or a token
	// mismatch discards the result, so a delayed acknowledgment can never
	// finalize a since-cancelled attempt.
	DispatchToken string `json:"dispatchToken"`

	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// HasLocation reports whether the location step is complete.
func (s *BookingSession) HasLocation() bool {
	return s.PickupLocation != "" && s.Destination != ""
}

// HasService reports whether an ambulance tier has been selected.
func (s *BookingSession) HasService() bool {
	return s.ServiceType != ""
}

// BookingIntent is a parked booking attempt saved when the auth gate denies
// entry; it is claimed exactly once after a successful login.
type BookingIntent struct {
	PickupLocation string    `json:"pickupLocation,omitempty"`
	Destination    string    `json:"destination,omitempty"`
	ServiceType    string    `json:"serviceType,omitempty"`
	SavedAt        time.Time `json:"savedAt"`
}

// WizardOutcome is what confirming the payment step yields: either a finalized
// booking (cash) or a gateway handoff the client must complete (card/upi/netbanking).
type WizardOutcome struct {
	Booking *Booking        `json:"booking,omitempty"`
	Handoff *GatewayHandoff `json:"handoff,omitempty"`
}
