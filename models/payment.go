package models

// PaymentMethod enumerates how a rider pays for a booking.
type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
)

// Valid reports whether m is one of the supported methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentUPI, PaymentNetBanking:
		return true
	}
	return false
}

// Immediate reports whether the method confirms without a gateway handoff.
func (m PaymentMethod) Immediate() bool {
	return m == PaymentCash
}

// GatewayHandoff describes the external payment step a non-cash method requires.
type GatewayHandoff struct {
	Method       PaymentMethod `json:"method"`
	Reference    string        `json:"reference"`
	RedirectURL  string        `json:"redirectUrl,omitempty"`
	ClientSecret string        `json:"clientSecret,omitempty"`
}
