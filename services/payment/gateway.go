// Package payment fronts the external payment gateway. Only card payments
// reach a real processor (Stripe payment intents); upi and netbanking return a
// simulated redirect, and cash never comes here at all.
package payment

import (
	"context"
	"fmt"

	"drutaseva/models"
	"drutaseva/utils"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// Gateway initiates the external payment step for non-cash methods.
type Gateway interface {
	InitiatePayment(ctx context.Context, method models.PaymentMethod, amountRupees int, reference string) (*models.GatewayHandoff, error)
}

// StripeGateway implements Gateway. The Stripe API key is set globally in main.
type StripeGateway struct {
	Logger *zap.Logger
}

func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{Logger: logger}
}

// InitiatePayment returns the handoff details for the requested method.
func (g *StripeGateway) InitiatePayment(ctx context.Context, method models.PaymentMethod, amountRupees int, reference string) (*models.GatewayHandoff, error) {
	switch method {
	case models.PaymentCard:
		return g.cardIntent(amountRupees, reference)
	case models.PaymentUPI, models.PaymentNetBanking:
		// No processor integration for these rails; hand back a hosted-page
		// redirect the way the gateway sandbox does.
		return &models.GatewayHandoff{
			Method:      method,
			Reference:   reference,
			RedirectURL: fmt.Sprintf("https://pay.drutaseva.example/%s/%s", method, reference),
		}, nil
	case models.PaymentCash:
		return nil, fmt.Errorf("cash payments do not use the gateway")
	default:
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}
}

func (g *StripeGateway) cardIntent(amountRupees int, reference string) (*models.GatewayHandoff, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amountRupees) * 100), // paise
		Currency: stripe.String(string(stripe.CurrencyINR)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("DrutaSeva ambulance booking"),
	}
	params.AddMetadata("bookingSession", reference)
	params.AddMetadata("currency", utils.Currency)

	pi, err := paymentintent.New(params)
	if err != nil {
		g.Logger.Error("failed to create payment intent", zap.String("reference", reference), zap.Error(err))
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &models.GatewayHandoff{
		Method:       models.PaymentCard,
		Reference:    reference,
		ClientSecret: pi.ClientSecret,
	}, nil
}
