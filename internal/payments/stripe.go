package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker/v2"
	stripe "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/InnoTechCollege/StripeExample/domain"
)

// SessionCreator is the narrow surface the checkout flow needs from the
// payment processor.
type SessionCreator interface {
	CreateSession(ctx context.Context, items []*domain.Item) (*domain.CheckoutSession, error)
}

type Config struct {
	APIKey           string
	AllowedCountries []string // shipping address allow-list, e.g. US, CA
	SuccessURL       string
	CancelURL        string
}

// StripeSessionCreator creates hosted checkout sessions. The API key is
// injected here at construction instead of mutating the SDK's package-global
// key.
type StripeSessionCreator struct {
	api     *client.API
	cfg     Config
	breaker *gobreaker.CircuitBreaker[*stripe.CheckoutSession]
}

func NewStripeSessionCreator(cfg Config) *StripeSessionCreator {
	api := &client.API{}
	api.Init(cfg.APIKey, nil)

	breaker := gobreaker.NewCircuitBreaker[*stripe.CheckoutSession](gobreaker.Settings{
		Name: "stripe-checkout-session",
	})

	return &StripeSessionCreator{
		api:     api,
		cfg:     cfg,
		breaker: breaker,
	}
}

// CreateSession builds one quantity-1 line item per given item (duplicates
// stay duplicate line items) and creates a card-only, payment-mode session.
func (c *StripeSessionCreator) CreateSession(ctx context.Context, items []*domain.Item) (*domain.CheckoutSession, error) {
	params := c.buildSessionParams(items)
	params.Context = ctx

	session, err := c.breaker.Execute(func() (*stripe.CheckoutSession, error) {
		return c.api.CheckoutSessions.New(params)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create stripe session: %w", err)
	}

	if session.PaymentIntent == nil {
		return nil, errors.New("stripe session is missing a payment intent")
	}

	return &domain.CheckoutSession{
		ID:       session.ID,
		IntentID: session.PaymentIntent.ID,
	}, nil
}

func (c *StripeSessionCreator) buildSessionParams(items []*domain.Item) *stripe.CheckoutSessionParams {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(items))
	for i, item := range items {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(item.Currency),
				UnitAmount: stripe.Int64(item.Price),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:   stripe.String(item.Name),
					Images: stripe.StringSlice([]string{item.ImageURL}),
				},
			},
			Quantity: stripe.Int64(1),
		}
	}

	return &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		BillingAddressCollection: stripe.String(
			string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(c.cfg.AllowedCountries),
		},
		LineItems:  lineItems,
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(c.cfg.SuccessURL),
		CancelURL:  stripe.String(c.cfg.CancelURL),
	}
}
