package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	stripe "github.com/stripe/stripe-go/v81"

	r "github.com/InnoTechCollege/StripeExample/internal/repository"
	"github.com/InnoTechCollege/StripeExample/pkg/logging"
)

type WebhookService interface {
	HandleNotification(ctx context.Context, payload []byte) error
}

// WebhookServiceImpl reconciles pending purchases against processor
// notifications. Purchase rows move pending -> confirmed exactly once, on a
// charge.succeeded event matching their payment-intent id.
type WebhookServiceImpl struct {
	repo r.RepoInterface
}

func NewWebhookService(repo r.RepoInterface) *WebhookServiceImpl {
	return &WebhookServiceImpl{repo: repo}
}

// HandleNotification processes one raw event payload. The returned error is
// for logging and tests only: the HTTP layer acknowledges every notification
// with 200 regardless, so the sender never retries events we cannot act on.
func (s *WebhookServiceImpl) HandleNotification(ctx context.Context, payload []byte) error {
	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		log.Printf("webhook: failed to parse event payload: %v", err)
		return nil
	}

	switch event.Type {
	case stripe.EventTypeChargeSucceeded:
		return s.confirmPurchase(ctx, &event)
	case stripe.EventTypeChargeFailed:
		// The pending rows are kept; reversing them is an operator task.
		log.Printf("webhook: charge failed, no purchase update performed")
		return nil
	default:
		log.Printf("webhook: ignoring event type %q", event.Type)
		return nil
	}
}

func (s *WebhookServiceImpl) confirmPurchase(ctx context.Context, event *stripe.Event) error {
	if event.Data == nil {
		log.Printf("webhook: charge.succeeded event carries no data object")
		return nil
	}

	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		log.Printf("webhook: failed to parse charge object: %v", err)
		return nil
	}

	if charge.PaymentIntent == nil || charge.PaymentIntent.ID == "" {
		log.Printf("webhook: charge.succeeded event carries no payment intent")
		return nil
	}
	intentID := charge.PaymentIntent.ID

	var email string
	if charge.BillingDetails != nil {
		email = charge.BillingDetails.Email
	}

	rows, err := s.repo.UpdatePurchaseSuccess(ctx, intentID, email)
	if err != nil {
		logging.Alert(logging.Fields{
			Service:  "webhook",
			IntentID: intentID,
			Status:   "update_failed",
			Message:  "payment succeeded but the purchase update failed, verify the payment in stripe",
		})
		return fmt.Errorf("failed to confirm purchase for intent %s: %w", intentID, err)
	}

	if rows == 0 {
		logging.Alert(logging.Fields{
			Service:  "webhook",
			IntentID: intentID,
			Status:   "no_matching_purchase",
			Message:  "payment succeeded but no pending purchase matches the intent id",
		})
		return fmt.Errorf("no pending purchase for intent %s", intentID)
	}

	log.Printf("webhook: confirmed %d purchase row(s) for intent %s", rows, intentID)
	return nil
}
