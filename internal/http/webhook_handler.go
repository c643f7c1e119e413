package http

import (
	"context"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/InnoTechCollege/StripeExample/internal/service"
)

type WebhookHandler struct {
	webhooks      service.WebhookService
	signingSecret string // empty disables signature verification
	timeout       time.Duration
}

func NewWebhookHandler(webhooks service.WebhookService, signingSecret string, timeout time.Duration) *WebhookHandler {
	return &WebhookHandler{
		webhooks:      webhooks,
		signingSecret: signingSecret,
		timeout:       timeout,
	}
}

// POST /api/webhook
//
// Always acknowledges with 200, even on internal failure. A non-200 here
// would make the processor redeliver events we can never act on.
func (h *WebhookHandler) Handle(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	payload, err := io.ReadAll(req.Body)
	if err != nil {
		log.Printf("webhook: failed to read payload: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if h.signingSecret != "" {
		sig := req.Header.Get("Stripe-Signature")
		if _, vErr := webhook.ConstructEvent(payload, sig, h.signingSecret); vErr != nil {
			log.Printf("webhook: signature verification failed: %v", vErr)
			w.WriteHeader(http.StatusOK)
			return
		}
	}

	if hErr := h.webhooks.HandleNotification(ctx, payload); hErr != nil {
		log.Printf("webhook: %v", hErr)
	}

	w.WriteHeader(http.StatusOK)
}
