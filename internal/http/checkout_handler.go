package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/InnoTechCollege/StripeExample/internal/service"
)

type CheckoutHandler struct {
	checkout service.CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout service.CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

type CreateCheckoutRequestDTO struct {
	ItemIDs []int64 `json:"item_ids"`
}

type CreateCheckoutResponseDTO struct {
	ID string `json:"id"`
}

// POST /api/checkout
func (h *CheckoutHandler) Create(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), h.timeout)
	defer cancel()

	var body CreateCheckoutRequestDTO
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	session, err := h.checkout.CreateCheckout(ctx, body.ItemIDs)
	if err != nil {
		log.Printf("checkout failed: %v", err)
		switch {
		case errors.Is(err, service.ErrNoItems):
			respondError(w, http.StatusBadRequest, "You must send some items!")
		case errors.Is(err, service.ErrPersistenceMismatch):
			respondError(w, http.StatusForbidden, "Database error!")
		default:
			respondError(w, http.StatusForbidden, "Stripe session error!")
		}
		return
	}

	// The client redirects to the hosted payment page using this id.
	respondJSON(w, http.StatusOK, CreateCheckoutResponseDTO{ID: session.ID})
}
