package service

import (
	"context"
	"fmt"
	"log"

	"github.com/InnoTechCollege/StripeExample/domain"
	"github.com/InnoTechCollege/StripeExample/internal/payments"
	r "github.com/InnoTechCollege/StripeExample/internal/repository"
	"github.com/InnoTechCollege/StripeExample/pkg/logging"
)

type CheckoutService interface {
	CreateCheckout(ctx context.Context, itemIDs []int64) (*domain.CheckoutSession, error)
}

type CheckoutServiceImpl struct {
	repo     r.RepoInterface
	payments payments.SessionCreator
}

func NewCheckoutService(repo r.RepoInterface, sessions payments.SessionCreator) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		repo:     repo,
		payments: sessions,
	}
}

// CreateCheckout resolves the requested items, creates a hosted payment
// session and records one pending purchase row per requested id, all
// sharing the session's payment-intent id. The store work runs in one
// transaction: any failure rolls every uncommitted write back.
func (s *CheckoutServiceImpl) CreateCheckout(ctx context.Context, itemIDs []int64) (*domain.CheckoutSession, error) {
	if len(itemIDs) == 0 {
		return nil, ErrNoItems
	}

	tx, err := s.repo.BeginCheckout(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("checkout rollback failed: %v", rbErr)
			}
		}
	}()

	// A missing id aborts the whole call. Duplicate ids are kept as
	// separate quantity-1 entries, not aggregated.
	items := make([]*domain.Item, 0, len(itemIDs))
	for _, id := range itemIDs {
		item, lookupErr := tx.GetItem(ctx, id)
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to resolve checkout items: %w", lookupErr)
		}
		items = append(items, item)
	}

	session, err := s.payments.CreateSession(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment session: %w", err)
	}

	var inserted int64
	for _, id := range itemIDs {
		rows, insertErr := tx.InsertPurchase(ctx, id, session.IntentID)
		if insertErr != nil {
			return nil, fmt.Errorf("failed to record purchase: %w", insertErr)
		}
		inserted += rows
	}

	// The processor session already exists at this point, so a mismatch
	// leaves an orphaned session behind. That inconsistency is detected
	// and surfaced, not repaired.
	if inserted != int64(len(itemIDs)) {
		logging.Alert(logging.Fields{
			Service:   "checkout",
			SessionID: session.ID,
			IntentID:  session.IntentID,
			Rows:      inserted,
			Expected:  len(itemIDs),
			Status:    "persistence_mismatch",
			Message:   "purchase rows do not match requested items, stripe session is orphaned",
		})
		return nil, ErrPersistenceMismatch
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}
	committed = true

	log.Printf("checkout created: session=%s intent=%s items=%d", session.ID, session.IntentID, len(itemIDs))
	return session, nil
}
