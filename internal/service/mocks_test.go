package service

import (
	"context"

	"github.com/InnoTechCollege/StripeExample/domain"
	r "github.com/InnoTechCollege/StripeExample/internal/repository"
)

// InsertedPurchase captures one InsertPurchase call made against MockCheckoutTx.
type InsertedPurchase struct {
	ItemID   int64
	IntentID string
}

// MockCheckoutTx implements r.CheckoutTx for testing
type MockCheckoutTx struct {
	Items      map[int64]*domain.Item
	InsertRows int64
	InsertErr  error
	CommitErr  error

	Inserted   []InsertedPurchase
	Committed  bool
	RolledBack bool
}

func (m *MockCheckoutTx) GetItem(_ context.Context, id int64) (*domain.Item, error) {
	item, exists := m.Items[id]
	if !exists {
		return nil, r.ErrItemNotFound
	}
	return item, nil
}

func (m *MockCheckoutTx) InsertPurchase(_ context.Context, itemID int64, intentID string) (int64, error) {
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}
	m.Inserted = append(m.Inserted, InsertedPurchase{ItemID: itemID, IntentID: intentID})
	return m.InsertRows, nil
}

func (m *MockCheckoutTx) Commit() error {
	if m.CommitErr != nil {
		return m.CommitErr
	}
	m.Committed = true
	return nil
}

func (m *MockCheckoutTx) Rollback() error {
	m.RolledBack = true
	return nil
}

// MockRepository implements r.RepoInterface for testing
type MockRepository struct {
	Tx       *MockCheckoutTx
	BeginErr error

	ListItemsResult []*domain.Item
	ListItemsErr    error

	UpdateRows    int64
	UpdateErr     error
	UpdateCalls   int
	UpdatedIntent string
	UpdatedEmail  string

	BeginCalls int
}

func (m *MockRepository) Close() error {
	return nil
}

func (m *MockRepository) RunMigrations(*r.Credentials) error {
	return nil
}

func (m *MockRepository) ListItems(_ context.Context) ([]*domain.Item, error) {
	return m.ListItemsResult, m.ListItemsErr
}

func (m *MockRepository) BeginCheckout(_ context.Context) (r.CheckoutTx, error) {
	m.BeginCalls++
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	return m.Tx, nil
}

func (m *MockRepository) UpdatePurchaseSuccess(_ context.Context, intentID, email string) (int64, error) {
	m.UpdateCalls++
	m.UpdatedIntent = intentID
	m.UpdatedEmail = email
	return m.UpdateRows, m.UpdateErr
}

func (m *MockRepository) GetPurchasesByIntent(_ context.Context, _ string) ([]*domain.Purchase, error) {
	return nil, nil
}

// MockSessionCreator implements payments.SessionCreator for testing
type MockSessionCreator struct {
	Session *domain.CheckoutSession
	Err     error

	Calls    int
	GotItems []*domain.Item
}

func (m *MockSessionCreator) CreateSession(_ context.Context, items []*domain.Item) (*domain.CheckoutSession, error) {
	m.Calls++
	m.GotItems = items
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Session, nil
}
