package domain

import "time"

// Purchase is one pending or confirmed line of a checkout. Every row
// created by a single checkout call shares the same StripeIntentID, which
// is what the webhook later uses to reconcile the payment.
type Purchase struct {
	ID             int64
	ItemID         int64
	StripeIntentID string
	Success        bool
	Email          *string // nil until the payment is confirmed
	CreatedAt      time.Time
}
