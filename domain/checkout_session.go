package domain

// CheckoutSession is the processor-hosted payment page created for one
// checkout call. ID is returned to the client for the redirect, IntentID
// is persisted on the purchase rows as the correlation id.
type CheckoutSession struct {
	ID       string
	IntentID string
}
