package domain

import "time"

// Item is a purchasable product. Rows are maintained out-of-band;
// this service only reads them.
type Item struct {
	ID        int64
	Name      string
	Price     int64 // minor currency units (cents)
	ImageURL  string
	Currency  string
	CreatedAt time.Time
}
