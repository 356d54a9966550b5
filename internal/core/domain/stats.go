package domain

import "github.com/shopspring/decimal"

// PublisherStats is the running-total aggregate for a publisher, upserted
// on every accounting event.
type PublisherStats struct {
	ID               string
	TotalImpressions int64
	TotalClicks      int64
	TotalEarnings    decimal.Decimal
}

// AdvertiserStats is the running-total aggregate for an advertiser.
type AdvertiserStats struct {
	ID               string
	TotalImpressions int64
	TotalClicks      int64
	TotalSpent       decimal.Decimal
}
