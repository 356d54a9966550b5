package port

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"adsync/internal/core/domain"
)

// Error taxonomy surfaced by the HTTP adapter. Repository and usecase
// methods wrap these so callers can classify with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrCampaignExpired = errors.New("campaign has expired")
	ErrBudgetExhausted = errors.New("campaign budget exhausted")
)

// AdRepository is the outbound port to the record store. Point lookups
// return (nil, nil) when the record is absent; counter updates are atomic
// in the store so concurrent requests cannot lose increments.
type AdRepository interface {
	// ListFrames returns all frames of a listing ordered by frame
	// identifier ascending.
	ListFrames(ctx context.Context, listingID string) ([]domain.Frame, error)
	// GetFrame returns one frame by its composite key.
	GetFrame(ctx context.Context, listingID, frameID string) (*domain.Frame, error)

	// GetListing returns a listing by id.
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	// ListListingsByPublisher returns a publisher's listings ordered by id.
	ListListingsByPublisher(ctx context.Context, publisherID string) ([]domain.Listing, error)
	// UpdateListing persists edited listing details and frame selection.
	UpdateListing(ctx context.Context, l *domain.Listing) error

	// GetCampaign returns a campaign by id.
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	// IncrementCampaignImpressions bumps the campaign impression counter
	// by one and returns the new value. Absent campaigns yield ErrNotFound.
	IncrementCampaignImpressions(ctx context.Context, campaignID string) (int64, error)
	// IncrementCampaignClicks bumps the campaign click counter by one and
	// returns the new value.
	IncrementCampaignClicks(ctx context.Context, campaignID string) (int64, error)

	// CountClicks returns the number of recorded click events for a frame.
	CountClicks(ctx context.Context, frameID string) (int64, error)
	// InsertClick stores one click event row.
	InsertClick(ctx context.Context, click *domain.Click) error

	// RecordPublisherImpression upserts the publisher aggregate, adding
	// one impression and leaving clicks and earnings untouched.
	RecordPublisherImpression(ctx context.Context, publisherID string) error
	// RecordAdvertiserImpression upserts the advertiser aggregate, adding
	// one impression and overwriting clicks and spend with the
	// campaign-level values supplied by the caller.
	RecordAdvertiserImpression(ctx context.Context, advertiserID string, campaignClicks int64, campaignSpend decimal.Decimal) error
}
