package port

import (
	"context"

	"adsync/internal/core/domain"
)

// AdUseCase is the primary port into the ad engine. The HTTP adapter maps
// its errors onto status codes via the sentinels in this package.
type AdUseCase interface {
	// ServeActiveAd resolves the 1-based slot of a listing to one eligible
	// frame. It performs no accounting; impressions are reported by the
	// rendered snippet calling back into TrackImpression.
	ServeActiveAd(ctx context.Context, listingID string, slotID int) (*ServedAd, error)

	// GetAdImage looks up a single frame, gates on expiry and budget, and
	// applies best-effort impression accounting to the campaign, publisher
	// and advertiser records.
	GetAdImage(ctx context.Context, listingID, frameID string) (*AdImage, error)

	// TrackImpression increments a campaign's impression counter and
	// returns the new total. A missing counter starts from zero.
	TrackImpression(ctx context.Context, campaignID string) (int64, error)

	// RecordClick stores a click event for a frame and bumps the campaign
	// click counter. The counter bump is best-effort.
	RecordClick(ctx context.Context, frameID, campaignID string) error

	// ListListings returns a publisher's listings for the editor.
	ListListings(ctx context.Context, publisherID string) ([]domain.Listing, error)
	// GetListing returns one listing for the editor.
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	// UpdateListing validates and applies an editor save, merging the
	// submitted frame selection over the stored one.
	UpdateListing(ctx context.Context, id string, upd ListingUpdate) (*domain.Listing, error)
}

// ServedAd is the resolved creative handed to the snippet renderer.
type ServedAd struct {
	FrameID    string
	CampaignID string
	TargetURL  string
	ImageURL   string
	Width      int
	Height     int
}

// AdImage is the JSON payload of the single-frame serving path.
type AdImage struct {
	ImageURL   string `json:"imageUrl"`
	TargetURL  string `json:"targetUrl"`
	ListingID  string `json:"listingId"`
	FrameID    string `json:"frameId"`
	CampaignID string `json:"campaignId"`
}

// ListingUpdate is the editor save payload. The editor requires every
// detail field and at least one selected, priced frame.
type ListingUpdate struct {
	Title          string                           `json:"title" validate:"required"`
	Category       string                           `json:"category" validate:"required"`
	Website        string                           `json:"website" validate:"required,url"`
	SelectedFrames map[string]domain.FrameSelection `json:"selectedFrames" validate:"required,min=1"`
}
