package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"adsync/internal/config/configs"
	"adsync/internal/core/domain"
	"adsync/internal/core/port"
	"adsync/internal/metrics"
)

// AdService implements port.AdUseCase. It orchestrates the record store to
// resolve slots, gate serving on eligibility and apply impression and click
// accounting.
type AdService struct {
	repo     port.AdRepository
	logger   *slog.Logger
	cfg      configs.Serve
	validate *validator.Validate

	// now is stubbed in tests.
	now func() time.Time
}

// NewAdService creates the usecase with its repository and serving config.
func NewAdService(repo port.AdRepository, logger *slog.Logger, cfg configs.Serve) *AdService {
	return &AdService{
		repo:     repo,
		logger:   logger,
		cfg:      cfg,
		validate: validator.New(),
		now:      time.Now,
	}
}

// ServeActiveAd resolves the 1-based slotID of a listing to one eligible
// frame. Frames are scanned in ascending frame-id order; frames whose
// campaign or click count cannot be fetched are skipped rather than failing
// the request. No accounting happens here: the rendered snippet reports the
// impression through the tracking endpoint.
func (s *AdService) ServeActiveAd(ctx context.Context, listingID string, slotID int) (*port.ServedAd, error) {
	if slotID < 1 {
		return nil, fmt.Errorf("slotId must be a positive number: %w", port.ErrInvalidInput)
	}
	frames, err := s.repo.ListFrames(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		// Stored listing ids are not consistently cased; retry once
		// upper-cased before giving up.
		frames, err = s.repo.ListFrames(ctx, strings.ToUpper(listingID))
		if err != nil {
			return nil, err
		}
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames for listing %q: %w", listingID, port.ErrNotFound)
	}

	now := s.now()
	var active []port.ServedAd
	for _, frame := range frames {
		campaign, err := s.repo.GetCampaign(ctx, frame.CampaignID)
		if err != nil || campaign == nil {
			metrics.FramesRejected.WithLabelValues("campaign_missing").Inc()
			continue
		}
		clicks, err := s.repo.CountClicks(ctx, frame.FrameID)
		if err != nil {
			metrics.FramesRejected.WithLabelValues("click_count").Inc()
			continue
		}
		if !domain.Eligible(*campaign, frame, clicks, now) {
			metrics.FramesRejected.WithLabelValues("ineligible").Inc()
			continue
		}
		width, height := frame.Dimensions()
		active = append(active, port.ServedAd{
			FrameID:    frame.FrameID,
			CampaignID: campaign.ID,
			TargetURL:  campaign.TargetURL(s.cfg.DefaultTargetURL),
			ImageURL:   frame.CreativeURL(s.cfg.CreativeBaseURL),
			Width:      width,
			Height:     height,
		})
	}

	idx := slotID - 1
	if idx >= len(active) {
		return nil, fmt.Errorf("no active frame for slot %d: %w", slotID, port.ErrNotFound)
	}
	ad := active[idx]
	metrics.AdsServed.Inc()
	return &ad, nil
}

// GetAdImage serves one frame directly and applies impression accounting.
// The lookups gate the response; the three counter updates are best-effort
// and their failures are logged, never surfaced.
func (s *AdService) GetAdImage(ctx context.Context, listingID, frameID string) (*port.AdImage, error) {
	frame, err := s.repo.GetFrame(ctx, listingID, frameID)
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, fmt.Errorf("ad: %w", port.ErrNotFound)
	}
	listing, err := s.repo.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, fmt.Errorf("listing: %w", port.ErrNotFound)
	}
	campaign, err := s.repo.GetCampaign(ctx, frame.CampaignID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, fmt.Errorf("campaign: %w", port.ErrNotFound)
	}

	end := campaign.Details.EndDate
	if !end.IsZero() && (!end.Valid() || end.Expired(s.now())) {
		return nil, port.ErrCampaignExpired
	}
	// This path spends against the campaign's own click counter, not the
	// per-frame click rows the listing scan uses.
	spend := domain.StrictBudgetPolicy.Spend(frame.PricePerClick, campaign.Clicks)
	if !domain.StrictBudgetPolicy.WithinBudget(campaign.Details.Budget, frame.PricePerClick, campaign.Clicks) {
		return nil, port.ErrBudgetExhausted
	}

	if _, err := s.repo.IncrementCampaignImpressions(ctx, campaign.ID); err != nil {
		s.logger.Error("increment campaign impressions", slog.String("campaign", campaign.ID), slog.Any("error", err))
	}
	if err := s.repo.RecordPublisherImpression(ctx, listing.PublisherID); err != nil {
		s.logger.Error("update publisher stats", slog.String("publisher", listing.PublisherID), slog.Any("error", err))
	}
	if err := s.repo.RecordAdvertiserImpression(ctx, campaign.AdvertiserID, campaign.Clicks, spend); err != nil {
		s.logger.Error("update advertiser stats", slog.String("advertiser", campaign.AdvertiserID), slog.Any("error", err))
	}
	metrics.ImpressionsRecorded.Inc()

	return &port.AdImage{
		ImageURL:   frame.UploadedFile,
		TargetURL:  campaign.TargetURL(s.cfg.DefaultTargetURL),
		ListingID:  listingID,
		FrameID:    frameID,
		CampaignID: campaign.ID,
	}, nil
}

// TrackImpression bumps a campaign's impression counter and returns the
// new total. The store treats a NULL counter as zero.
func (s *AdService) TrackImpression(ctx context.Context, campaignID string) (int64, error) {
	total, err := s.repo.IncrementCampaignImpressions(ctx, campaignID)
	if err != nil {
		return 0, err
	}
	metrics.ImpressionsRecorded.Inc()
	return total, nil
}

// RecordClick stores a click event for the frame. The campaign click
// counter bump is best-effort: the click row is already persisted and feeds
// the listing-scan spend calculation on its own.
func (s *AdService) RecordClick(ctx context.Context, frameID, campaignID string) error {
	click := &domain.Click{
		ID:         uuid.NewString(),
		FrameID:    frameID,
		CampaignID: campaignID,
	}
	if err := s.repo.InsertClick(ctx, click); err != nil {
		return err
	}
	if _, err := s.repo.IncrementCampaignClicks(ctx, campaignID); err != nil {
		s.logger.Error("increment campaign clicks", slog.String("campaign", campaignID), slog.Any("error", err))
	}
	metrics.ClicksRecorded.Inc()
	return nil
}

// ListListings returns a publisher's listings for the editor.
func (s *AdService) ListListings(ctx context.Context, publisherID string) ([]domain.Listing, error) {
	return s.repo.ListListingsByPublisher(ctx, publisherID)
}

// GetListing returns one listing for the editor.
func (s *AdService) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, fmt.Errorf("listing: %w", port.ErrNotFound)
	}
	return listing, nil
}

// UpdateListing applies an editor save. The submitted frame selection is
// merged over the stored one so deselecting in one session cannot clobber
// frames selected in another.
func (s *AdService) UpdateListing(ctx context.Context, id string, upd port.ListingUpdate) (*domain.Listing, error) {
	if err := s.validate.Struct(upd); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrInvalidInput, err)
	}
	for frameID, sel := range upd.SelectedFrames {
		if strings.TrimSpace(sel.PricePerClick) == "" {
			return nil, fmt.Errorf("%w: frame %s has no price", port.ErrInvalidInput, frameID)
		}
		if price := domain.ParseMoney(sel.PricePerClick); !price.Valid() || price.Or(decimal.Zero).Sign() < 0 {
			return nil, fmt.Errorf("%w: frame %s has an invalid price", port.ErrInvalidInput, frameID)
		}
	}

	listing, err := s.repo.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, fmt.Errorf("listing: %w", port.ErrNotFound)
	}

	if listing.SelectedFrames == nil {
		listing.SelectedFrames = make(map[string]domain.FrameSelection, len(upd.SelectedFrames))
	}
	for frameID, sel := range upd.SelectedFrames {
		listing.SelectedFrames[frameID] = sel
	}
	listing.Title = upd.Title
	listing.Category = upd.Category
	listing.Website = upd.Website

	if err := s.repo.UpdateListing(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}
