package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"adsync/internal/core/domain"
	"adsync/internal/core/port"
)

// AdRepository implements port.AdRepository using pgxpool for PostgreSQL.
// Counter updates are expressed as single atomic statements so concurrent
// requests against the same campaign or aggregate cannot lose increments.
type AdRepository struct {
	pool *pgxpool.Pool
}

// NewAdRepository returns a new repository instance.
func NewAdRepository(pool *pgxpool.Pool) *AdRepository {
	return &AdRepository{pool: pool}
}

const frameColumns = `listing_id, frame_id, campaign_id, uploaded_file, COALESCE(price_per_click, ''), COALESCE(size, ''), created_at, updated_at`

func scanFrame(row pgx.CollectableRow) (domain.Frame, error) {
	var f domain.Frame
	err := row.Scan(&f.ListingID, &f.FrameID, &f.CampaignID, &f.UploadedFile, &f.PricePerClick, &f.Size, &f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// ListFrames returns all frames of a listing ordered by frame id ascending.
func (r *AdRepository) ListFrames(ctx context.Context, listingID string) ([]domain.Frame, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+frameColumns+` FROM frames WHERE listing_id = $1 ORDER BY frame_id ASC`, listingID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanFrame)
}

// GetFrame returns one frame by its composite key, or nil when absent.
func (r *AdRepository) GetFrame(ctx context.Context, listingID, frameID string) (*domain.Frame, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+frameColumns+` FROM frames WHERE listing_id = $1 AND frame_id = $2`, listingID, frameID)
	if err != nil {
		return nil, err
	}
	f, err := pgx.CollectExactlyOneRow(rows, scanFrame)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanListing(row pgx.CollectableRow) (domain.Listing, error) {
	var (
		l   domain.Listing
		raw []byte
	)
	err := row.Scan(&l.ID, &l.PublisherID, &l.Title, &l.Category, &l.Website, &raw, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return l, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &l.SelectedFrames); err != nil {
			// legacy rows occasionally hold double-encoded JSON; retry
			// through a string
			var s string
			if err2 := json.Unmarshal(raw, &s); err2 != nil || json.Unmarshal([]byte(s), &l.SelectedFrames) != nil {
				return l, fmt.Errorf("listing %s selected_frames: %w", l.ID, err)
			}
		}
	}
	if l.SelectedFrames == nil {
		l.SelectedFrames = map[string]domain.FrameSelection{}
	}
	return l, nil
}

const listingColumns = `id, publisher_id, COALESCE(title, ''), COALESCE(category, ''), COALESCE(website, ''), COALESCE(selected_frames, '{}'::jsonb), created_at, updated_at`

// GetListing returns a listing by id, or nil when absent.
func (r *AdRepository) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	l, err := pgx.CollectExactlyOneRow(rows, scanListing)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// ListListingsByPublisher returns a publisher's listings ordered by id.
func (r *AdRepository) ListListingsByPublisher(ctx context.Context, publisherID string) ([]domain.Listing, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+listingColumns+` FROM listings WHERE publisher_id = $1 ORDER BY id ASC`, publisherID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanListing)
}

// UpdateListing persists edited listing details and frame selection.
func (r *AdRepository) UpdateListing(ctx context.Context, l *domain.Listing) error {
	frames, err := json.Marshal(l.SelectedFrames)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE listings SET title = $2, category = $3, website = $4, selected_frames = $5, updated_at = now() WHERE id = $1`,
		l.ID, l.Title, l.Category, l.Website, frames)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("listing %s: %w", l.ID, port.ErrNotFound)
	}
	return nil
}

// GetCampaign returns a campaign by id, or nil when absent. NULL counters
// read as zero.
func (r *AdRepository) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	var (
		c   domain.Campaign
		raw []byte
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, COALESCE(advertiser_id, ''), COALESCE(status, ''), COALESCE(campaign_details, '{}'::jsonb),
		        COALESCE(impressions, 0), COALESCE(clicks, 0), created_at, updated_at
		 FROM campaigns WHERE id = $1`, id).
		Scan(&c.ID, &c.AdvertiserID, &c.Status, &raw, &c.Impressions, &c.Clicks, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &c.Details); err != nil {
		return nil, fmt.Errorf("campaign %s details: %w", id, err)
	}
	return &c, nil
}

// IncrementCampaignImpressions atomically bumps the impression counter and
// returns the new value.
func (r *AdRepository) IncrementCampaignImpressions(ctx context.Context, campaignID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`UPDATE campaigns SET impressions = COALESCE(impressions, 0) + 1, updated_at = now() WHERE id = $1 RETURNING impressions`,
		campaignID).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("campaign %s: %w", campaignID, port.ErrNotFound)
	}
	return total, err
}

// IncrementCampaignClicks atomically bumps the click counter and returns
// the new value.
func (r *AdRepository) IncrementCampaignClicks(ctx context.Context, campaignID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`UPDATE campaigns SET clicks = COALESCE(clicks, 0) + 1, updated_at = now() WHERE id = $1 RETURNING clicks`,
		campaignID).Scan(&total)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("campaign %s: %w", campaignID, port.ErrNotFound)
	}
	return total, err
}

// CountClicks returns the number of recorded click events for a frame.
func (r *AdRepository) CountClicks(ctx context.Context, frameID string) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM clicks WHERE frame_id = $1`, frameID).Scan(&count)
	return count, err
}

// InsertClick stores one click event row.
func (r *AdRepository) InsertClick(ctx context.Context, click *domain.Click) error {
	click.CreatedAt = time.Now().UTC()
	_, err := r.pool.Exec(ctx,
		`INSERT INTO clicks (id, frame_id, campaign_id, created_at) VALUES ($1, $2, $3, $4)`,
		click.ID, click.FrameID, click.CampaignID, click.CreatedAt)
	return err
}

// RecordPublisherImpression upserts the publisher aggregate, adding one
// impression and leaving clicks and earnings untouched.
func (r *AdRepository) RecordPublisherImpression(ctx context.Context, publisherID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO publishers (id, total_impressions, total_clicks, total_earnings)
		 VALUES ($1, 1, 0, 0)
		 ON CONFLICT (id) DO UPDATE SET total_impressions = publishers.total_impressions + 1`,
		publisherID)
	return err
}

// RecordAdvertiserImpression upserts the advertiser aggregate. Impressions
// accumulate; clicks and spend are overwritten with the campaign-level
// values, mirroring the aggregate's original contract.
func (r *AdRepository) RecordAdvertiserImpression(ctx context.Context, advertiserID string, campaignClicks int64, campaignSpend decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO advertisers (id, total_impressions, total_clicks, total_spent)
		 VALUES ($1, 1, $2, $3::numeric)
		 ON CONFLICT (id) DO UPDATE SET
		   total_impressions = advertisers.total_impressions + 1,
		   total_clicks = EXCLUDED.total_clicks,
		   total_spent = EXCLUDED.total_spent`,
		advertiserID, campaignClicks, campaignSpend.String())
	return err
}
