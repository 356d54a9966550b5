package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"adsync/internal/config/configs"
	"adsync/internal/core/domain"
	"adsync/internal/core/port"
)

// fakeRepo is an in-memory port.AdRepository with per-key error injection.
// Counter methods are locked so concurrency tests can hammer them the way
// the store's atomic statements would be.
type fakeRepo struct {
	mu          sync.Mutex
	frames      map[string][]domain.Frame
	campaigns   map[string]*domain.Campaign
	listings    map[string]*domain.Listing
	clickCounts map[string]int64

	campaignErrs  map[string]error
	clickCountErr error
	incImpErr     error
	incClickErr   error
	pubErr        error
	advErr        error

	insertedClicks []domain.Click
	pubBumps       []string
	advUpserts     []advUpsert
}

type advUpsert struct {
	advertiserID string
	clicks       int64
	spend        decimal.Decimal
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		frames:       map[string][]domain.Frame{},
		campaigns:    map[string]*domain.Campaign{},
		listings:     map[string]*domain.Listing{},
		clickCounts:  map[string]int64{},
		campaignErrs: map[string]error{},
	}
}

func (f *fakeRepo) ListFrames(_ context.Context, listingID string) ([]domain.Frame, error) {
	return f.frames[listingID], nil
}

func (f *fakeRepo) GetFrame(_ context.Context, listingID, frameID string) (*domain.Frame, error) {
	for _, fr := range f.frames[listingID] {
		if fr.FrameID == frameID {
			fr := fr
			return &fr, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) GetListing(_ context.Context, id string) (*domain.Listing, error) {
	l, ok := f.listings[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeRepo) ListListingsByPublisher(_ context.Context, publisherID string) ([]domain.Listing, error) {
	var out []domain.Listing
	for _, l := range f.listings {
		if l.PublisherID == publisherID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateListing(_ context.Context, l *domain.Listing) error {
	f.listings[l.ID] = l
	return nil
}

func (f *fakeRepo) GetCampaign(_ context.Context, id string) (*domain.Campaign, error) {
	if err := f.campaignErrs[id]; err != nil {
		return nil, err
	}
	c, ok := f.campaigns[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) IncrementCampaignImpressions(_ context.Context, campaignID string) (int64, error) {
	if f.incImpErr != nil {
		return 0, f.incImpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok {
		return 0, port.ErrNotFound
	}
	c.Impressions++
	return c.Impressions, nil
}

func (f *fakeRepo) IncrementCampaignClicks(_ context.Context, campaignID string) (int64, error) {
	if f.incClickErr != nil {
		return 0, f.incClickErr
	}
	c, ok := f.campaigns[campaignID]
	if !ok {
		return 0, port.ErrNotFound
	}
	c.Clicks++
	return c.Clicks, nil
}

func (f *fakeRepo) CountClicks(_ context.Context, frameID string) (int64, error) {
	if f.clickCountErr != nil {
		return 0, f.clickCountErr
	}
	return f.clickCounts[frameID], nil
}

func (f *fakeRepo) InsertClick(_ context.Context, click *domain.Click) error {
	f.insertedClicks = append(f.insertedClicks, *click)
	return nil
}

func (f *fakeRepo) RecordPublisherImpression(_ context.Context, publisherID string) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.pubBumps = append(f.pubBumps, publisherID)
	return nil
}

func (f *fakeRepo) RecordAdvertiserImpression(_ context.Context, advertiserID string, clicks int64, spend decimal.Decimal) error {
	if f.advErr != nil {
		return f.advErr
	}
	f.advUpserts = append(f.advUpserts, advUpsert{advertiserID: advertiserID, clicks: clicks, spend: spend})
	return nil
}

func newService(repo *fakeRepo) *AdService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewAdService(repo, logger, configs.Serve{DefaultTargetURL: "https://fallback.example.com"})
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC) }
	return svc
}

func approvedCampaign(id, advertiserID, budget string) *domain.Campaign {
	return &domain.Campaign{
		ID:           id,
		AdvertiserID: advertiserID,
		Status:       domain.StatusApproved,
		Details: domain.CampaignDetails{
			TargetURL: "https://adv.example.com/landing",
			Budget:    domain.ParseMoney(budget),
			EndDate:   domain.CivilDate{Year: 2027, Month: 1, Day: 1},
		},
	}
}

func TestServeActiveAdSlotResolution(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{
		{ListingID: "L1", FrameID: "F1", CampaignID: "cA", UploadedFile: "https://cdn/a.png", Size: "300x250"},
		{ListingID: "L1", FrameID: "F2", CampaignID: "cB", UploadedFile: "https://cdn/b.png", PricePerClick: "1", Size: "728x90"},
	}
	repo.campaigns["cA"] = approvedCampaign("cA", "adv1", "0")
	repo.campaigns["cB"] = approvedCampaign("cB", "adv2", "10")
	repo.clickCounts["F2"] = 5 // spend 5 < 10, still eligible

	svc := newService(repo)
	ctx := context.Background()

	ad, err := svc.ServeActiveAd(ctx, "L1", 1)
	require.NoError(t, err)
	require.Equal(t, "F1", ad.FrameID)
	require.Equal(t, "cA", ad.CampaignID)
	require.Equal(t, 300, ad.Width)
	require.Equal(t, 250, ad.Height)

	ad, err = svc.ServeActiveAd(ctx, "L1", 2)
	require.NoError(t, err)
	require.Equal(t, "F2", ad.FrameID)

	_, err = svc.ServeActiveAd(ctx, "L1", 3)
	require.ErrorIs(t, err, port.ErrNotFound)

	_, err = svc.ServeActiveAd(ctx, "L1", 0)
	require.ErrorIs(t, err, port.ErrInvalidInput)
}

func TestServeActiveAdUppercaseRetry(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{
		{ListingID: "L1", FrameID: "F1", CampaignID: "cA", UploadedFile: "https://cdn/a.png"},
	}
	repo.campaigns["cA"] = approvedCampaign("cA", "adv1", "0")

	svc := newService(repo)

	ad, err := svc.ServeActiveAd(context.Background(), "l1", 1)
	require.NoError(t, err)
	require.Equal(t, "F1", ad.FrameID)
}

func TestServeActiveAdSkipsBrokenFrames(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{
		{ListingID: "L1", FrameID: "F1", CampaignID: "missing"},
		{ListingID: "L1", FrameID: "F2", CampaignID: "cErr"},
		{ListingID: "L1", FrameID: "F3", CampaignID: "cPending"},
		{ListingID: "L1", FrameID: "F4", CampaignID: "cOK", UploadedFile: "https://cdn/d.png"},
	}
	repo.campaignErrs["cErr"] = errors.New("store down")
	pending := approvedCampaign("cPending", "adv", "0")
	pending.Status = "pending"
	repo.campaigns["cPending"] = pending
	repo.campaigns["cOK"] = approvedCampaign("cOK", "adv", "0")

	svc := newService(repo)

	// the single survivor occupies slot 1
	ad, err := svc.ServeActiveAd(context.Background(), "L1", 1)
	require.NoError(t, err)
	require.Equal(t, "F4", ad.FrameID)

	_, err = svc.ServeActiveAd(context.Background(), "L1", 2)
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestServeActiveAdExpiredCampaign(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{{ListingID: "L1", FrameID: "F1", CampaignID: "cA"}}
	camp := approvedCampaign("cA", "adv", "0")
	camp.Details.EndDate = domain.CivilDate{Year: 2020, Month: 1, Day: 1}
	repo.campaigns["cA"] = camp

	svc := newService(repo)

	_, err := svc.ServeActiveAd(context.Background(), "L1", 1)
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestServeActiveAdTargetURLFallback(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{{ListingID: "L1", FrameID: "F1", CampaignID: "cA"}}
	camp := approvedCampaign("cA", "adv", "0")
	camp.Details.TargetURL = ""
	repo.campaigns["cA"] = camp

	svc := newService(repo)

	ad, err := svc.ServeActiveAd(context.Background(), "L1", 1)
	require.NoError(t, err)
	require.Equal(t, "https://fallback.example.com", ad.TargetURL)
}

func TestGetAdImage(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{
		{ListingID: "L1", FrameID: "F1", CampaignID: "cA", UploadedFile: "creatives/a.png", PricePerClick: "0.24"},
	}
	repo.listings["L1"] = &domain.Listing{ID: "L1", PublisherID: "pub1"}
	camp := approvedCampaign("cA", "adv1", "100")
	camp.Clicks = 10 // spend 2.4 < 100
	repo.campaigns["cA"] = camp

	svc := newService(repo)

	img, err := svc.GetAdImage(context.Background(), "L1", "F1")
	require.NoError(t, err)
	require.Equal(t, &port.AdImage{
		ImageURL:   "creatives/a.png",
		TargetURL:  "https://adv.example.com/landing",
		ListingID:  "L1",
		FrameID:    "F1",
		CampaignID: "cA",
	}, img)

	require.Equal(t, int64(1), repo.campaigns["cA"].Impressions)
	require.Equal(t, []string{"pub1"}, repo.pubBumps)
	require.Len(t, repo.advUpserts, 1)
	require.Equal(t, "adv1", repo.advUpserts[0].advertiserID)
	require.Equal(t, int64(10), repo.advUpserts[0].clicks)
	require.True(t, repo.advUpserts[0].spend.Equal(decimal.RequireFromString("2.4")))
}

func TestGetAdImageAccountingIsBestEffort(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{{ListingID: "L1", FrameID: "F1", CampaignID: "cA", UploadedFile: "a.png"}}
	repo.listings["L1"] = &domain.Listing{ID: "L1", PublisherID: "pub1"}
	repo.campaigns["cA"] = approvedCampaign("cA", "adv1", "0")
	repo.incImpErr = errors.New("write failed")
	repo.pubErr = errors.New("write failed")
	repo.advErr = errors.New("write failed")

	svc := newService(repo)

	img, err := svc.GetAdImage(context.Background(), "L1", "F1")
	require.NoError(t, err)
	require.Equal(t, "a.png", img.ImageURL)
}

func TestGetAdImageExpired(t *testing.T) {
	repo := newFakeRepo()
	repo.frames["L1"] = []domain.Frame{{ListingID: "L1", FrameID: "F1", CampaignID: "cA"}}
	repo.listings["L1"] = &domain.Listing{ID: "L1", PublisherID: "pub1"}
	camp := approvedCampaign("cA", "adv1", "0")
	camp.Details.EndDate = domain.CivilDate{Year: 2020, Month: 1, Day: 1}
	repo.campaigns["cA"] = camp

	svc := newService(repo)

	_, err := svc.GetAdImage(context.Background(), "L1", "F1")
	require.ErrorIs(t, err, port.ErrCampaignExpired)
	require.Empty(t, repo.pubBumps)
}

func TestGetAdImageBudgetExhausted(t *testing.T) {
	repo := newFakeRepo()
	// malformed price falls back to 0.24; 10 clicks x 0.24 = 2.4 >= 2
	repo.frames["L1"] = []domain.Frame{{ListingID: "L1", FrameID: "F1", CampaignID: "cA", PricePerClick: "abc"}}
	repo.listings["L1"] = &domain.Listing{ID: "L1", PublisherID: "pub1"}
	camp := approvedCampaign("cA", "adv1", "2")
	camp.Clicks = 10
	repo.campaigns["cA"] = camp

	svc := newService(repo)

	_, err := svc.GetAdImage(context.Background(), "L1", "F1")
	require.ErrorIs(t, err, port.ErrBudgetExhausted)
}

func TestGetAdImageNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newService(repo)

	_, err := svc.GetAdImage(context.Background(), "L1", "F1")
	require.ErrorIs(t, err, port.ErrNotFound)
}

func TestTrackImpression(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns["cA"] = approvedCampaign("cA", "adv1", "0")

	svc := newService(repo)

	// counter starts undefined and must come back as exactly 1
	total, err := svc.TrackImpression(context.Background(), "cA")
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	total, err = svc.TrackImpression(context.Background(), "cA")
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	_, err = svc.TrackImpression(context.Background(), "nope")
	require.ErrorIs(t, err, port.ErrNotFound)
}

// TestConcurrentImpressions ensures overlapping tracking calls each land as
// exactly one increment when the store applies them atomically.
func TestConcurrentImpressions(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns["cA"] = approvedCampaign("cA", "adv1", "0")

	svc := newService(repo)

	wg := sync.WaitGroup{}
	count := 50
	wg.Add(count)
	for i := 0; i < count; i++ {
		go func() {
			defer wg.Done()
			_, _ = svc.TrackImpression(context.Background(), "cA")
		}()
	}
	wg.Wait()

	require.Equal(t, int64(count), repo.campaigns["cA"].Impressions)
}

func TestRecordClick(t *testing.T) {
	repo := newFakeRepo()
	repo.campaigns["cA"] = approvedCampaign("cA", "adv1", "0")

	svc := newService(repo)

	require.NoError(t, svc.RecordClick(context.Background(), "F1", "cA"))
	require.Len(t, repo.insertedClicks, 1)
	require.Equal(t, "F1", repo.insertedClicks[0].FrameID)
	require.NotEmpty(t, repo.insertedClicks[0].ID)
	require.Equal(t, int64(1), repo.campaigns["cA"].Clicks)
}

func TestRecordClickCounterBumpIsBestEffort(t *testing.T) {
	repo := newFakeRepo()
	repo.incClickErr = errors.New("write failed")

	svc := newService(repo)

	require.NoError(t, svc.RecordClick(context.Background(), "F1", "cA"))
	require.Len(t, repo.insertedClicks, 1)
}

func TestUpdateListing(t *testing.T) {
	repo := newFakeRepo()
	repo.listings["L1"] = &domain.Listing{
		ID:          "L1",
		PublisherID: "pub1",
		SelectedFrames: map[string]domain.FrameSelection{
			"frame1": {Size: "300x250", PricePerClick: "0.10"},
		},
	}

	svc := newService(repo)

	upd := port.ListingUpdate{
		Title:    "My site",
		Category: "Technology",
		Website:  "https://example.com",
		SelectedFrames: map[string]domain.FrameSelection{
			"frame2": {Size: "728x90", PricePerClick: "0.30"},
		},
	}
	listing, err := svc.UpdateListing(context.Background(), "L1", upd)
	require.NoError(t, err)
	require.Equal(t, "My site", listing.Title)
	// submitted frames merge over the stored selection
	require.Len(t, listing.SelectedFrames, 2)
	require.Equal(t, "0.10", listing.SelectedFrames["frame1"].PricePerClick)
	require.Equal(t, "0.30", listing.SelectedFrames["frame2"].PricePerClick)
}

func TestUpdateListingValidation(t *testing.T) {
	repo := newFakeRepo()
	repo.listings["L1"] = &domain.Listing{ID: "L1", PublisherID: "pub1"}
	svc := newService(repo)
	ctx := context.Background()

	_, err := svc.UpdateListing(ctx, "L1", port.ListingUpdate{
		Category: "Tech", Website: "https://example.com",
		SelectedFrames: map[string]domain.FrameSelection{"frame1": {PricePerClick: "0.1"}},
	})
	require.ErrorIs(t, err, port.ErrInvalidInput)

	_, err = svc.UpdateListing(ctx, "L1", port.ListingUpdate{
		Title: "t", Category: "Tech", Website: "https://example.com",
		SelectedFrames: map[string]domain.FrameSelection{},
	})
	require.ErrorIs(t, err, port.ErrInvalidInput)

	_, err = svc.UpdateListing(ctx, "L1", port.ListingUpdate{
		Title: "t", Category: "Tech", Website: "https://example.com",
		SelectedFrames: map[string]domain.FrameSelection{"frame1": {Size: "300x250"}},
	})
	require.ErrorIs(t, err, port.ErrInvalidInput)

	_, err = svc.UpdateListing(ctx, "missing", port.ListingUpdate{
		Title: "t", Category: "Tech", Website: "https://example.com",
		SelectedFrames: map[string]domain.FrameSelection{"frame1": {PricePerClick: "0.1"}},
	})
	require.ErrorIs(t, err, port.ErrNotFound)
}
