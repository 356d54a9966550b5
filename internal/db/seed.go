package db

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Seed inserts demo publishers, advertisers, campaigns, listings and
// frames so the serving endpoints can be exercised locally.
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	sizes := []string{"300x250", "728x90", "640x480", "300x90", "480x640"}
	end := time.Now().AddDate(0, 1, 0)

	for i := 1; i <= 3; i++ {
		publisherID := fmt.Sprintf("pub-%d", i)
		advertiserID := fmt.Sprintf("adv-%d", i)
		campaignID := fmt.Sprintf("camp-%d", i)
		listingID := fmt.Sprintf("L%d", i)

		_, err := db.Exec(ctx, `INSERT INTO publishers (id, total_impressions, total_clicks, total_earnings)
VALUES ($1, 0, 0, 0) ON CONFLICT DO NOTHING`, publisherID)
		if err != nil {
			return err
		}
		_, err = db.Exec(ctx, `INSERT INTO advertisers (id, total_impressions, total_clicks, total_spent)
VALUES ($1, 0, 0, 0) ON CONFLICT DO NOTHING`, advertiserID)
		if err != nil {
			return err
		}

		details := map[string]any{
			"targetURL": fmt.Sprintf("https://example.com/landing/%d", i),
			"budget":    "100",
			"endDate":   map[string]int{"year": end.Year(), "month": int(end.Month()), "day": end.Day()},
		}
		detailsJSON, _ := json.Marshal(details)
		_, err = db.Exec(ctx, `INSERT INTO campaigns (id, advertiser_id, status, campaign_details, impressions, clicks)
VALUES ($1, $2, 'approved', $3, 0, 0) ON CONFLICT DO NOTHING`, campaignID, advertiserID, detailsJSON)
		if err != nil {
			return err
		}

		selected := map[string]map[string]string{}
		for j := 1; j <= 3; j++ {
			frameID := fmt.Sprintf("frame%d", j)
			size := sizes[r.Intn(len(sizes))]
			price := fmt.Sprintf("0.%02d", 10+r.Intn(40))
			selected[frameID] = map[string]string{"size": size, "pricePerClick": price}

			_, err = db.Exec(ctx, `INSERT INTO frames (listing_id, frame_id, campaign_id, uploaded_file, price_per_click, size)
VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING`,
				listingID, frameID, campaignID,
				fmt.Sprintf("https://example.com/creatives/%s-%s.png", listingID, frameID),
				price, size)
			if err != nil {
				return err
			}
		}
		selectedJSON, _ := json.Marshal(selected)
		_, err = db.Exec(ctx, `INSERT INTO listings (id, publisher_id, title, category, website, selected_frames)
VALUES ($1, $2, $3, 'Technology', $4, $5) ON CONFLICT DO NOTHING`,
			listingID, publisherID, fmt.Sprintf("Demo listing %d", i),
			fmt.Sprintf("https://publisher-%d.example.com", i), selectedJSON)
		if err != nil {
			return err
		}

		// a few historical clicks so the listing scan has spend to count
		for j := 0; j < r.Intn(5); j++ {
			_, err = db.Exec(ctx, `INSERT INTO clicks (id, frame_id, campaign_id) VALUES ($1, $2, $3)`,
				uuid.NewString(), "frame1", campaignID)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
