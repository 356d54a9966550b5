package domain

import "time"

// StatusApproved is the only campaign status the serving path will deliver.
const StatusApproved = "approved"

// Campaign is an advertiser's ad buy. The running impression and click
// counters are maintained by the accounting ledger and never decremented.
type Campaign struct {
	ID           string
	AdvertiserID string
	Status       string // approved, pending, rejected
	Details      CampaignDetails
	Impressions  int64
	Clicks       int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CampaignDetails is the nested campaign_details document.
type CampaignDetails struct {
	TargetURL string    `json:"targetURL"`
	Budget    Money     `json:"budget"`
	EndDate   CivilDate `json:"endDate"`
}

// TargetURL returns the campaign's landing page, or fallback when none is
// configured.
func (c Campaign) TargetURL(fallback string) string {
	if c.Details.TargetURL == "" {
		return fallback
	}
	return c.Details.TargetURL
}
