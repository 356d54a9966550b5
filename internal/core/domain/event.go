package domain

import "time"

// Click is one recorded click event. Rows are only ever counted per frame,
// never inspected individually.
type Click struct {
	ID         string
	FrameID    string
	CampaignID string
	CreatedAt  time.Time
}
