package domain

import "time"

// Listing is a publisher's configured page or site containing ad frames.
// SelectedFrames records which frames the publisher enabled, keyed by frame
// identifier.
type Listing struct {
	ID             string
	PublisherID    string
	Title          string
	Category       string
	Website        string
	SelectedFrames map[string]FrameSelection
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// FrameSelection is the per-frame state edited by the publisher.
type FrameSelection struct {
	Size          string `json:"size"`
	PricePerClick string `json:"pricePerClick"`
}
