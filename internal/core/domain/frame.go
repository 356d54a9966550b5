package domain

import (
	"strconv"
	"strings"
	"time"
)

// Default creative dimensions used when a frame carries no parseable size.
const (
	DefaultFrameWidth  = 300
	DefaultFrameHeight = 250
)

// Frame is an individually addressable ad slot inside a listing. It points
// at the campaign paying for it and the creative to display. Frames are
// created by the listing editor and are read-only to the serving path.
type Frame struct {
	ListingID  string
	FrameID    string
	CampaignID string
	// UploadedFile is either an absolute URL or a storage key that must be
	// resolved against the creative base URL.
	UploadedFile string
	// PricePerClick is kept as text; legacy rows may hold malformed values
	// and each serving path substitutes its own default.
	PricePerClick string
	// Size is a "WxH" string, e.g. "300x250".
	Size      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Dimensions parses the frame's "WxH" size. Malformed or missing sizes fall
// back to 300x250.
func (f Frame) Dimensions() (width, height int) {
	ws, hs, ok := strings.Cut(f.Size, "x")
	if !ok {
		return DefaultFrameWidth, DefaultFrameHeight
	}
	width, werr := strconv.Atoi(strings.TrimSpace(ws))
	height, herr := strconv.Atoi(strings.TrimSpace(hs))
	if werr != nil || herr != nil || width <= 0 || height <= 0 {
		return DefaultFrameWidth, DefaultFrameHeight
	}
	return width, height
}

// CreativeURL resolves the uploaded file reference. Absolute URLs are
// returned as-is; storage keys are joined onto base.
func (f Frame) CreativeURL(base string) string {
	if strings.HasPrefix(f.UploadedFile, "http://") || strings.HasPrefix(f.UploadedFile, "https://") {
		return f.UploadedFile
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(f.UploadedFile, "/")
}
