package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"adsync/internal/core/domain"
	"adsync/internal/core/port"
)

// handleListListings returns all listings of a publisher for the editor.
func (h *Handler) handleListListings(w http.ResponseWriter, r *http.Request) {
	publisherID := r.URL.Query().Get("publisherId")
	if publisherID == "" {
		writeError(w, http.StatusBadRequest, "missing publisherId")
		return
	}

	listings, err := h.svc.ListListings(r.Context(), publisherID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponses(listings))
}

// handleGetListing returns one listing.
func (h *Handler) handleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	listing, err := h.svc.GetListing(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(*listing))
}

// handleUpdateListing applies an editor save to a listing.
func (h *Handler) handleUpdateListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var upd port.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	listing, err := h.svc.UpdateListing(r.Context(), id, upd)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toListingResponse(*listing))
}

type listingResponse struct {
	ID             string                      `json:"id"`
	PublisherID    string                      `json:"publisherId"`
	Title          string                      `json:"title"`
	Category       string                      `json:"category"`
	Website        string                      `json:"website"`
	SelectedFrames map[string]frameSelectionTO `json:"selectedFrames"`
}

type frameSelectionTO struct {
	Size          string `json:"size"`
	PricePerClick string `json:"pricePerClick"`
}

func toListingResponse(l domain.Listing) listingResponse {
	frames := make(map[string]frameSelectionTO, len(l.SelectedFrames))
	for id, sel := range l.SelectedFrames {
		frames[id] = frameSelectionTO{Size: sel.Size, PricePerClick: sel.PricePerClick}
	}
	return listingResponse{
		ID:             l.ID,
		PublisherID:    l.PublisherID,
		Title:          l.Title,
		Category:       l.Category,
		Website:        l.Website,
		SelectedFrames: frames,
	}
}

func toListingResponses(ls []domain.Listing) []listingResponse {
	out := make([]listingResponse, 0, len(ls))
	for _, l := range ls {
		out = append(out, toListingResponse(l))
	}
	return out
}
