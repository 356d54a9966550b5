package httpadapter

import (
	"encoding/json"
	"net/http"
)

type trackImpressionRequest struct {
	Frame      string `json:"frame"`
	CampaignID string `json:"campaignId"`
}

type trackImpressionResponse struct {
	Success     bool  `json:"success"`
	Impressions int64 `json:"impressions"`
}

// handleTrackImpression is the POST tracking endpoint used by embedding
// pages. It increments the campaign impression counter and echoes the new
// total.
func (h *Handler) handleTrackImpression(w http.ResponseWriter, r *http.Request) {
	var req trackImpressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Frame == "" || req.CampaignID == "" {
		writeError(w, http.StatusBadRequest, "missing frame or campaignId")
		return
	}

	total, err := h.svc.TrackImpression(r.Context(), req.CampaignID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trackImpressionResponse{Success: true, Impressions: total})
}

// handleRecordImpression is the GET beacon fired by rendered snippets.
// Callers do not await a meaningful body, but the new total is returned
// for parity with the POST endpoint.
func (h *Handler) handleRecordImpression(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	frame := q.Get("frame")
	campaignID := q.Get("campaignId")
	if frame == "" || campaignID == "" {
		writeError(w, http.StatusBadRequest, "missing frame or campaignId")
		return
	}

	total, err := h.svc.TrackImpression(r.Context(), campaignID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trackImpressionResponse{Success: true, Impressions: total})
}

// handleRecordClick is the GET beacon fired before the snippet navigates
// to the landing page. It stores a click row for the frame and bumps the
// campaign click counter.
func (h *Handler) handleRecordClick(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	frame := q.Get("frame")
	campaignID := q.Get("campaignId")
	if frame == "" || campaignID == "" {
		writeError(w, http.StatusBadRequest, "missing frame or campaignId")
		return
	}

	if err := h.svc.RecordClick(r.Context(), frame, campaignID); err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
