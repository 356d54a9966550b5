package httpadapter

import "net/http"

// handleGetAdImage serves one frame's creative metadata as JSON and applies
// impression accounting. Expired campaigns and exhausted budgets are 400,
// missing records 404.
func (h *Handler) handleGetAdImage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listingID := q.Get("listingId")
	frameID := q.Get("frameId")
	if listingID == "" || frameID == "" {
		writeError(w, http.StatusBadRequest, "missing listingId or frameId")
		return
	}

	img, err := h.svc.GetAdImage(r.Context(), listingID, frameID)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, img)
}
