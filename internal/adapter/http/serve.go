package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"adsync/internal/core/port"
)

// handleServeActiveAd resolves a listing slot to an eligible frame and
// returns it as an embeddable HTML fragment. Unlike the JSON endpoints,
// the not-found and failure responses here carry empty bodies: the caller
// is an iframe, not an API client.
func (h *Handler) handleServeActiveAd(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	listingID := q.Get("listingId")
	slotStr := q.Get("slotId")
	if listingID == "" || slotStr == "" {
		writeError(w, http.StatusBadRequest, "missing required query parameters: listingId and slotId")
		return
	}
	slotID, err := strconv.Atoi(slotStr)
	if err != nil || slotID < 1 {
		writeError(w, http.StatusBadRequest, "invalid slotId: must be a positive number")
		return
	}

	ad, err := h.svc.ServeActiveAd(r.Context(), listingID, slotID)
	switch {
	case errors.Is(err, port.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, port.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
		return
	case err != nil:
		h.logger.Error("serve active ad", slog.String("listing", listingID), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.snippet.Render(w, *ad); err != nil {
		h.logger.Error("render snippet", slog.Any("error", err))
	}
}
