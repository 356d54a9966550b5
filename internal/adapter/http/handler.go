package httpadapter

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"adsync/internal/core/port"
	"adsync/internal/render"
)

// Handler is the inbound HTTP adapter. It holds the usecase, a structured
// logger and the snippet renderer, and registers every endpoint on a
// chi.Router. All responses carry permissive CORS headers because the ad
// endpoints are called cross-origin from publisher pages.
type Handler struct {
	svc     port.AdUseCase
	logger  *slog.Logger
	snippet *render.SnippetRenderer
	router  chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.AdUseCase, logger *slog.Logger, snippet *render.SnippetRenderer) *Handler {
	h := &Handler{svc: svc, logger: logger, snippet: snippet}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/serve-active-ad", h.handleServeActiveAd)
	r.Options("/serve-active-ad", h.handlePreflight)
	r.Get("/get-ad-image", h.handleGetAdImage)
	r.Post("/track-impression", h.handleTrackImpression)
	r.Options("/track-impression", h.handlePreflight)
	r.Get("/record-impression", h.handleRecordImpression)
	r.Get("/record-click", h.handleRecordClick)

	r.Route("/listings", func(r chi.Router) {
		r.Get("/", h.handleListListings)
		r.Get("/{id}", h.handleGetListing)
		r.Put("/{id}", h.handleUpdateListing)
	})

	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

// handlePreflight acknowledges bare OPTIONS probes with 200. Real CORS
// preflights are answered by the cors middleware before reaching here.
func (h *Handler) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps usecase errors onto the JSON error contract. Business
// rule violations and bad input are 400, missing entities 404, anything
// else is logged and reported as a terse 500.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, port.ErrInvalidInput),
		errors.Is(err, port.ErrCampaignExpired),
		errors.Is(err, port.ErrBudgetExhausted):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, port.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
