package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pavvel11/gateflow-sub005/delivery"
)

type publishRequest struct {
	EventType string          `json:"event_type"`
	Data      json.RawMessage `json:"data"`
}

// publish is the business-event ingress: the rest of the platform posts here
// when something happens, and the hub fans the event out to subscribers.
func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EventType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "event_type is required",
			"field": "event_type",
		})
		return
	}

	atts, err := h.hub.Publish(r.Context(), req.EventType, req.Data)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if atts == nil {
		atts = []*delivery.Attempt{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"event_type": req.EventType,
		"deliveries": len(atts),
		"attempts":   atts,
	})
}

func (h *Handler) listEventTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.hub.Catalog().List())
}

func (h *Handler) listFailures(w http.ResponseWriter, r *http.Request) {
	window := h.hub.Config().FailureWindow
	if v := queryParam(r, "window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive duration, e.g. 24h")
			return
		}
		window = d
	}

	sum, err := h.hub.Monitor().Summarize(r.Context(), window)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.hub.Logs().Counts(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total_attempts": total,
		"success":        counts[delivery.StatusSuccess],
		"failed":         counts[delivery.StatusFailed],
		"archived":       counts[delivery.StatusArchived],
	})
}
