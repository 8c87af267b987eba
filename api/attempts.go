package api

import (
	"net/http"

	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/id"
)

func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	// Missing status defaults to the failed view.
	filter, ok := delivery.ParseFilter(queryParam(r, "status"))
	if !ok {
		writeError(w, http.StatusBadRequest, "status must be one of all, success, failed, archived")
		return
	}

	atts, listErr := h.hub.Logs().List(r.Context(), epID, delivery.ListOpts{
		Filter: filter,
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 50),
	})
	if listErr != nil {
		h.writeServiceError(w, listErr)
		return
	}
	if atts == nil {
		atts = []*delivery.Attempt{}
	}

	writeJSON(w, http.StatusOK, atts)
}

func (h *Handler) getAttempt(w http.ResponseWriter, r *http.Request) {
	attID, err := id.ParseAttemptID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attempt ID")
		return
	}

	att, getErr := h.hub.Logs().Get(r.Context(), attID)
	if getErr != nil {
		h.writeServiceError(w, getErr)
		return
	}

	writeJSON(w, http.StatusOK, att)
}

func (h *Handler) retryAttempt(w http.ResponseWriter, r *http.Request) {
	attID, err := id.ParseAttemptID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attempt ID")
		return
	}

	att, retryErr := h.hub.Logs().Retry(r.Context(), attID)
	if retryErr != nil {
		h.writeServiceError(w, retryErr)
		return
	}

	writeJSON(w, http.StatusCreated, att)
}

func (h *Handler) archiveAttempt(w http.ResponseWriter, r *http.Request) {
	attID, err := id.ParseAttemptID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid attempt ID")
		return
	}

	if archiveErr := h.hub.Logs().Archive(r.Context(), attID); archiveErr != nil {
		h.writeServiceError(w, archiveErr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
