package api

import (
	"net/http"

	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
)

type endpointRequest struct {
	URL         string            `json:"url"`
	Description string            `json:"description"`
	Events      []string          `json:"events"`
	Headers     map[string]string `json:"headers,omitempty"`
	RateLimit   int               `json:"rate_limit,omitempty"`
	Active      *bool             `json:"active,omitempty"`
}

func (req endpointRequest) input() endpoint.Input {
	return endpoint.Input{
		URL:         req.URL,
		Description: req.Description,
		Events:      req.Events,
		Headers:     req.Headers,
		RateLimit:   req.RateLimit,
		Active:      req.Active,
	}
}

func (h *Handler) createEndpoint(w http.ResponseWriter, r *http.Request) {
	var req endpointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ep, err := h.hub.Endpoints().Create(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, ep)
}

func (h *Handler) listEndpoints(w http.ResponseWriter, r *http.Request) {
	opts := endpoint.ListOpts{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 50),
	}
	switch queryParam(r, "active") {
	case "true":
		v := true
		opts.Active = &v
	case "false":
		v := false
		opts.Active = &v
	}

	eps, err := h.hub.Endpoints().List(r.Context(), opts)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if eps == nil {
		eps = []*endpoint.Endpoint{}
	}

	writeJSON(w, http.StatusOK, eps)
}

func (h *Handler) getEndpoint(w http.ResponseWriter, r *http.Request) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	ep, getErr := h.hub.Endpoints().Get(r.Context(), epID)
	if getErr != nil {
		h.writeServiceError(w, getErr)
		return
	}

	writeJSON(w, http.StatusOK, ep)
}

func (h *Handler) updateEndpoint(w http.ResponseWriter, r *http.Request) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	var req endpointRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ep, updateErr := h.hub.Endpoints().Update(r.Context(), epID, req.input(), confirmParam(r))
	if updateErr != nil {
		h.writeServiceError(w, updateErr)
		return
	}

	writeJSON(w, http.StatusOK, ep)
}

func (h *Handler) deleteEndpoint(w http.ResponseWriter, r *http.Request) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	if deleteErr := h.hub.Endpoints().Delete(r.Context(), epID, confirmParam(r)); deleteErr != nil {
		h.writeServiceError(w, deleteErr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) activateEndpoint(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) deactivateEndpoint(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	ep, setErr := h.hub.Endpoints().SetActive(r.Context(), epID, active)
	if setErr != nil {
		h.writeServiceError(w, setErr)
		return
	}

	writeJSON(w, http.StatusOK, ep)
}

func (h *Handler) getSecret(w http.ResponseWriter, r *http.Request) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	ep, getErr := h.hub.Endpoints().Get(r.Context(), epID)
	if getErr != nil {
		h.writeServiceError(w, getErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"secret": ep.Secret})
}

func (h *Handler) rotateSecret(w http.ResponseWriter, r *http.Request) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	secret, rotateErr := h.hub.Endpoints().RotateSecret(r.Context(), epID)
	if rotateErr != nil {
		h.writeServiceError(w, rotateErr)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"secret": secret})
}

type testSendRequest struct {
	EventType string `json:"event_type"`
}

func (h *Handler) testSend(w http.ResponseWriter, r *http.Request) {
	epID, err := id.ParseEndpointID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endpoint ID")
		return
	}

	var req testSendRequest
	if decodeErr := decodeJSON(r, &req); decodeErr != nil && r.ContentLength > 0 {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.EventType != "" && !h.hub.Catalog().IsValid(req.EventType) {
		writeError(w, http.StatusBadRequest, "unknown event type: "+req.EventType)
		return
	}

	att, sendErr := h.hub.TestSender().Send(r.Context(), epID, req.EventType)
	if sendErr != nil {
		h.writeServiceError(w, sendErr)
		return
	}

	writeJSON(w, http.StatusOK, att)
}
