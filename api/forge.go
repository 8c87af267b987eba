package api

import (
	"net/http"
	"time"

	"github.com/xraph/forge"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/catalog"
	"github.com/pavvel11/gateflow-sub005/delivery"
	"github.com/pavvel11/gateflow-sub005/endpoint"
	"github.com/pavvel11/gateflow-sub005/id"
	"github.com/pavvel11/gateflow-sub005/monitor"
)

// ForgeAPI exposes the admin API as Forge routes with OpenAPI metadata.
type ForgeAPI struct {
	hub *gateflow.Hub
	log forge.Logger
}

// NewForgeAPI creates a ForgeAPI over the hub.
func NewForgeAPI(hub *gateflow.Hub, log forge.Logger) *ForgeAPI {
	return &ForgeAPI{hub: hub, log: log}
}

// RegisterRoutes registers all admin API routes into the given Forge router.
func (a *ForgeAPI) RegisterRoutes(router forge.Router) {
	a.registerEndpointRoutes(router)
	a.registerAttemptRoutes(router)
	a.registerIngressRoutes(router)
}

// mustRegister logs a route registration failure and keeps going, so one bad
// route cannot take down the rest of the API.
func (a *ForgeAPI) mustRegister(name string, err error) {
	if err != nil {
		a.log.Error("Failed to register "+name+" route", forge.Error(err))
	}
}

// ---------------------------------------------------------------------------
// Endpoint routes
// ---------------------------------------------------------------------------

func (a *ForgeAPI) registerEndpointRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("endpoints"))

	a.mustRegister("createEndpoint", g.POST("/endpoints", a.createEndpoint,
		forge.WithSummary("Create endpoint"),
		forge.WithDescription("Registers a new webhook destination. The URL must pass the SSRF safety rules and every subscribed event must be in the taxonomy."),
		forge.WithOperationID("createEndpoint"),
		forge.WithRequestSchema(CreateEndpointForgeRequest{}),
		forge.WithCreatedResponse(endpoint.Endpoint{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("listEndpoints", g.GET("/endpoints", a.listEndpoints,
		forge.WithSummary("List endpoints"),
		forge.WithDescription("Returns a paginated list of webhook endpoints."),
		forge.WithOperationID("listEndpoints"),
		forge.WithRequestSchema(ListEndpointsForgeRequest{}),
		forge.WithListResponse(endpoint.Endpoint{}, http.StatusOK),
		forge.WithErrorResponses(),
	))

	a.mustRegister("getEndpoint", g.GET("/endpoints/:endpointId", a.getEndpoint,
		forge.WithSummary("Get endpoint"),
		forge.WithDescription("Returns details of a specific endpoint."),
		forge.WithOperationID("getEndpoint"),
		forge.WithResponseSchema(http.StatusOK, "Endpoint details", endpoint.Endpoint{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("updateEndpoint", g.PUT("/endpoints/:endpointId", a.updateEndpoint,
		forge.WithSummary("Update endpoint"),
		forge.WithDescription("Updates mutable fields of an endpoint. Dropping the last active waitlist.signup subscription returns 409 until repeated with confirm=true."),
		forge.WithOperationID("updateEndpoint"),
		forge.WithRequestSchema(UpdateEndpointForgeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated endpoint", endpoint.Endpoint{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("deleteEndpoint", g.DELETE("/endpoints/:endpointId", a.deleteEndpoint,
		forge.WithSummary("Delete endpoint"),
		forge.WithDescription("Deletes an endpoint. Logged attempts survive with their endpoint reference cleared. Deleting the last active waitlist.signup subscriber returns 409 until repeated with confirm=true."),
		forge.WithOperationID("deleteEndpoint"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	))

	a.mustRegister("activateEndpoint", g.PATCH("/endpoints/:endpointId/activate", a.activateEndpoint,
		forge.WithSummary("Activate endpoint"),
		forge.WithDescription("Resumes deliveries to the endpoint. Idempotent."),
		forge.WithOperationID("activateEndpoint"),
		forge.WithResponseSchema(http.StatusOK, "Updated endpoint", endpoint.Endpoint{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("deactivateEndpoint", g.PATCH("/endpoints/:endpointId/deactivate", a.deactivateEndpoint,
		forge.WithSummary("Deactivate endpoint"),
		forge.WithDescription("Pauses deliveries to the endpoint without deleting it. Idempotent."),
		forge.WithOperationID("deactivateEndpoint"),
		forge.WithResponseSchema(http.StatusOK, "Updated endpoint", endpoint.Endpoint{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("getEndpointSecret", g.GET("/endpoints/:endpointId/secret", a.getSecretForge,
		forge.WithSummary("Reveal signing secret"),
		forge.WithDescription("Returns the endpoint's HMAC signing secret for operator configuration of the destination."),
		forge.WithOperationID("getEndpointSecret"),
		forge.WithErrorResponses(),
	))

	a.mustRegister("rotateEndpointSecret", g.POST("/endpoints/:endpointId/rotate-secret", a.rotateSecretForge,
		forge.WithSummary("Rotate signing secret"),
		forge.WithDescription("Generates a new signing secret. Deliveries signed with the previous secret stop verifying immediately."),
		forge.WithOperationID("rotateEndpointSecret"),
		forge.WithErrorResponses(),
	))

	a.mustRegister("testEndpoint", g.POST("/endpoints/:endpointId/test", a.testSendForge,
		forge.WithSummary("Send test webhook"),
		forge.WithDescription("Delivers a synthetic event built from the catalog's example template and logs a manual attempt."),
		forge.WithOperationID("testEndpoint"),
		forge.WithRequestSchema(TestSendForgeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Logged attempt", delivery.Attempt{}),
		forge.WithErrorResponses(),
	))
}

func (a *ForgeAPI) createEndpoint(ctx forge.Context, req *CreateEndpointForgeRequest) (*endpoint.Endpoint, error) {
	ep, err := a.hub.Endpoints().Create(ctx.Context(), endpoint.Input{
		URL:         req.URL,
		Description: req.Description,
		Events:      req.Events,
		Headers:     req.Headers,
		RateLimit:   req.RateLimit,
	})
	if err != nil {
		return nil, mapError(err)
	}

	if err := ctx.JSON(http.StatusCreated, ep); err != nil {
		return nil, mapError(err)
	}

	//nolint:nilnil // response already written via ctx.JSON.
	return nil, nil
}

func (a *ForgeAPI) listEndpoints(ctx forge.Context, req *ListEndpointsForgeRequest) ([]*endpoint.Endpoint, error) {
	limit := req.Limit
	if limit == 0 {
		limit = 50
	}

	opts := endpoint.ListOpts{Offset: req.Offset, Limit: limit}
	switch req.Active {
	case "true":
		v := true
		opts.Active = &v
	case "false":
		v := false
		opts.Active = &v
	}

	eps, err := a.hub.Endpoints().List(ctx.Context(), opts)
	if err != nil {
		return nil, mapError(err)
	}
	return eps, nil
}

func (a *ForgeAPI) getEndpoint(ctx forge.Context, req *GetEndpointForgeRequest) (*endpoint.Endpoint, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	ep, getErr := a.hub.Endpoints().Get(ctx.Context(), epID)
	if getErr != nil {
		return nil, mapError(getErr)
	}
	return ep, nil
}

func (a *ForgeAPI) updateEndpoint(ctx forge.Context, req *UpdateEndpointForgeRequest) (*endpoint.Endpoint, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	ep, updateErr := a.hub.Endpoints().Update(ctx.Context(), epID, endpoint.Input{
		URL:         req.URL,
		Description: req.Description,
		Events:      req.Events,
		Headers:     req.Headers,
		RateLimit:   req.RateLimit,
		Active:      req.Active,
	}, req.Confirm == "true")
	if updateErr != nil {
		return nil, mapError(updateErr)
	}
	return ep, nil
}

func (a *ForgeAPI) deleteEndpoint(ctx forge.Context, req *DeleteEndpointForgeRequest) (*endpoint.Endpoint, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	if deleteErr := a.hub.Endpoints().Delete(ctx.Context(), epID, req.Confirm == "true"); deleteErr != nil {
		return nil, mapError(deleteErr)
	}

	if err := ctx.NoContent(http.StatusNoContent); err != nil {
		return nil, mapError(err)
	}

	//nolint:nilnil // response already written via ctx.NoContent.
	return nil, nil
}

func (a *ForgeAPI) activateEndpoint(ctx forge.Context, req *EndpointActionForgeRequest) (*endpoint.Endpoint, error) {
	return a.setActiveForge(ctx, req, true)
}

func (a *ForgeAPI) deactivateEndpoint(ctx forge.Context, req *EndpointActionForgeRequest) (*endpoint.Endpoint, error) {
	return a.setActiveForge(ctx, req, false)
}

func (a *ForgeAPI) setActiveForge(ctx forge.Context, req *EndpointActionForgeRequest, active bool) (*endpoint.Endpoint, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	ep, setErr := a.hub.Endpoints().SetActive(ctx.Context(), epID, active)
	if setErr != nil {
		return nil, mapError(setErr)
	}
	return ep, nil
}

type secretResponse struct {
	Secret string `json:"secret"`
}

func (a *ForgeAPI) getSecretForge(ctx forge.Context, req *EndpointActionForgeRequest) (*secretResponse, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	ep, getErr := a.hub.Endpoints().Get(ctx.Context(), epID)
	if getErr != nil {
		return nil, mapError(getErr)
	}
	return &secretResponse{Secret: ep.Secret}, nil
}

func (a *ForgeAPI) rotateSecretForge(ctx forge.Context, req *EndpointActionForgeRequest) (*secretResponse, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	secret, rotateErr := a.hub.Endpoints().RotateSecret(ctx.Context(), epID)
	if rotateErr != nil {
		return nil, mapError(rotateErr)
	}
	return &secretResponse{Secret: secret}, nil
}

func (a *ForgeAPI) testSendForge(ctx forge.Context, req *TestSendForgeRequest) (*delivery.Attempt, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	if req.EventType != "" && !a.hub.Catalog().IsValid(req.EventType) {
		return nil, forge.BadRequest("unknown event type: " + req.EventType)
	}

	att, sendErr := a.hub.TestSender().Send(ctx.Context(), epID, req.EventType)
	if sendErr != nil {
		return nil, mapError(sendErr)
	}
	return att, nil
}

// ---------------------------------------------------------------------------
// Delivery log routes
// ---------------------------------------------------------------------------

func (a *ForgeAPI) registerAttemptRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("attempts"))

	a.mustRegister("listAttempts", g.GET("/endpoints/:endpointId/attempts", a.listAttemptsForge,
		forge.WithSummary("List delivery attempts"),
		forge.WithDescription("Returns an endpoint's delivery log, newest-first. The default view shows failed attempts."),
		forge.WithOperationID("listAttempts"),
		forge.WithRequestSchema(ListAttemptsForgeRequest{}),
		forge.WithListResponse(delivery.Attempt{}, http.StatusOK),
		forge.WithErrorResponses(),
	))

	a.mustRegister("getAttempt", g.GET("/attempts/:attemptId", a.getAttemptForge,
		forge.WithSummary("Get delivery attempt"),
		forge.WithDescription("Returns one attempt, including the exact payload sent and the destination's response."),
		forge.WithOperationID("getAttempt"),
		forge.WithResponseSchema(http.StatusOK, "Attempt details", delivery.Attempt{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("retryAttempt", g.POST("/attempts/:attemptId/retry", a.retryAttemptForge,
		forge.WithSummary("Retry delivery"),
		forge.WithDescription("Re-delivers the event recovered from the attempt's stored payload, appending a new attempt row. Fails with 404 if the endpoint no longer exists."),
		forge.WithOperationID("retryAttempt"),
		forge.WithCreatedResponse(delivery.Attempt{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("archiveAttempt", g.POST("/attempts/:attemptId/archive", a.archiveAttemptForge,
		forge.WithSummary("Archive attempt"),
		forge.WithDescription("Dismisses a failed attempt from the default failure view. Terminal; history is kept."),
		forge.WithOperationID("archiveAttempt"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	))
}

func (a *ForgeAPI) listAttemptsForge(ctx forge.Context, req *ListAttemptsForgeRequest) ([]*delivery.Attempt, error) {
	epID, err := id.ParseEndpointID(req.EndpointID)
	if err != nil {
		return nil, forge.BadRequest("invalid endpoint ID")
	}

	filter, ok := delivery.ParseFilter(req.Status)
	if !ok {
		return nil, forge.BadRequest("status must be one of all, success, failed, archived")
	}

	limit := req.Limit
	if limit == 0 {
		limit = 50
	}

	atts, listErr := a.hub.Logs().List(ctx.Context(), epID, delivery.ListOpts{
		Filter: filter,
		Offset: req.Offset,
		Limit:  limit,
	})
	if listErr != nil {
		return nil, mapError(listErr)
	}
	return atts, nil
}

func (a *ForgeAPI) getAttemptForge(ctx forge.Context, req *AttemptActionForgeRequest) (*delivery.Attempt, error) {
	attID, err := id.ParseAttemptID(req.AttemptID)
	if err != nil {
		return nil, forge.BadRequest("invalid attempt ID")
	}

	att, getErr := a.hub.Logs().Get(ctx.Context(), attID)
	if getErr != nil {
		return nil, mapError(getErr)
	}
	return att, nil
}

func (a *ForgeAPI) retryAttemptForge(ctx forge.Context, req *AttemptActionForgeRequest) (*delivery.Attempt, error) {
	attID, err := id.ParseAttemptID(req.AttemptID)
	if err != nil {
		return nil, forge.BadRequest("invalid attempt ID")
	}

	att, retryErr := a.hub.Logs().Retry(ctx.Context(), attID)
	if retryErr != nil {
		return nil, mapError(retryErr)
	}

	if err := ctx.JSON(http.StatusCreated, att); err != nil {
		return nil, mapError(err)
	}

	//nolint:nilnil // response already written via ctx.JSON.
	return nil, nil
}

func (a *ForgeAPI) archiveAttemptForge(ctx forge.Context, req *AttemptActionForgeRequest) (*delivery.Attempt, error) {
	attID, err := id.ParseAttemptID(req.AttemptID)
	if err != nil {
		return nil, forge.BadRequest("invalid attempt ID")
	}

	if archiveErr := a.hub.Logs().Archive(ctx.Context(), attID); archiveErr != nil {
		return nil, mapError(archiveErr)
	}

	if err := ctx.NoContent(http.StatusNoContent); err != nil {
		return nil, mapError(err)
	}

	//nolint:nilnil // response already written via ctx.NoContent.
	return nil, nil
}

// ---------------------------------------------------------------------------
// Ingress, taxonomy, and aggregation routes
// ---------------------------------------------------------------------------

type publishResponse struct {
	EventType  string              `json:"event_type"`
	Deliveries int                 `json:"deliveries"`
	Attempts   []*delivery.Attempt `json:"attempts"`
}

func (a *ForgeAPI) registerIngressRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("events"))

	a.mustRegister("publishEvent", g.POST("/publish", a.publishForge,
		forge.WithSummary("Publish business event"),
		forge.WithDescription("Fans a business event out to every active subscribed endpoint, one delivery attempt per endpoint."),
		forge.WithOperationID("publishEvent"),
		forge.WithRequestSchema(PublishForgeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Fan-out result", publishResponse{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("listEventTypes", g.GET("/event-types", a.listEventTypesForge,
		forge.WithSummary("List event types"),
		forge.WithDescription("Returns the built-in event taxonomy with schemas and example payloads."),
		forge.WithOperationID("listEventTypes"),
		forge.WithErrorResponses(),
	))

	a.mustRegister("listFailures", g.GET("/failures", a.listFailuresForge,
		forge.WithSummary("Summarize recent failures"),
		forge.WithDescription("Aggregates failed deliveries across endpoints within the look-back window."),
		forge.WithOperationID("listFailures"),
		forge.WithRequestSchema(ListFailuresForgeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Failure summary", monitor.Summary{}),
		forge.WithErrorResponses(),
	))

	a.mustRegister("getStats", g.GET("/stats", a.getStatsForge,
		forge.WithSummary("Delivery statistics"),
		forge.WithDescription("Returns attempt counts per status."),
		forge.WithOperationID("getStats"),
		forge.WithErrorResponses(),
	))
}

func (a *ForgeAPI) publishForge(ctx forge.Context, req *PublishForgeRequest) (*publishResponse, error) {
	if req.EventType == "" {
		return nil, forge.BadRequest("event_type is required")
	}

	atts, err := a.hub.Publish(ctx.Context(), req.EventType, req.Data)
	if err != nil {
		return nil, mapError(err)
	}
	if atts == nil {
		atts = []*delivery.Attempt{}
	}

	return &publishResponse{
		EventType:  req.EventType,
		Deliveries: len(atts),
		Attempts:   atts,
	}, nil
}

func (a *ForgeAPI) listEventTypesForge(ctx forge.Context, _ *ListEventTypesForgeRequest) ([]catalog.Definition, error) {
	return a.hub.Catalog().List(), nil
}

func (a *ForgeAPI) listFailuresForge(ctx forge.Context, req *ListFailuresForgeRequest) (*monitor.Summary, error) {
	window := a.hub.Config().FailureWindow
	if req.Window != "" {
		d, err := time.ParseDuration(req.Window)
		if err != nil || d <= 0 {
			return nil, forge.BadRequest("window must be a positive duration, e.g. 24h")
		}
		window = d
	}

	sum, err := a.hub.Monitor().Summarize(ctx.Context(), window)
	if err != nil {
		return nil, mapError(err)
	}
	return sum, nil
}

type statsResponse struct {
	TotalAttempts int `json:"total_attempts"`
	Success       int `json:"success"`
	Failed        int `json:"failed"`
	Archived      int `json:"archived"`
}

func (a *ForgeAPI) getStatsForge(ctx forge.Context, _ *StatsForgeRequest) (*statsResponse, error) {
	counts, err := a.hub.Logs().Counts(ctx.Context())
	if err != nil {
		return nil, mapError(err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	return &statsResponse{
		TotalAttempts: total,
		Success:       counts[delivery.StatusSuccess],
		Failed:        counts[delivery.StatusFailed],
		Archived:      counts[delivery.StatusArchived],
	}, nil
}
