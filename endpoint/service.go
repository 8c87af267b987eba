package endpoint

import (
	"context"
	"log/slog"
	"time"

	"github.com/pavvel11/gateflow-sub005/catalog"
	"github.com/pavvel11/gateflow-sub005/id"
	"github.com/pavvel11/gateflow-sub005/safeurl"
	"github.com/pavvel11/gateflow-sub005/signature"
)

// Service provides endpoint management operations: CRUD, activation, secret
// rotation, and the waitlist-dependency confirmation guard.
type Service struct {
	store    Store
	catalog  *catalog.Catalog
	waitlist WaitlistChecker // may be nil; guard degrades to a no-op
	urlOpts  safeurl.Options
	logger   *slog.Logger
}

// NewService creates a new endpoint service.
func NewService(store Store, cat *catalog.Catalog, waitlist WaitlistChecker, urlOpts safeurl.Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		catalog:  cat,
		waitlist: waitlist,
		urlOpts:  urlOpts,
		logger:   logger,
	}
}

// Create registers a new webhook endpoint. The URL must pass the SSRF rules
// and every subscribed event must be in the taxonomy. New endpoints start
// active; a signing secret is generated when the input has none.
func (svc *Service) Create(ctx context.Context, in Input) (*Endpoint, error) {
	if err := safeurl.Validate(in.URL, svc.urlOpts); err != nil {
		return nil, &ValidationError{Field: "url", Message: err.Error()}
	}
	if err := svc.catalog.ValidateEventList(in.Events); err != nil {
		return nil, &ValidationError{Field: "events", Message: err.Error()}
	}

	secret := in.Secret
	if secret == "" {
		secret = signature.GenerateSecret()
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	now := time.Now().UTC()
	ep := &Endpoint{
		ID:          id.NewEndpointID(),
		URL:         in.URL,
		Description: in.Description,
		Secret:      secret,
		Events:      in.Events,
		Headers:     in.Headers,
		Active:      active,
		RateLimit:   in.RateLimit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := svc.store.CreateEndpoint(ctx, ep); err != nil {
		return nil, err
	}

	svc.logger.Info("webhook endpoint created",
		slog.String("endpoint_id", ep.ID.String()),
		slog.String("url", ep.URL))

	return ep, nil
}

// Get returns an endpoint by ID.
func (svc *Service) Get(ctx context.Context, epID id.ID) (*Endpoint, error) {
	return svc.store.GetEndpoint(ctx, epID)
}

// List returns endpoints, optionally filtered.
func (svc *Service) List(ctx context.Context, opts ListOpts) ([]*Endpoint, error) {
	return svc.store.ListEndpoints(ctx, opts)
}

// Update modifies an existing endpoint. Zero-value input fields leave the
// corresponding endpoint fields unchanged; the secret is never touched here.
// If the update would strip the last active waitlist.signup subscription
// while products depend on signups, the guard returns *WaitlistWarning
// unless confirm is set.
func (svc *Service) Update(ctx context.Context, epID id.ID, in Input, confirm bool) (*Endpoint, error) {
	ep, err := svc.store.GetEndpoint(ctx, epID)
	if err != nil {
		return nil, err
	}

	next := *ep
	if in.URL != "" {
		if err := safeurl.Validate(in.URL, svc.urlOpts); err != nil {
			return nil, &ValidationError{Field: "url", Message: err.Error()}
		}
		next.URL = in.URL
	}
	if in.Description != "" {
		next.Description = in.Description
	}
	if len(in.Events) > 0 {
		if err := svc.catalog.ValidateEventList(in.Events); err != nil {
			return nil, &ValidationError{Field: "events", Message: err.Error()}
		}
		next.Events = in.Events
	}
	if in.Headers != nil {
		next.Headers = in.Headers
	}
	if in.RateLimit >= 0 {
		next.RateLimit = in.RateLimit
	}
	if in.Active != nil {
		next.Active = *in.Active
	}

	wasCovering := ep.Active && ep.Subscribes(catalog.WaitlistSignup)
	stillCovering := next.Active && next.Subscribes(catalog.WaitlistSignup)
	if wasCovering && !stillCovering {
		if err := svc.waitlistGuard(ctx, epID, confirm); err != nil {
			return nil, err
		}
	}

	next.UpdatedAt = time.Now().UTC()
	if err := svc.store.UpdateEndpoint(ctx, &next); err != nil {
		return nil, err
	}

	return &next, nil
}

// Delete removes an endpoint. Attempts logged against it survive with their
// endpoint reference cleared. Deleting the last active waitlist.signup
// subscriber triggers the confirmation guard.
func (svc *Service) Delete(ctx context.Context, epID id.ID, confirm bool) error {
	ep, err := svc.store.GetEndpoint(ctx, epID)
	if err != nil {
		return err
	}

	if ep.Active && ep.Subscribes(catalog.WaitlistSignup) {
		if err := svc.waitlistGuard(ctx, epID, confirm); err != nil {
			return err
		}
	}

	if err := svc.store.DeleteEndpoint(ctx, epID); err != nil {
		return err
	}

	svc.logger.Info("webhook endpoint deleted",
		slog.String("endpoint_id", epID.String()))
	return nil
}

// SetActive activates or deactivates an endpoint and returns the new state.
// Setting the current state again is a no-op.
func (svc *Service) SetActive(ctx context.Context, epID id.ID, active bool) (*Endpoint, error) {
	ep, err := svc.store.GetEndpoint(ctx, epID)
	if err != nil {
		return nil, err
	}
	if ep.Active == active {
		return ep, nil
	}

	if err := svc.store.SetActive(ctx, epID, active); err != nil {
		return nil, err
	}

	ep.Active = active
	ep.UpdatedAt = time.Now().UTC()
	return ep, nil
}

// RotateSecret generates a new signing secret for an endpoint. Deliveries
// signed with the previous secret stop verifying immediately.
func (svc *Service) RotateSecret(ctx context.Context, epID id.ID) (string, error) {
	ep, err := svc.store.GetEndpoint(ctx, epID)
	if err != nil {
		return "", err
	}

	ep.Secret = signature.GenerateSecret()
	ep.UpdatedAt = time.Now().UTC()
	if err := svc.store.UpdateEndpoint(ctx, ep); err != nil {
		return "", err
	}

	svc.logger.Info("webhook endpoint secret rotated",
		slog.String("endpoint_id", epID.String()))

	return ep.Secret, nil
}

// waitlistGuard blocks the removal of waitlist.signup coverage when epID is
// the last active subscriber and products depend on signups. The check is
// advisory: coverage can still change between the check and the write.
func (svc *Service) waitlistGuard(ctx context.Context, epID id.ID, confirm bool) error {
	if confirm || svc.waitlist == nil {
		return nil
	}

	subs, err := svc.store.Subscribers(ctx, catalog.WaitlistSignup)
	if err != nil {
		return err
	}
	for _, other := range subs {
		if other.ID.String() != epID.String() {
			return nil // another active endpoint keeps coverage
		}
	}

	count, err := svc.waitlist.CountDependentProducts(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return &WaitlistWarning{DependentProducts: count}
	}
	return nil
}

// ValidationError indicates invalid input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "endpoint validation: " + e.Field + ": " + e.Message
}
