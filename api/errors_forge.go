package api

import (
	"errors"
	"net/http"

	"github.com/xraph/forge"

	gateflow "github.com/pavvel11/gateflow-sub005"
	"github.com/pavvel11/gateflow-sub005/endpoint"
)

// mapError converts domain errors to Forge HTTP errors.
func mapError(err error) error {
	var verr *endpoint.ValidationError
	var warn *endpoint.WaitlistWarning

	switch {
	case errors.As(err, &verr):
		return forge.BadRequest(verr.Error())
	case errors.As(err, &warn):
		return forge.NewHTTPError(http.StatusConflict, warn.Error())
	case errors.Is(err, gateflow.ErrEndpointNotFound):
		return forge.NotFound(err.Error())
	case errors.Is(err, gateflow.ErrAttemptNotFound):
		return forge.NotFound(err.Error())
	case errors.Is(err, gateflow.ErrAttemptNotArchivable):
		return forge.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, gateflow.ErrUnknownEventType):
		return forge.BadRequest(err.Error())
	case errors.Is(err, gateflow.ErrPayloadValidationFailed):
		return forge.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, gateflow.ErrNoStore):
		return forge.InternalError(err)
	case errors.Is(err, gateflow.ErrStoreClosed):
		return forge.InternalError(err)
	case errors.Is(err, gateflow.ErrMigrationFailed):
		return forge.InternalError(err)
	default:
		return forge.InternalError(err)
	}
}
