package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"booking-flow/internal/auth"
	"booking-flow/internal/draft"
	"booking-flow/internal/flow"
	"booking-flow/internal/models"
	"booking-flow/internal/service"
	"booking-flow/internal/validation"
)

type errorResponse struct {
	Message     string            `json:"message"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	View        *flow.View        `json:"view,omitempty"`
}

func newErrorResponse(c *gin.Context, statusCode int, message string) {
	logrus.Error(message)
	c.AbortWithStatusJSON(statusCode, errorResponse{Message: message})
}

// writeError maps a domain error to its status. view, when given, is the
// flow state after the failed action.
func writeError(c *gin.Context, err error, view *flow.View) {
	status, resp := classify(err)
	resp.View = view
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.AbortWithStatusJSON(status, resp)
}

func classify(err error) (int, errorResponse) {
	var (
		verr *validation.Errors
		serr *flow.SinkError
		uerr *flow.UnexpectedError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorResponse{Message: "validation failed", FieldErrors: verr.Fields}
	case errors.As(err, &serr):
		return http.StatusBadGateway, errorResponse{Message: serr.Message}
	case errors.As(err, &uerr):
		return http.StatusInternalServerError, errorResponse{Message: flow.GenericMessage}
	case errors.Is(err, flow.ErrSubmissionInFlight),
		errors.Is(err, flow.ErrConfirmed),
		errors.Is(err, flow.ErrNoNextStep),
		errors.Is(err, flow.ErrNotFinalStep),
		errors.Is(err, flow.ErrDetached),
		errors.Is(err, auth.ErrDuplicateAccount):
		return http.StatusConflict, errorResponse{Message: err.Error()}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: err.Error()}
	case errors.Is(err, auth.ErrRateLimited):
		return http.StatusTooManyRequests, errorResponse{Message: err.Error()}
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, errorResponse{Message: "not found"}
	case errors.Is(err, service.ErrUnknownKind),
		errors.Is(err, service.ErrHandoffUnsupported),
		errors.Is(err, service.ErrDecode),
		errors.Is(err, draft.ErrPatch),
		errors.Is(err, models.ErrHandoffMissing):
		return http.StatusBadRequest, errorResponse{Message: err.Error()}
	}
	return http.StatusInternalServerError, errorResponse{Message: flow.GenericMessage}
}
