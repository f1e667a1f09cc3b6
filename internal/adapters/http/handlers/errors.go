package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotefault/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotefault/internal/domain"
	"github.com/jsamuelsen/quotefault/internal/platform/logging"
)

// MapDomainError maps a domain error to a status and error envelope.
// Errors the domain does not know about become a generic 500.
func MapDomainError(err error) (int, *dto.ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest, validationResponse(err)

	case domain.IsUnauthenticated(err):
		return http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeUnauthenticated, err.Error())

	case domain.IsForbidden(err):
		return http.StatusForbidden, dto.NewErrorResponse(dto.ErrorCodeForbidden, err.Error())

	case domain.IsNotFound(err):
		return http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeNotFound, err.Error())

	case domain.IsConflict(err):
		var ce *domain.ConflictError
		if errors.As(err, &ce) && ce.Reason != "" {
			return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeConflict, ce.Reason)
		}

		return http.StatusConflict, dto.NewErrorResponse(dto.ErrorCodeConflict, err.Error())

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, dto.NewErrorResponse(dto.ErrorCodeUnavailable, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, dto.NewErrorResponse(dto.ErrorCodeTimeout, "request timed out")

	default:
		return http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred")
	}
}

// validationResponse uses the rule message as-is, e.g. "missing quote".
func validationResponse(err error) *dto.ErrorResponse {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return dto.NewErrorResponse(dto.ErrorCodeValidation, err.Error())
	}

	resp := dto.NewErrorResponse(dto.ErrorCodeValidation, ve.Message)

	if ve.Field != "" {
		detail := ve.Rule
		if detail == "" {
			detail = ve.Message
		}

		resp.Error.Details = map[string]string{ve.Field: detail}
	}

	return resp
}

// RespondWithError writes the mapped error response.
func RespondWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	respond(c, err, status, resp, false)
}

// RespondUnprocessable is RespondWithError except that validation failures
// are answered with 422.
func RespondUnprocessable(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	if domain.IsValidation(err) {
		status = http.StatusUnprocessableEntity
	}

	respond(c, err, status, resp, false)
}

// RespondWithErrorCode writes an adapter-level error, such as a malformed body.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	respond(c, nil, dto.HTTPStatusFromCode(code), dto.NewErrorResponse(code, message), false)
}

// RespondWithValidationErrors writes a 400 with per-field messages.
func RespondWithValidationErrors(c *gin.Context, fieldErrors map[string]string) {
	resp := dto.NewErrorResponseWithDetails(dto.ErrorCodeValidation, "request validation failed", fieldErrors)
	respond(c, nil, http.StatusBadRequest, resp, false)
}

// AbortWithError stops the handler chain with the mapped error response.
func AbortWithError(c *gin.Context, err error) {
	status, resp := MapDomainError(err)
	respond(c, err, status, resp, true)
}

func respond(c *gin.Context, err error, status int, resp *dto.ErrorResponse, abort bool) {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		resp.TraceID = span.SpanContext().TraceID().String()
	}

	if status == http.StatusInternalServerError && err != nil {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", err.Error(),
			"trace_id", resp.TraceID,
		)
	}

	if abort {
		c.AbortWithStatusJSON(status, resp)
		return
	}

	c.JSON(status, resp)
}

// respondBindError answers a failed BindAndValidate or BindQueryAndValidate.
func respondBindError(c *gin.Context, err error) {
	if dto.IsValidationError(err) {
		RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request")
}
