package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/inventory/backend/internal/domain/shared"
	"github.com/inventory/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// List sends a 200 success response with a total count
func (h *BaseHandler) List(c *gin.Context, data any, total int) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total))
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, shared.CodeNotFound, message)
}

// HandleBindingError turns a binding failure into a response: malformed
// field values become a 422 with per-field details, oversized bodies a 413,
// everything else a 422 with the bare message.
func (h *BaseHandler) HandleBindingError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.Error(c, http.StatusRequestEntityTooLarge, shared.CodeValidation, "Request body too large")
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		details := make([]dto.ValidationDetail, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: validationMessage(fe),
			})
		}
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewValidationErrorResponse("Request validation failed", getRequestID(c), details))
		return
	}

	h.Error(c, http.StatusUnprocessableEntity, shared.CodeValidation, err.Error())
}

// HandleDomainError converts domain errors to HTTP responses via the
// code-to-status table. Unknown error types become 500.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		resp := dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, getRequestID(c))
		if domainErr.Details != nil {
			resp.Error.Details = domainErr.Details
		}
		c.JSON(status, resp)
		return
	}

	h.Error(c, http.StatusInternalServerError, shared.CodeServerError, "An unexpected error occurred")
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "order_id":
		return "must be 1-50 uppercase letters, digits, dashes or underscores"
	case "lowercase_uuid":
		return "must be a lowercase canonical UUID"
	case "min":
		return "value below minimum " + fe.Param()
	case "max":
		return "value above maximum " + fe.Param()
	default:
		return "failed rule " + fe.Tag()
	}
}
