package middleware

import (
	"errors"
	"net/http"

	"quizhub/internal/domain"
	"quizhub/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Status  int                    `json:"status"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ValidationErrorResponse represents validation error response
type ValidationErrorResponse struct {
	Code    string                   `json:"code"`
	Message string                   `json:"message"`
	Status  int                      `json:"status"`
	Errors  []domain.ValidationError `json:"errors"`
}

// AccountLockedResponse is sent with 423. Clients use username to redirect to the read-only profile.
type AccountLockedResponse struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Username string `json:"username"`
}

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get().With(
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals(RequestIDKey)),
		)

		var validationErrs domain.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Warn("Validation errors occurred", zap.Int("error_count", len(validationErrs)))
			return c.Status(http.StatusBadRequest).JSON(ValidationErrorResponse{
				Code:    string(domain.CodeValidation),
				Message: "Request validation failed",
				Status:  http.StatusBadRequest,
				Errors:  validationErrs,
			})
		}

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)
			fields := []zap.Field{
				zap.String("code", string(domainErr.Code)),
				zap.String("message", domainErr.Message),
				zap.Int("status", statusCode),
			}
			if domainErr.Err != nil {
				fields = append(fields, zap.NamedError("cause", domainErr.Err))
			}
			if statusCode >= http.StatusInternalServerError {
				log.Error("Domain error occurred", fields...)
			} else {
				log.Info("Request rejected", fields...)
			}

			message := domainErr.Message
			if statusCode == http.StatusInternalServerError {
				message = "Internal server error"
			}

			if domainErr.Code == domain.CodeAccountLocked {
				username, _ := domainErr.Context["username"].(string)
				return c.Status(statusCode).JSON(AccountLockedResponse{
					Code:     string(domainErr.Code),
					Message:  message,
					Status:   statusCode,
					Username: username,
				})
			}

			response := ErrorResponse{
				Code:    string(domainErr.Code),
				Message: message,
				Status:  statusCode,
			}
			if len(domainErr.Context) > 0 {
				response.Details = domainErr.Context
			}
			return c.Status(statusCode).JSON(response)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		log.Error("Unknown error occurred", zap.Error(err))
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Code:    string(domain.CodeInternal),
			Message: "Internal server error",
			Status:  http.StatusInternalServerError,
		})
	}
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeNotFound, domain.CodeUserNotFound, domain.CodeQuizNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeValidation, domain.CodeMissingField, domain.CodeInvalidFormat,
		domain.CodeOutOfRange, domain.CodeInvalidState, domain.CodeInvalidOperation:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeAccountLocked:
		return http.StatusLocked
	case domain.CodeExternalDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
