package middleware

import (
	"errors"
	"net/http"

	"skillcheck/internal/domain"
	"skillcheck/internal/logger"

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

// ErrorHandler is a centralized error handling middleware
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		logger := logger.Get()

		var incomplete *domain.IncompleteError
		if errors.As(err, &incomplete) {
			logger.Info("Submission with missing answers", zap.Ints("missing_indices", incomplete.MissingIndices))
			return respond(c, http.StatusBadRequest, domain.ErrIncompleteAnswers, incomplete.Error(),
				map[string]interface{}{"missing_indices": incomplete.MissingIndices})
		}

		var genErr *domain.GenerationFailedError
		if errors.As(err, &genErr) {
			logger.Error("Quiz generation failed",
				zap.String("skill", genErr.Skill),
				zap.Int("attempts", genErr.Attempts),
				zap.Error(genErr.Err),
			)
			return respond(c, http.StatusServiceUnavailable, domain.ErrGenerationFailed,
				"quiz generation is unavailable, please retry", map[string]interface{}{"attempts": genErr.Attempts})
		}

		var evalErr *domain.EvaluationFailedError
		if errors.As(err, &evalErr) {
			logger.Error("Answer evaluation failed", zap.Int("attempts", evalErr.Attempts), zap.Error(evalErr.Err))
			return respond(c, http.StatusServiceUnavailable, domain.ErrEvaluationFailed,
				"answer evaluation is unavailable, your answers are kept, please retry", map[string]interface{}{"attempts": evalErr.Attempts})
		}

		var persistErr *domain.PersistenceError
		if errors.As(err, &persistErr) {
			logger.Error("History store failure", zap.String("op", persistErr.Op), zap.Error(persistErr.Err))
			return respond(c, http.StatusServiceUnavailable, domain.ErrPersistenceFailure, "history store is unavailable", nil)
		}

		// Handle domain errors
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			if statusCode >= http.StatusInternalServerError {
				logger.Error("Domain error occurred",
					zap.String("code", string(domainErr.Code)),
					zap.String("message", domainErr.Message),
					zap.Error(domainErr.Err),
				)
			} else {
				logger.Debug("Domain error occurred",
					zap.String("code", string(domainErr.Code)),
					zap.String("message", domainErr.Message),
					zap.Int("status", statusCode),
				)
			}
			return respond(c, statusCode, domainErr.Code, domainErr.Message, domainErr.Context)
		}

		// Handle fiber errors
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			logger.Warn("Fiber error occurred",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Code:    "HTTP_ERROR",
				Message: fiberErr.Message,
				Status:  fiberErr.Code,
			})
		}

		logger.Error("Unknown error occurred",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return respond(c, http.StatusInternalServerError, domain.ErrInternal, "Internal server error", nil)
	}
}

func respond(c *fiber.Ctx, status int, code domain.ErrorCode, message string, details map[string]interface{}) error {
	resp := ErrorResponse{Code: string(code), Message: message, Status: status}
	if len(details) > 0 {
		resp.Details = details
	}
	return c.Status(status).JSON(resp)
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.ErrNotFound, domain.ErrSessionNotFound, domain.ErrNoHistory:
		return http.StatusNotFound
	case domain.ErrInvalidInput, domain.ErrInvalidAnswer, domain.ErrIncompleteAnswers:
		return http.StatusBadRequest
	case domain.ErrUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrGenerationFailed, domain.ErrEvaluationFailed, domain.ErrPersistenceFailure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
