package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"skillcheck/internal/domain"
	"skillcheck/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"incomplete answers", &domain.IncompleteError{MissingIndices: []int{1, 3}}, fiber.StatusBadRequest, string(domain.ErrIncompleteAnswers)},
		{"generation failed", &domain.GenerationFailedError{Skill: "go", Attempts: 3, Err: errors.New("bad json")}, fiber.StatusServiceUnavailable, string(domain.ErrGenerationFailed)},
		{"evaluation failed", &domain.EvaluationFailedError{Attempts: 3, Err: errors.New("bad json")}, fiber.StatusServiceUnavailable, string(domain.ErrEvaluationFailed)},
		{"persistence", &domain.PersistenceError{Op: "append", Err: errors.New("disk full")}, fiber.StatusServiceUnavailable, string(domain.ErrPersistenceFailure)},
		{"session not found", domain.NewSessionNotFoundError("u1"), fiber.StatusNotFound, string(domain.ErrSessionNotFound)},
		{"no history", domain.NewNoHistoryError("go"), fiber.StatusNotFound, string(domain.ErrNoHistory)},
		{"invalid answer", domain.NewInvalidAnswerError("index out of range"), fiber.StatusBadRequest, string(domain.ErrInvalidAnswer)},
		{"wrapped internal", domain.NewInternalError("boom", errors.New("cause")), fiber.StatusInternalServerError, string(domain.ErrInternal)},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"unknown", errors.New("mystery"), fiber.StatusInternalServerError, string(domain.ErrInternal)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.Equal(t, tt.expectedStatus, body.Status)
		})
	}
}

func TestErrorHandler_IncompleteCarriesIndices(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error { return &domain.IncompleteError{MissingIndices: []int{0, 4}} })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []interface{}{float64(0), float64(4)}, body.Details["missing_indices"])
}

func TestRequestLogger_AppliesErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.Tracing(), middleware.RequestLogger())
	app.Get("/missing", func(c *fiber.Ctx) error { return domain.NewNotFoundError("gone") })
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/missing", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
