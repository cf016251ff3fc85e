package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_Liveness(t *testing.T) {
	// Arrange
	logger := zerolog.Nop()
	handler := NewHealthHandler(nil, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.Liveness(rec, req)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)

	var response LivenessResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.Timestamp)
}

func TestHealthHandler_Readiness_DatabaseDown(t *testing.T) {
	// This is a unit test with mocked dependencies
	logger := zerolog.Nop()

	// mockDB is an empty *sqlx.DB, which fails any real health check
	mockDB := &sqlx.DB{}

	handler := NewHealthHandler(mockDB, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.Readiness(rec, req)

	// Assert
	var response ReadinessResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)

	assert.NotEmpty(t, response.Status)
	assert.NotEmpty(t, response.Timestamp)
	assert.NotNil(t, response.Checks)

	assert.Contains(t, response.Checks, "database")
	assert.Contains(t, response.Checks, "redis")

	// Database is down (critical), overall status must be "down"
	assert.Equal(t, "down", response.Checks["database"].Status)
	assert.Equal(t, "down", response.Status)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthHandler_Readiness_RedisDegradation(t *testing.T) {
	// Arrange
	logger := zerolog.Nop()

	mockDB := &sqlx.DB{}

	// Redis is nil, simulating connection failure
	handler := NewHealthHandler(mockDB, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.Readiness(rec, req)

	// Assert
	var response ReadinessResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)

	// Redis should be down
	assert.Equal(t, "down", response.Checks["redis"].Status)
	assert.NotEmpty(t, response.Checks["redis"].Error)
}

func TestHealthHandler_Readiness_ResponseStructure(t *testing.T) {
	// Arrange
	logger := zerolog.Nop()

	handler := NewHealthHandler(nil, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.Readiness(rec, req)

	// Assert - response should have correct structure
	var response ReadinessResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)

	// Status field should be present and valid
	assert.NotEmpty(t, response.Status)
	assert.Contains(t, []string{"ok", "degraded", "down"}, response.Status)

	// Timestamp should be present and in RFC3339 format
	assert.NotEmpty(t, response.Timestamp)
	_, err = time.Parse(time.RFC3339, response.Timestamp)
	assert.NoError(t, err, "Timestamp should be in RFC3339 format")

	// Checks should be a map
	assert.NotNil(t, response.Checks)
	assert.IsType(t, map[string]CheckDetails{}, response.Checks)

	assert.Contains(t, response.Checks, "database")
	assert.Contains(t, response.Checks, "redis")

	// Each check should have a status
	for name, check := range response.Checks {
		assert.NotEmpty(t, check.Status, "Check %s should have status", name)
		assert.Contains(t, []string{"up", "down"}, check.Status)

		// If down, should have error message
		if check.Status == "down" {
			assert.NotEmpty(t, check.Error, "Check %s should have error message when down", name)
		}
	}
}

func TestHealthHandler_Liveness_ResponseStructure(t *testing.T) {
	// Arrange
	logger := zerolog.Nop()
	handler := NewHealthHandler(nil, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.Liveness(rec, req)

	// Assert
	var response LivenessResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)

	// Check response structure
	assert.Equal(t, "ok", response.Status)
	assert.NotEmpty(t, response.Timestamp)

	// Verify timestamp format
	_, err = time.Parse(time.RFC3339, response.Timestamp)
	assert.NoError(t, err, "Timestamp should be in RFC3339 format")

	// Verify content type
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHealthHandler_Readiness_LatencyTracking(t *testing.T) {
	// Arrange
	logger := zerolog.Nop()

	handler := NewHealthHandler(nil, nil, logger)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()

	// Act
	handler.Readiness(rec, req)

	// Assert
	var response ReadinessResponse
	err := json.NewDecoder(rec.Body).Decode(&response)
	require.NoError(t, err)

	// All healthy checks should have latency > 0
	if response.Checks["redis"].Status == "up" {
		assert.Greater(t, response.Checks["redis"].LatencyMs, float64(0))
	}
}
