package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/alexgrant/todo-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("health reports healthy services", func(t *testing.T) {
		resp, err := http.Get(ts.BaseURL() + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var data struct {
			Uptime   float64 `json:"uptime"`
			Services map[string]struct {
				Status string `json:"status"`
			} `json:"services"`
		}
		testutil.DecodeData(t, resp, &data)
		assert.Equal(t, "healthy", data.Services["postgres"].Status)
		// Cache is disabled in tests, so it must not appear as a check
		_, hasRedis := data.Services["redis"]
		assert.False(t, hasRedis)
	})

	t.Run("readiness follows the database", func(t *testing.T) {
		resp, err := http.Get(ts.BaseURL() + "/health/ready")
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("liveness always responds", func(t *testing.T) {
		resp, err := http.Get(ts.BaseURL() + "/health/live")
		require.NoError(t, err)
		defer resp.Body.Close()

		require.Equal(t, http.StatusOK, resp.StatusCode)

		var env testutil.Envelope
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
		assert.True(t, env.Success)
		assert.Equal(t, "Service is alive", env.Message)
	})

	t.Run("unmatched route returns the error envelope", func(t *testing.T) {
		resp, err := http.Get(ts.BaseURL() + "/api/v1/nope")
		require.NoError(t, err)
		defer resp.Body.Close()

		testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "API endpoint not found")
	})
}
