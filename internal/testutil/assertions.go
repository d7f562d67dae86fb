package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// DecodeEnvelope decodes the response envelope and requires success=true
func DecodeEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	err = json.Unmarshal(body, &env)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
	require.True(t, env.Success, "expected success envelope, got: %s", string(body))

	return env
}

// DecodeData decodes the envelope's data payload into v
func DecodeData(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	env := DecodeEnvelope(t, resp)
	require.NoError(t, json.Unmarshal(env.Data, v), "failed to unmarshal data payload")
}

// AssertErrorResponse verifies an error envelope with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "failed to unmarshal error response: %s", string(body))
	assert.False(t, env.Success, "expected error envelope")
	assert.Contains(t, env.Message, expectedMessage, "error message mismatch")
}
