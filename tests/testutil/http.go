package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pantryfresh/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/require"
)

// Envelope is a decoded API response with data left raw
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

// APIClient sends requests straight into an http.Handler
type APIClient struct {
	handler http.Handler
	token   string
	headers map[string]string
}

// NewAPIClient creates an anonymous client for handler
func NewAPIClient(handler http.Handler) *APIClient {
	return &APIClient{handler: handler}
}

// As returns a copy of the client that sends token as its bearer credential
func (c *APIClient) As(token string) *APIClient {
	clone := *c
	clone.token = token
	return &clone
}

// WithHeader returns a copy of the client that sets key on every request
func (c *APIClient) WithHeader(key, value string) *APIClient {
	clone := *c
	clone.headers = make(map[string]string, len(c.headers)+1)
	for k, v := range c.headers {
		clone.headers[k] = v
	}
	clone.headers[key] = value
	return &clone
}

// Do sends method path with body encoded as JSON when non-nil
func (c *APIClient) Do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// DecodeEnvelope parses the response body as an API envelope
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	return env
}

// DecodeData asserts a success envelope and parses its data into T
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, "Expected success, got: %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to parse data")
	return out
}

// RequireErrorCode asserts an error envelope with the given status and code
func RequireErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) *dto.ErrorInfo {
	t.Helper()

	require.Equal(t, status, w.Code, "Unexpected status, body: %s", w.Body.String())
	env := DecodeEnvelope(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, "Expected error object in response")
	require.Equal(t, code, env.Error.Code)
	return env.Error
}
