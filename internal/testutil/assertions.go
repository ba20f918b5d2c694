package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/dom/catalog-facade/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v and verifies success
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// AssertErrorResponse verifies an `{"error": ...}` response with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var body struct {
		Error string `json:"error"`
	}
	AssertJSONResponse(t, resp, &body)
	assert.Contains(t, body.Error, expectedMessage, "error message mismatch")
}

// AssertListConsistent checks that list metadata and item count agree
func AssertListConsistent(t *testing.T, list *domain.ListResult) {
	t.Helper()
	require.NotNil(t, list)

	expectedPages := 0
	if list.Limit > 0 {
		expectedPages = (list.Total + list.Limit - 1) / list.Limit
	}
	assert.Equal(t, expectedPages, list.TotalPages, "totalPages")

	remaining := list.Total - (list.Page-1)*list.Limit
	if remaining < 0 {
		remaining = 0
	}
	expectedCount := list.Limit
	if remaining < expectedCount {
		expectedCount = remaining
	}
	assert.Len(t, list.Data, expectedCount, "item count")
}

// AssertSameShape verifies two entities carry identical field sets
func AssertSameShape(t *testing.T, expected, actual domain.Entity) {
	t.Helper()
	assert.Equal(t, expected.Fields(), actual.Fields(), "field sets differ")
}
