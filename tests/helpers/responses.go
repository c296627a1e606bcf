package helpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hbomb79/Tubely/internal/api/gen"
	"gotest.tools/v3/assert"
)

// AssertErrorResponse checks that the recorded response is an APIError with
// the status and code given. An empty expectedMessage expects the default
// message for the status.
func AssertErrorResponse(t *testing.T, response *httptest.ResponseRecorder, expectedStatusCode int, expectedMessage string, expectedErrorCode string) {
	t.Helper()
	assert.Equal(t, response.Code, expectedStatusCode, "HTTP response status code did not match expected")

	apiErr := ExtractErrorResponse(t, response.Body.Bytes())
	if expectedMessage == "" {
		assert.Equal(t, apiErr.Message, http.StatusText(expectedStatusCode))
	} else {
		assert.Equal(t, apiErr.Message, expectedMessage)
	}
	if expectedErrorCode != "" {
		assert.Equal(t, apiErr.Code, expectedErrorCode)
	}
	assert.Equal(t, apiErr.InternalMessage, "") // Internal message should never leak
	assert.Equal(t, apiErr.Status, 0)           // Status should not be included
}

func ExtractErrorResponse(t *testing.T, body []byte) gen.APIError {
	var apiError gen.APIError
	if err := json.Unmarshal(body, &apiError); err != nil {
		t.Errorf("Could not extract APIError from HTTP response body: %s", err)
	}

	return apiError
}
