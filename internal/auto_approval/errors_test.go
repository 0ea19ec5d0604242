package auto_approval

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v71/github"
	"github.com/stretchr/testify/require"
)

func apiResponse(status int) *http.Response {
	return &http.Response{
		StatusCode: status,
		Request: &http.Request{
			Method: "POST",
			URL:    &url.URL{Scheme: "https", Host: "api.github.com", Path: "/repos/org/repo/actions/runs/42/pending_deployments"},
		},
	}
}

func Test_newPlatformError(t *testing.T) {
	retryAfter := 30 * time.Second
	validationErr := &github.ErrorResponse{
		Response: apiResponse(422),
		Message:  "Validation Failed",
		Errors: []github.Error{
			{Resource: "Deployment", Field: "environment_ids", Code: "invalid"},
			{Message: "already approved"},
		},
		DocumentationURL: "https://docs.github.com/rest",
	}

	tests := []struct {
		name       string
		err        error
		status     int
		message    string
		details    []string
		structured bool
		errString  string
	}{
		{
			name:       "error response",
			err:        validationErr,
			status:     422,
			message:    "Validation Failed",
			details:    []string{"Deployment environment_ids invalid", "already approved", "see https://docs.github.com/rest"},
			structured: true,
			errString:  "approve pending deployments: status 422: Validation Failed (Deployment environment_ids invalid; already approved; see https://docs.github.com/rest)",
		},
		{
			name:       "wrapped error response",
			err:        fmt.Errorf("request failed: %w", &github.ErrorResponse{Response: apiResponse(404), Message: "Not Found"}),
			status:     404,
			message:    "Not Found",
			structured: true,
			errString:  "approve pending deployments: status 404: Not Found",
		},
		{
			name: "rate limit",
			err: &github.RateLimitError{
				Rate:     github.Rate{Limit: 60, Remaining: 0, Reset: github.Timestamp{Time: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)}},
				Response: apiResponse(403),
				Message:  "API rate limit exceeded",
			},
			status:     403,
			message:    "API rate limit exceeded",
			details:    []string{"rate limit resets at 2026-10-15T12:00:00Z"},
			structured: true,
			errString:  "approve pending deployments: status 403: API rate limit exceeded (rate limit resets at 2026-10-15T12:00:00Z)",
		},
		{
			name: "secondary rate limit",
			err: &github.AbuseRateLimitError{
				Response:   apiResponse(429),
				Message:    "You have exceeded a secondary rate limit",
				RetryAfter: &retryAfter,
			},
			status:     429,
			message:    "You have exceeded a secondary rate limit",
			details:    []string{"retry after 30s"},
			structured: true,
			errString:  "approve pending deployments: status 429: You have exceeded a secondary rate limit (retry after 30s)",
		},
		{
			name: "rate limit without request",
			err: &github.RateLimitError{
				Response: &http.Response{StatusCode: 403},
				Message:  "API rate limit exceeded",
			},
			status:     403,
			message:    "API rate limit exceeded",
			structured: true,
			errString:  "approve pending deployments: status 403: API rate limit exceeded",
		},
		{
			name:      "transport error",
			err:       errors.New("dial tcp: connection refused"),
			message:   "dial tcp: connection refused",
			errString: "approve pending deployments: dial tcp: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := newPlatformError("approve pending deployments", tt.err)

			require.Equal(t, "approve pending deployments", pe.Op)
			require.Equal(t, tt.status, pe.Status)
			require.Equal(t, tt.message, pe.Message)
			require.Equal(t, tt.details, pe.Details)
			require.Equal(t, tt.structured, pe.Structured())
			require.Equal(t, tt.errString, pe.Error())
			require.ErrorIs(t, pe, tt.err)

			var target *PlatformError
			require.ErrorAs(t, fmt.Errorf("wrapped: %w", pe), &target)
			require.Same(t, pe, target)
		})
	}
}
