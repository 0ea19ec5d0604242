package auto_approval

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v71/github"
)

// PlatformError is any failure reported by the GitHub API. Status is zero when
// the request never produced an HTTP response.
type PlatformError struct {
	Op      string
	Status  int
	Message string
	Details []string
	Err     error
}

func (e *PlatformError) Error() string {
	if !e.Structured() {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	msg := fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	return msg
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

func (e *PlatformError) Structured() bool {
	return e.Status != 0
}

func newPlatformError(op string, err error) *PlatformError {
	pe := &PlatformError{Op: op, Err: err}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	switch {
	case errors.As(err, &rateErr):
		pe.Status = statusCode(rateErr.Response)
		pe.Message = rateErr.Message
		if !rateErr.Rate.Reset.IsZero() {
			pe.Details = append(pe.Details, "rate limit resets at "+rateErr.Rate.Reset.UTC().Format(time.RFC3339))
		}
	case errors.As(err, &abuseErr):
		pe.Status = statusCode(abuseErr.Response)
		pe.Message = abuseErr.Message
		if abuseErr.RetryAfter != nil {
			pe.Details = append(pe.Details, "retry after "+abuseErr.RetryAfter.String())
		}
	case errors.As(err, &respErr):
		pe.Status = statusCode(respErr.Response)
		pe.Message = respErr.Message
		for _, e := range respErr.Errors {
			pe.Details = append(pe.Details, errorDetail(e))
		}
		if respErr.DocumentationURL != "" {
			pe.Details = append(pe.Details, "see "+respErr.DocumentationURL)
		}
	default:
		pe.Message = err.Error()
	}
	return pe
}

func statusCode(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func errorDetail(e github.Error) string {
	if e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(strings.Join([]string{e.Resource, e.Field, e.Code}, " "))
}
