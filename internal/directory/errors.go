package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// maxErrorBody bounds how much of an unrecognised body ends up in Error().
const maxErrorBody = 256

// APIError is returned when the directory answers with a status the
// operation does not accept. The raw status and body are always kept.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte

	// Populated when the body is a directory error document.
	ErrorCode    string
	ErrorSummary string
	ErrorCauses  []string
}

type errorDocument struct {
	ErrorCode    string `json:"errorCode"`
	ErrorSummary string `json:"errorSummary"`
	ErrorCauses  []struct {
		ErrorSummary string `json:"errorSummary"`
	} `json:"errorCauses"`
}

func newAPIError(resp *resty.Response) *APIError {
	apiErr := &APIError{
		StatusCode: resp.StatusCode(),
		Body:       resp.Body(),
	}

	if resp.Request != nil {
		apiErr.Method = resp.Request.Method
		apiErr.URL = resp.Request.URL
	}

	var doc errorDocument
	if err := json.Unmarshal(apiErr.Body, &doc); err == nil {
		apiErr.ErrorCode = doc.ErrorCode
		apiErr.ErrorSummary = doc.ErrorSummary
		for _, cause := range doc.ErrorCauses {
			if len(cause.ErrorSummary) > 0 {
				apiErr.ErrorCauses = append(apiErr.ErrorCauses, cause.ErrorSummary)
			}
		}
	}

	return apiErr
}

func (e *APIError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s returned status %d", e.Method, e.URL, e.StatusCode)

	switch {
	case len(e.ErrorSummary) > 0:
		fmt.Fprintf(&sb, ": %s", e.ErrorSummary)
		if len(e.ErrorCode) > 0 {
			fmt.Fprintf(&sb, " (%s)", e.ErrorCode)
		}
		if len(e.ErrorCauses) > 0 {
			fmt.Fprintf(&sb, ": %s", strings.Join(e.ErrorCauses, "; "))
		}
	case len(e.Body) > 0:
		body := strings.TrimSpace(string(e.Body))
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody] + "..."
		}
		fmt.Fprintf(&sb, ": %s", body)
	}

	return sb.String()
}

// StatusCode extracts the HTTP status from an APIError anywhere in err's
// chain.
func StatusCode(err error) (int, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, true
	}
	return 0, false
}
