package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/ga4-admin-mcp/internal/platform/errors"
	"google.golang.org/api/googleapi"
)

// NotFoundError reports a measurement ID that matched no data stream.
type NotFoundError struct {
	Reference string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No property found with measurement ID: %s", e.Reference)
}

// RemoteAPIError is a failure reported by, or on the way to, the Analytics
// Admin API. StatusCode is zero when no HTTP response was received.
type RemoteAPIError struct {
	StatusCode int
	Status     string
	Message    string
	// Details is the decoded "error" object of the response body, when the
	// body carried one.
	Details map[string]any
	Err     error
}

func (e *RemoteAPIError) Error() string {
	return e.Message
}

func (e *RemoteAPIError) Unwrap() error {
	return e.Err
}

// remoteError converts a client library error into a *RemoteAPIError.
func remoteError(err error) error {
	if err == nil {
		return nil
	}
	var remote *RemoteAPIError
	if errors.As(err, &remote) {
		return remote
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		status := apperrors.CodeUnavailable
		switch {
		case errors.Is(err, context.Canceled):
			status = apperrors.CodeCancelled
		case errors.Is(err, context.DeadlineExceeded):
			status = apperrors.CodeDeadlineExceeded
		}
		return &RemoteAPIError{
			Status:  string(status),
			Message: err.Error(),
			Err:     err,
		}
	}

	out := &RemoteAPIError{
		StatusCode: gerr.Code,
		Status:     string(apperrors.CodeFromHTTPStatus(gerr.Code)),
		Message:    gerr.Message,
		Err:        err,
	}
	var body struct {
		Error map[string]any `json:"error"`
	}
	if gerr.Body != "" && json.Unmarshal([]byte(gerr.Body), &body) == nil && body.Error != nil {
		out.Details = body.Error
		if status, ok := body.Error["status"].(string); ok && status != "" {
			out.Status = status
		}
		if out.Message == "" {
			if msg, ok := body.Error["message"].(string); ok {
				out.Message = msg
			}
		}
	}
	if strings.TrimSpace(out.Message) == "" {
		out.Message = http.StatusText(gerr.Code)
	}
	return out
}
