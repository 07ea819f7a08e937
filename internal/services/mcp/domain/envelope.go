package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/admin"
)

type dimensionCreatedEnvelope struct {
	Success   bool                  `json:"success"`
	Message   string                `json:"message"`
	Dimension admin.CustomDimension `json:"dimension"`
}

type eventCreatedEnvelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Event   admin.ConversionEvent `json:"event"`
}

type dimensionsListedEnvelope struct {
	Success       bool                           `json:"success"`
	Message       string                         `json:"message"`
	Count         int                            `json:"count"`
	Dimensions    []admin.CustomDimensionSummary `json:"dimensions"`
	NextPageToken *string                        `json:"nextPageToken"`
}

type eventsListedEnvelope struct {
	Success       bool                           `json:"success"`
	Message       string                         `json:"message"`
	Count         int                            `json:"count"`
	Events        []admin.ConversionEventSummary `json:"events"`
	NextPageToken *string                        `json:"nextPageToken"`
}

type failureEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details"`
}

func dimensionCreated(d admin.CustomDimension) dimensionCreatedEnvelope {
	return dimensionCreatedEnvelope{
		Success:   true,
		Message:   fmt.Sprintf("Created custom dimension: %s", d.DisplayName),
		Dimension: d,
	}
}

func eventCreated(e admin.ConversionEvent) eventCreatedEnvelope {
	return eventCreatedEnvelope{
		Success: true,
		Message: fmt.Sprintf("Marked as conversion: %s", e.EventName),
		Event:   e,
	}
}

func dimensionsListed(page admin.CustomDimensionPage) dimensionsListedEnvelope {
	if page.Dimensions == nil {
		page.Dimensions = []admin.CustomDimensionSummary{}
	}
	return dimensionsListedEnvelope{
		Success:       true,
		Message:       fmt.Sprintf("Found %d custom dimensions", len(page.Dimensions)),
		Count:         len(page.Dimensions),
		Dimensions:    page.Dimensions,
		NextPageToken: page.NextPageToken,
	}
}

func eventsListed(page admin.ConversionEventPage) eventsListedEnvelope {
	if page.Events == nil {
		page.Events = []admin.ConversionEventSummary{}
	}
	return eventsListedEnvelope{
		Success:       true,
		Message:       fmt.Sprintf("Found %d conversion events", len(page.Events)),
		Count:         len(page.Events),
		Events:        page.Events,
		NextPageToken: page.NextPageToken,
	}
}

// failure builds the failure envelope. Remote errors carry the decoded error
// body, or their code and status when the body had none.
func failure(err error) failureEnvelope {
	env := failureEnvelope{Error: err.Error()}

	var remote *admin.RemoteAPIError
	var invalid *InvalidArgumentError
	switch {
	case errors.As(err, &remote):
		if remote.Details != nil {
			env.Details = remote.Details
			break
		}
		details := map[string]any{"status": remote.Status, "message": remote.Message}
		if remote.StatusCode != 0 {
			details["code"] = remote.StatusCode
		}
		env.Details = details
	case errors.As(err, &invalid):
		env.Details = map[string]any{"field": invalid.Field, "reason": invalid.Reason}
	}
	return env
}

// renderEnvelope encodes v as two-space indented JSON without HTML escaping.
func renderEnvelope(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}
