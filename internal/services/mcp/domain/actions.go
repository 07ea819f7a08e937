package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/admin"
)

// Action is a decoded tool invocation. It is one of
// CreateCustomDimensionAction, CreateConversionEventAction,
// ListCustomDimensionsAction or ListConversionEventsAction.
type Action interface {
	ToolName() string
	isAction()
}

// CreateCustomDimensionAction carries create_custom_dimension arguments.
type CreateCustomDimensionAction struct {
	Spec admin.CustomDimensionSpec
}

// CreateConversionEventAction carries create_conversion_event arguments.
type CreateConversionEventAction struct {
	Spec admin.ConversionEventSpec
}

// ListCustomDimensionsAction carries list_custom_dimensions arguments.
type ListCustomDimensionsAction struct {
	Query admin.ListQuery
}

// ListConversionEventsAction carries list_conversion_events arguments.
type ListConversionEventsAction struct {
	Query admin.ListQuery
}

func (CreateCustomDimensionAction) ToolName() string { return ToolCreateCustomDimension }
func (CreateConversionEventAction) ToolName() string { return ToolCreateConversionEvent }
func (ListCustomDimensionsAction) ToolName() string  { return ToolListCustomDimensions }
func (ListConversionEventsAction) ToolName() string  { return ToolListConversionEvents }

func (CreateCustomDimensionAction) isAction() {}
func (CreateConversionEventAction) isAction() {}
func (ListCustomDimensionsAction) isAction()  {}
func (ListConversionEventsAction) isAction()  {}

const (
	fieldPropertyID    = "propertyId"
	fieldParameterName = "parameterName"
	fieldDisplayName   = "displayName"
	fieldDescription   = "description"
	fieldScope         = "scope"
	fieldEventName     = "eventName"
	fieldPageSize      = "pageSize"
	fieldPageToken     = "pageToken"
)

var allowedFields = map[string][]string{
	ToolCreateCustomDimension: {fieldPropertyID, fieldParameterName, fieldDisplayName, fieldDescription, fieldScope},
	ToolCreateConversionEvent: {fieldPropertyID, fieldEventName},
	ToolListCustomDimensions:  {fieldPropertyID, fieldPageSize, fieldPageToken},
	ToolListConversionEvents:  {fieldPropertyID, fieldPageSize, fieldPageToken},
}

// DecodeAction validates the raw argument object of a tool call and returns
// the typed action. Unknown tools fail with *UnknownOperationError; missing,
// empty, mistyped or unknown fields fail with *InvalidArgumentError.
func DecodeAction(name string, raw json.RawMessage) (Action, error) {
	allowed, ok := allowedFields[name]
	if !ok {
		return nil, &UnknownOperationError{Name: name}
	}
	args, err := parseArgs(raw, allowed)
	if err != nil {
		return nil, err
	}

	propertyID, err := args.propertyID()
	if err != nil {
		return nil, err
	}

	switch name {
	case ToolCreateCustomDimension:
		spec := admin.CustomDimensionSpec{PropertyID: propertyID}
		if spec.ParameterName, err = args.requiredString(fieldParameterName); err != nil {
			return nil, err
		}
		if spec.DisplayName, err = args.requiredString(fieldDisplayName); err != nil {
			return nil, err
		}
		if description, ok, err := args.optionalString(fieldDescription); err != nil {
			return nil, err
		} else if ok {
			spec.Description = description
		}
		if scope, ok, err := args.optionalString(fieldScope); err != nil {
			return nil, err
		} else if ok {
			spec.Scope = admin.DimensionScope(scope)
			if !spec.Scope.Valid() {
				return nil, &InvalidArgumentError{Field: fieldScope, Reason: "must be one of EVENT, USER, ITEM"}
			}
		}
		return CreateCustomDimensionAction{Spec: spec}, nil

	case ToolCreateConversionEvent:
		eventName, err := args.requiredString(fieldEventName)
		if err != nil {
			return nil, err
		}
		return CreateConversionEventAction{Spec: admin.ConversionEventSpec{PropertyID: propertyID, EventName: eventName}}, nil

	case ToolListCustomDimensions, ToolListConversionEvents:
		query := admin.ListQuery{PropertyID: propertyID}
		if query.PageSize, err = args.pageSize(); err != nil {
			return nil, err
		}
		if token, ok, err := args.optionalString(fieldPageToken); err != nil {
			return nil, err
		} else if ok {
			query.PageToken = &token
		}
		if name == ToolListCustomDimensions {
			return ListCustomDimensionsAction{Query: query}, nil
		}
		return ListConversionEventsAction{Query: query}, nil
	}
	return nil, &UnknownOperationError{Name: name}
}

// argBag is a decoded argument object. JSON null values are dropped so they
// read as absent.
type argBag map[string]json.RawMessage

func parseArgs(raw json.RawMessage, allowed []string) (argBag, error) {
	args := argBag{}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return args, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, &InvalidArgumentError{Reason: "arguments must be a JSON object"}
	}
	for key, value := range fields {
		if !slices.Contains(allowed, key) {
			return nil, &InvalidArgumentError{Field: key, Reason: "unknown field"}
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}
		args[key] = value
	}
	return args, nil
}

// propertyID accepts a string or an integer; integers are coerced to their
// decimal form.
func (a argBag) propertyID() (string, error) {
	value, ok := a[fieldPropertyID]
	if !ok {
		return "", &InvalidArgumentError{Field: fieldPropertyID, Reason: "is required"}
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(value, &n); err != nil {
			return "", &InvalidArgumentError{Field: fieldPropertyID, Reason: "must be a string"}
		}
		if _, err := n.Int64(); err != nil {
			return "", &InvalidArgumentError{Field: fieldPropertyID, Reason: "must be a string or an integer"}
		}
		s = n.String()
	}
	if strings.TrimSpace(s) == "" {
		return "", &InvalidArgumentError{Field: fieldPropertyID, Reason: "is required"}
	}
	return s, nil
}

func (a argBag) requiredString(field string) (string, error) {
	s, ok, err := a.optionalString(field)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(s) == "" {
		return "", &InvalidArgumentError{Field: field, Reason: "is required"}
	}
	return s, nil
}

func (a argBag) optionalString(field string) (string, bool, error) {
	value, ok := a[field]
	if !ok {
		return "", false, nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return "", false, &InvalidArgumentError{Field: field, Reason: "must be a string"}
	}
	return s, true, nil
}

func (a argBag) pageSize() (*int64, error) {
	value, ok := a[fieldPageSize]
	if !ok {
		return nil, nil
	}
	var n json.Number
	if err := json.Unmarshal(value, &n); err != nil {
		return nil, &InvalidArgumentError{Field: fieldPageSize, Reason: "must be an integer"}
	}
	size, err := n.Int64()
	if err != nil {
		return nil, &InvalidArgumentError{Field: fieldPageSize, Reason: "must be an integer"}
	}
	if size <= 0 {
		return nil, &InvalidArgumentError{Field: fieldPageSize, Reason: fmt.Sprintf("must be positive, got %d", size)}
	}
	return &size, nil
}
