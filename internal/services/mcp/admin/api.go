package admin

import "context"

// API is the subset of the Analytics Admin API the operations need.
type API interface {
	ListAccountSummaries(ctx context.Context) ([]AccountSummary, error)
	ListDataStreams(ctx context.Context, parent string) ([]DataStream, error)
	CreateCustomDimension(ctx context.Context, parent string, dimension CustomDimension) (CustomDimension, error)
	ListCustomDimensions(ctx context.Context, parent string, page PageRequest) (CustomDimensionList, error)
	CreateConversionEvent(ctx context.Context, parent string, event ConversionEvent) (ConversionEvent, error)
	ListConversionEvents(ctx context.Context, parent string, page PageRequest) (ConversionEventList, error)
}

// AccountSummary is an account and the properties it owns.
type AccountSummary struct {
	Name              string
	Account           string
	DisplayName       string
	PropertySummaries []PropertySummary
}

// PropertySummary names a property owned by an account. Property holds the
// canonical path, for example "properties/123".
type PropertySummary struct {
	Property    string
	DisplayName string
}

// DataStream is a data stream of a property. WebStreamData is nil for app
// streams.
type DataStream struct {
	Name          string
	DisplayName   string
	WebStreamData *WebStreamData
}

// WebStreamData carries the web-specific fields of a data stream.
type WebStreamData struct {
	MeasurementID string
	DefaultURI    string
}

// DimensionScope is the scope of a custom dimension.
type DimensionScope string

const (
	ScopeEvent DimensionScope = "EVENT"
	ScopeUser  DimensionScope = "USER"
	ScopeItem  DimensionScope = "ITEM"
)

// Valid reports whether s is one of the known scopes.
func (s DimensionScope) Valid() bool {
	switch s {
	case ScopeEvent, ScopeUser, ScopeItem:
		return true
	}
	return false
}

// CustomDimension is the custom dimension record as returned by the API.
type CustomDimension struct {
	Name                       string         `json:"name,omitempty"`
	ParameterName              string         `json:"parameterName"`
	DisplayName                string         `json:"displayName"`
	Description                string         `json:"description,omitempty"`
	Scope                      DimensionScope `json:"scope"`
	DisallowAdsPersonalization bool           `json:"disallowAdsPersonalization,omitempty"`
}

// ConversionEvent is the conversion event record as returned by the API.
type ConversionEvent struct {
	Name           string `json:"name,omitempty"`
	EventName      string `json:"eventName"`
	CreateTime     string `json:"createTime,omitempty"`
	Deletable      bool   `json:"deletable"`
	Custom         bool   `json:"custom"`
	CountingMethod string `json:"countingMethod,omitempty"`
}

// PageRequest carries optional pagination input. Nil fields are not sent.
type PageRequest struct {
	PageSize  *int64
	PageToken *string
}

// CustomDimensionList is one page of custom dimensions. An empty
// NextPageToken means there are no more pages.
type CustomDimensionList struct {
	CustomDimensions []CustomDimension
	NextPageToken    string
}

// ConversionEventList is one page of conversion events.
type ConversionEventList struct {
	ConversionEvents []ConversionEvent
	NextPageToken    string
}
