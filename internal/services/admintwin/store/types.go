// Package store holds the in-memory state of the Analytics Admin API twin.
package store

// AccountSummary mirrors the v1beta AccountSummary resource.
type AccountSummary struct {
	Name              string            `json:"name"`
	Account           string            `json:"account"`
	DisplayName       string            `json:"displayName,omitempty"`
	PropertySummaries []PropertySummary `json:"propertySummaries,omitempty"`
}

// PropertySummary mirrors the v1beta PropertySummary resource.
type PropertySummary struct {
	Property     string `json:"property"`
	DisplayName  string `json:"displayName,omitempty"`
	PropertyType string `json:"propertyType,omitempty"`
	Parent       string `json:"parent,omitempty"`
}

// DataStream mirrors the v1beta DataStream resource.
type DataStream struct {
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	DisplayName   string         `json:"displayName,omitempty"`
	WebStreamData *WebStreamData `json:"webStreamData,omitempty"`
	CreateTime    string         `json:"createTime,omitempty"`
}

// WebStreamData mirrors DataStream.WebStreamData.
type WebStreamData struct {
	MeasurementID string `json:"measurementId"`
	DefaultURI    string `json:"defaultUri,omitempty"`
}

// CustomDimension mirrors the v1beta CustomDimension resource.
type CustomDimension struct {
	Name                       string `json:"name"`
	ParameterName              string `json:"parameterName"`
	DisplayName                string `json:"displayName"`
	Description                string `json:"description,omitempty"`
	Scope                      string `json:"scope"`
	DisallowAdsPersonalization bool   `json:"disallowAdsPersonalization,omitempty"`
}

// ConversionEvent mirrors the v1beta ConversionEvent resource.
type ConversionEvent struct {
	Name           string `json:"name"`
	EventName      string `json:"eventName"`
	CreateTime     string `json:"createTime"`
	Deletable      bool   `json:"deletable,omitempty"`
	Custom         bool   `json:"custom,omitempty"`
	CountingMethod string `json:"countingMethod,omitempty"`
}

const (
	streamTypeWeb        = "WEB_DATA_STREAM"
	propertyTypeOrdinary = "PROPERTY_TYPE_ORDINARY"
	countingOncePerEvent = "ONCE_PER_EVENT"
)
