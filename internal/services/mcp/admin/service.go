package admin

import (
	"context"

	"golang.org/x/time/rate"
)

// CustomDimensionSpec is the input of CreateCustomDimension. An empty Scope
// means ScopeEvent.
type CustomDimensionSpec struct {
	PropertyID    string
	ParameterName string
	DisplayName   string
	Description   string
	Scope         DimensionScope
}

// ConversionEventSpec is the input of CreateConversionEvent.
type ConversionEventSpec struct {
	PropertyID string
	EventName  string
}

// ListQuery is the input of the list operations. Nil page fields are not
// forwarded to the API.
type ListQuery struct {
	PropertyID string
	PageSize   *int64
	PageToken  *string
}

// CustomDimensionSummary is the listed projection of a custom dimension.
type CustomDimensionSummary struct {
	Name          string         `json:"name"`
	DisplayName   string         `json:"displayName"`
	ParameterName string         `json:"parameterName"`
	Scope         DimensionScope `json:"scope"`
	Description   string         `json:"description"`
}

// ConversionEventSummary is the listed projection of a conversion event.
type ConversionEventSummary struct {
	Name       string `json:"name"`
	EventName  string `json:"eventName"`
	CreateTime string `json:"createTime"`
	Deletable  bool   `json:"deletable"`
	Custom     bool   `json:"custom"`
}

// CustomDimensionPage is one page of listed custom dimensions.
type CustomDimensionPage struct {
	Dimensions    []CustomDimensionSummary `json:"dimensions"`
	NextPageToken *string                  `json:"nextPageToken"`
}

// ConversionEventPage is one page of listed conversion events.
type ConversionEventPage struct {
	Events        []ConversionEventSummary `json:"events"`
	NextPageToken *string                  `json:"nextPageToken"`
}

// Service runs the four property administration operations.
type Service struct {
	provider ClientProvider
	limiter  *rate.Limiter
}

// Option configures a Service.
type Option func(*Service)

// WithLookupLimiter paces data stream lookups during measurement ID
// resolution. The limiter is shared by every call of the service.
func WithLookupLimiter(limiter *rate.Limiter) Option {
	return func(s *Service) {
		s.limiter = limiter
	}
}

// NewService creates a service that obtains its API client from provider.
func NewService(provider ClientProvider, opts ...Option) *Service {
	s := &Service{provider: provider}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// resolve acquires the client for this invocation and resolves the property.
func (s *Service) resolve(ctx context.Context, reference string) (API, string, error) {
	api, err := s.provider.Client(ctx)
	if err != nil {
		return nil, "", err
	}
	parent, err := NewResolver(api, s.limiter).Resolve(ctx, reference)
	if err != nil {
		return nil, "", err
	}
	return api, parent, nil
}

// CreateCustomDimension creates a custom dimension and returns the record
// the API stored.
func (s *Service) CreateCustomDimension(ctx context.Context, spec CustomDimensionSpec) (CustomDimension, error) {
	api, parent, err := s.resolve(ctx, spec.PropertyID)
	if err != nil {
		return CustomDimension{}, err
	}
	scope := spec.Scope
	if scope == "" {
		scope = ScopeEvent
	}
	return api.CreateCustomDimension(ctx, parent, CustomDimension{
		ParameterName: spec.ParameterName,
		DisplayName:   spec.DisplayName,
		Description:   spec.Description,
		Scope:         scope,
	})
}

// CreateConversionEvent marks an event name as a conversion.
func (s *Service) CreateConversionEvent(ctx context.Context, spec ConversionEventSpec) (ConversionEvent, error) {
	api, parent, err := s.resolve(ctx, spec.PropertyID)
	if err != nil {
		return ConversionEvent{}, err
	}
	return api.CreateConversionEvent(ctx, parent, ConversionEvent{EventName: spec.EventName})
}

// ListCustomDimensions lists one page of custom dimensions.
func (s *Service) ListCustomDimensions(ctx context.Context, query ListQuery) (CustomDimensionPage, error) {
	api, parent, err := s.resolve(ctx, query.PropertyID)
	if err != nil {
		return CustomDimensionPage{}, err
	}
	list, err := api.ListCustomDimensions(ctx, parent, PageRequest{PageSize: query.PageSize, PageToken: query.PageToken})
	if err != nil {
		return CustomDimensionPage{}, err
	}

	page := CustomDimensionPage{
		Dimensions:    make([]CustomDimensionSummary, 0, len(list.CustomDimensions)),
		NextPageToken: optionalToken(list.NextPageToken),
	}
	for _, d := range list.CustomDimensions {
		page.Dimensions = append(page.Dimensions, CustomDimensionSummary{
			Name:          d.Name,
			DisplayName:   d.DisplayName,
			ParameterName: d.ParameterName,
			Scope:         d.Scope,
			Description:   d.Description,
		})
	}
	return page, nil
}

// ListConversionEvents lists one page of conversion events.
func (s *Service) ListConversionEvents(ctx context.Context, query ListQuery) (ConversionEventPage, error) {
	api, parent, err := s.resolve(ctx, query.PropertyID)
	if err != nil {
		return ConversionEventPage{}, err
	}
	list, err := api.ListConversionEvents(ctx, parent, PageRequest{PageSize: query.PageSize, PageToken: query.PageToken})
	if err != nil {
		return ConversionEventPage{}, err
	}

	page := ConversionEventPage{
		Events:        make([]ConversionEventSummary, 0, len(list.ConversionEvents)),
		NextPageToken: optionalToken(list.NextPageToken),
	}
	for _, e := range list.ConversionEvents {
		page.Events = append(page.Events, ConversionEventSummary{
			Name:       e.Name,
			EventName:  e.EventName,
			CreateTime: e.CreateTime,
			Deletable:  e.Deletable,
			Custom:     e.Custom,
		})
	}
	return page, nil
}

func optionalToken(token string) *string {
	if token == "" {
		return nil
	}
	return &token
}
