package admin

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2/google"
	analyticsadmin "google.golang.org/api/analyticsadmin/v1beta"
	"google.golang.org/api/option"
)

// Scopes requested for Application Default Credentials.
var Scopes = []string{
	analyticsadmin.AnalyticsEditScope,
	analyticsadmin.AnalyticsReadonlyScope,
}

// ClientConfig selects the Analytics Admin endpoint and authentication.
type ClientConfig struct {
	// Endpoint overrides the Google endpoint, for example to target a local
	// twin. Empty uses the library default.
	Endpoint string
	// Insecure skips credential lookup. Only honoured with an Endpoint.
	Insecure bool
}

// GoogleAPI implements API with the Analytics Admin v1beta REST client.
type GoogleAPI struct {
	svc *analyticsadmin.Service
}

// NewGoogleAPI builds the REST client. Without an insecure endpoint override
// it authenticates with Application Default Credentials; failing to find them
// is reported as an UNAUTHENTICATED *RemoteAPIError.
func NewGoogleAPI(ctx context.Context, cfg ClientConfig) (*GoogleAPI, error) {
	var opts []option.ClientOption
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint != "" {
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	if cfg.Insecure && endpoint != "" {
		opts = append(opts, option.WithoutAuthentication())
	} else {
		creds, err := google.FindDefaultCredentials(ctx, Scopes...)
		if err != nil {
			return nil, &RemoteAPIError{
				StatusCode: 401,
				Status:     "UNAUTHENTICATED",
				Message:    "obtain application default credentials: " + err.Error(),
				Err:        err,
			}
		}
		opts = append(opts, option.WithTokenSource(creds.TokenSource))
	}

	svc, err := analyticsadmin.NewService(ctx, opts...)
	if err != nil {
		return nil, &RemoteAPIError{
			Status:  "INTERNAL",
			Message: "create analytics admin client: " + err.Error(),
			Err:     err,
		}
	}
	return &GoogleAPI{svc: svc}, nil
}

// GoogleClientFactory returns a ClientFactory building a GoogleAPI from cfg.
func GoogleClientFactory(cfg ClientConfig) ClientFactory {
	return func(ctx context.Context) (API, error) {
		return NewGoogleAPI(ctx, cfg)
	}
}

func startCall(ctx context.Context, name, parent string) (context.Context, trace.Span) {
	opts := []trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindClient)}
	if parent != "" {
		opts = append(opts, trace.WithAttributes(attribute.String("ga4.parent", parent)))
	}
	return tracer.Start(ctx, name, opts...)
}

func endCall(span trace.Span, err error) error {
	defer span.End()
	if err == nil {
		return nil
	}
	err = remoteError(err)
	span.RecordError(err)
	span.SetStatus(otelcodes.Error, err.Error())
	return err
}

// ListAccountSummaries returns the first page of account summaries.
func (g *GoogleAPI) ListAccountSummaries(ctx context.Context) ([]AccountSummary, error) {
	ctx, span := startCall(ctx, "analyticsadmin.accountSummaries.list", "")
	resp, err := g.svc.AccountSummaries.List().Context(ctx).Do()
	if err := endCall(span, err); err != nil {
		return nil, err
	}

	out := make([]AccountSummary, 0, len(resp.AccountSummaries))
	for _, a := range resp.AccountSummaries {
		if a == nil {
			continue
		}
		summary := AccountSummary{Name: a.Name, Account: a.Account, DisplayName: a.DisplayName}
		for _, p := range a.PropertySummaries {
			if p == nil {
				continue
			}
			summary.PropertySummaries = append(summary.PropertySummaries, PropertySummary{
				Property:    p.Property,
				DisplayName: p.DisplayName,
			})
		}
		out = append(out, summary)
	}
	return out, nil
}

// ListDataStreams returns the first page of data streams of parent.
func (g *GoogleAPI) ListDataStreams(ctx context.Context, parent string) ([]DataStream, error) {
	ctx, span := startCall(ctx, "analyticsadmin.properties.dataStreams.list", parent)
	resp, err := g.svc.Properties.DataStreams.List(parent).Context(ctx).Do()
	if err := endCall(span, err); err != nil {
		return nil, err
	}

	out := make([]DataStream, 0, len(resp.DataStreams))
	for _, s := range resp.DataStreams {
		if s == nil {
			continue
		}
		stream := DataStream{Name: s.Name, DisplayName: s.DisplayName}
		if s.WebStreamData != nil {
			stream.WebStreamData = &WebStreamData{
				MeasurementID: s.WebStreamData.MeasurementId,
				DefaultURI:    s.WebStreamData.DefaultUri,
			}
		}
		out = append(out, stream)
	}
	return out, nil
}

// CreateCustomDimension creates dimension under parent. Description and
// scope are always sent, even when empty.
func (g *GoogleAPI) CreateCustomDimension(ctx context.Context, parent string, dimension CustomDimension) (CustomDimension, error) {
	ctx, span := startCall(ctx, "analyticsadmin.properties.customDimensions.create", parent)
	body := &analyticsadmin.GoogleAnalyticsAdminV1betaCustomDimension{
		ParameterName:   dimension.ParameterName,
		DisplayName:     dimension.DisplayName,
		Description:     dimension.Description,
		Scope:           string(dimension.Scope),
		ForceSendFields: []string{"Description", "Scope"},
	}
	resp, err := g.svc.Properties.CustomDimensions.Create(parent, body).Context(ctx).Do()
	if err := endCall(span, err); err != nil {
		return CustomDimension{}, err
	}
	return customDimensionFromAPI(resp), nil
}

// ListCustomDimensions lists one page of custom dimensions of parent.
func (g *GoogleAPI) ListCustomDimensions(ctx context.Context, parent string, page PageRequest) (CustomDimensionList, error) {
	ctx, span := startCall(ctx, "analyticsadmin.properties.customDimensions.list", parent)
	call := g.svc.Properties.CustomDimensions.List(parent).Context(ctx)
	if page.PageSize != nil {
		call = call.PageSize(*page.PageSize)
	}
	if page.PageToken != nil {
		call = call.PageToken(*page.PageToken)
	}
	resp, err := call.Do()
	if err := endCall(span, err); err != nil {
		return CustomDimensionList{}, err
	}

	out := CustomDimensionList{NextPageToken: resp.NextPageToken}
	for _, d := range resp.CustomDimensions {
		if d == nil {
			continue
		}
		out.CustomDimensions = append(out.CustomDimensions, customDimensionFromAPI(d))
	}
	return out, nil
}

// CreateConversionEvent creates a conversion event under parent.
func (g *GoogleAPI) CreateConversionEvent(ctx context.Context, parent string, event ConversionEvent) (ConversionEvent, error) {
	ctx, span := startCall(ctx, "analyticsadmin.properties.conversionEvents.create", parent)
	body := &analyticsadmin.GoogleAnalyticsAdminV1betaConversionEvent{
		EventName: event.EventName,
	}
	resp, err := g.svc.Properties.ConversionEvents.Create(parent, body).Context(ctx).Do()
	if err := endCall(span, err); err != nil {
		return ConversionEvent{}, err
	}
	return conversionEventFromAPI(resp), nil
}

// ListConversionEvents lists one page of conversion events of parent.
func (g *GoogleAPI) ListConversionEvents(ctx context.Context, parent string, page PageRequest) (ConversionEventList, error) {
	ctx, span := startCall(ctx, "analyticsadmin.properties.conversionEvents.list", parent)
	call := g.svc.Properties.ConversionEvents.List(parent).Context(ctx)
	if page.PageSize != nil {
		call = call.PageSize(*page.PageSize)
	}
	if page.PageToken != nil {
		call = call.PageToken(*page.PageToken)
	}
	resp, err := call.Do()
	if err := endCall(span, err); err != nil {
		return ConversionEventList{}, err
	}

	out := ConversionEventList{NextPageToken: resp.NextPageToken}
	for _, e := range resp.ConversionEvents {
		if e == nil {
			continue
		}
		out.ConversionEvents = append(out.ConversionEvents, conversionEventFromAPI(e))
	}
	return out, nil
}

func customDimensionFromAPI(d *analyticsadmin.GoogleAnalyticsAdminV1betaCustomDimension) CustomDimension {
	return CustomDimension{
		Name:                       d.Name,
		ParameterName:              d.ParameterName,
		DisplayName:                d.DisplayName,
		Description:                d.Description,
		Scope:                      DimensionScope(d.Scope),
		DisallowAdsPersonalization: d.DisallowAdsPersonalization,
	}
}

func conversionEventFromAPI(e *analyticsadmin.GoogleAnalyticsAdminV1betaConversionEvent) ConversionEvent {
	return ConversionEvent{
		Name:           e.Name,
		EventName:      e.EventName,
		CreateTime:     e.CreateTime,
		Deletable:      e.Deletable,
		Custom:         e.Custom,
		CountingMethod: e.CountingMethod,
	}
}
