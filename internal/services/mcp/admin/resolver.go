package admin

import (
	"context"
	"strings"

	"go.einride.tech/aip/resourcename"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	propertyPrefix      = "properties/"
	measurementIDPrefix = "G-"

	propertyPattern = "properties/{property}"
)

var tracer = otel.Tracer("github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/admin")

// Resolver turns a caller-supplied property reference into the canonical
// "properties/{id}" path.
type Resolver struct {
	api     API
	limiter *rate.Limiter
}

// NewResolver creates a resolver backed by api. A nil limiter leaves the
// data stream lookups unpaced. The limiter may be shared between resolvers;
// Service passes the same one to every invocation so that concurrent
// measurement ID lookups draw from a single budget.
func NewResolver(api API, limiter *rate.Limiter) *Resolver {
	return &Resolver{api: api, limiter: limiter}
}

// NewLookupLimiter builds the limiter that paces data stream lookups during
// measurement ID resolution. A non-positive rps disables pacing.
func NewLookupLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Resolve returns the canonical property path for reference.
//
// Canonical paths are returned unchanged and any other reference without the
// "G-" prefix is prefixed with "properties/"; neither makes a remote call.
// A measurement ID is searched for across the first page of account
// summaries and the data streams of each listed property, in the order the
// API returns them. The first matching web stream wins.
func (r *Resolver) Resolve(ctx context.Context, reference string) (string, error) {
	switch {
	case strings.HasPrefix(reference, propertyPrefix):
		return reference, nil
	case strings.HasPrefix(reference, measurementIDPrefix):
		return r.findByMeasurementID(ctx, reference)
	default:
		return resourcename.Sprint(propertyPattern, reference), nil
	}
}

func (r *Resolver) findByMeasurementID(ctx context.Context, measurementID string) (string, error) {
	ctx, span := tracer.Start(ctx, "admin.ResolveMeasurementID",
		trace.WithAttributes(attribute.String("ga4.measurement_id", measurementID)))
	defer span.End()

	accounts, err := r.api.ListAccountSummaries(ctx)
	if err != nil {
		span.SetStatus(otelcodes.Error, err.Error())
		return "", err
	}

	visited := 0
	for _, account := range accounts {
		for _, summary := range account.PropertySummaries {
			if summary.Property == "" {
				continue
			}
			if r.limiter != nil {
				if err := r.limiter.Wait(ctx); err != nil {
					span.SetStatus(otelcodes.Error, err.Error())
					return "", err
				}
			}
			visited++
			streams, err := r.api.ListDataStreams(ctx, summary.Property)
			if err != nil {
				span.SetStatus(otelcodes.Error, err.Error())
				return "", err
			}
			for _, stream := range streams {
				if stream.WebStreamData != nil && stream.WebStreamData.MeasurementID == measurementID {
					span.SetAttributes(
						attribute.String("ga4.property", summary.Property),
						attribute.Int("ga4.properties_visited", visited),
					)
					return summary.Property, nil
				}
			}
		}
	}

	span.SetAttributes(attribute.Int("ga4.properties_visited", visited))
	err = &NotFoundError{Reference: measurementID}
	span.SetStatus(otelcodes.Error, err.Error())
	return "", err
}
