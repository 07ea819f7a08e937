package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"time"

	"github.com/louisbranch/ga4-admin-mcp/internal/platform/telemetry/metrics"
	"github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/admin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const unknownToolLabel = "unknown"

var tracer = otel.Tracer("github.com/louisbranch/ga4-admin-mcp/internal/services/mcp/domain")

// Operations is the admin surface the dispatcher drives.
type Operations interface {
	CreateCustomDimension(ctx context.Context, spec admin.CustomDimensionSpec) (admin.CustomDimension, error)
	CreateConversionEvent(ctx context.Context, spec admin.ConversionEventSpec) (admin.ConversionEvent, error)
	ListCustomDimensions(ctx context.Context, query admin.ListQuery) (admin.CustomDimensionPage, error)
	ListConversionEvents(ctx context.Context, query admin.ListQuery) (admin.ConversionEventPage, error)
}

// Dispatcher runs tool calls against the admin operations.
type Dispatcher struct {
	ops     Operations
	metrics *metrics.Registry
}

// NewDispatcher creates a dispatcher. reg may be nil.
func NewDispatcher(ops Operations, reg *metrics.Registry) *Dispatcher {
	return &Dispatcher{ops: ops, metrics: reg}
}

// Dispatch runs the named tool with its raw JSON arguments and always
// returns a result: failures come back with IsError set and the failure
// envelope as text.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, raw json.RawMessage) *mcp.CallToolResult {
	start := time.Now()
	invocationID, err := NewInvocationID()
	if err != nil {
		log.Printf("generate invocation id: %v", err)
	}

	ctx, span := tracer.Start(ctx, "mcp.tool "+name, trace.WithAttributes(
		attribute.String("mcp.tool.name", name),
		attribute.String("mcp.invocation_id", invocationID),
	))
	defer span.End()

	payload, callErr := d.safeRun(ctx, name, raw)
	if callErr != nil {
		payload = failure(callErr)
		span.RecordError(callErr)
		span.SetStatus(otelcodes.Error, callErr.Error())
	}

	text, err := renderEnvelope(payload)
	if err != nil {
		if callErr == nil {
			callErr = err
		}
		text = `{"success": false, "error": "encode result", "details": null}`
	}

	result := CallToolResultWithMetadata(ToolCallMetadata{InvocationID: invocationID})
	result.Content = []mcp.Content{&mcp.TextContent{Text: text}}
	result.IsError = callErr != nil

	label := name
	if !IsKnownTool(name) {
		label = unknownToolLabel
	}
	outcome := metrics.OutcomeSuccess
	if result.IsError {
		outcome = metrics.OutcomeFailure
	}
	elapsed := time.Since(start)
	d.metrics.ObserveToolCall(label, outcome, elapsed)

	if callErr != nil {
		log.Printf("tool %s invocation=%s failed after %s: %v", name, invocationID, elapsed, callErr)
	} else {
		log.Printf("tool %s invocation=%s ok in %s", name, invocationID, elapsed)
	}
	return result
}

// safeRun runs the tool and converts a panic into an error so it surfaces as
// a failure envelope.
func (d *Dispatcher) safeRun(ctx context.Context, name string, raw json.RawMessage) (payload any, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("panic recovered tool=%s panic=%v stack=%s",
				name, recovered, strings.TrimSpace(string(debug.Stack())))
			payload = nil
			err = fmt.Errorf("internal error: %v", recovered)
		}
	}()
	return d.run(ctx, name, raw)
}

func (d *Dispatcher) run(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	action, err := DecodeAction(name, raw)
	if err != nil {
		return nil, err
	}

	switch a := action.(type) {
	case CreateCustomDimensionAction:
		dimension, err := d.ops.CreateCustomDimension(ctx, a.Spec)
		if err != nil {
			return nil, err
		}
		return dimensionCreated(dimension), nil
	case CreateConversionEventAction:
		event, err := d.ops.CreateConversionEvent(ctx, a.Spec)
		if err != nil {
			return nil, err
		}
		return eventCreated(event), nil
	case ListCustomDimensionsAction:
		page, err := d.ops.ListCustomDimensions(ctx, a.Query)
		if err != nil {
			return nil, err
		}
		return dimensionsListed(page), nil
	case ListConversionEventsAction:
		page, err := d.ops.ListConversionEvents(ctx, a.Query)
		if err != nil {
			return nil, err
		}
		return eventsListed(page), nil
	}
	return nil, &UnknownOperationError{Name: name}
}

// Handler adapts the dispatcher to an MCP tool handler.
func (d *Dispatcher) Handler() mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var raw json.RawMessage
		name := ""
		if req != nil && req.Params != nil {
			name = req.Params.Name
			raw = req.Params.Arguments
		}
		return d.Dispatch(ctx, name, raw), nil
	}
}

// UnknownToolMiddleware answers tools/call requests for names outside the
// catalog with the failure envelope instead of a protocol error.
func (d *Dispatcher) UnknownToolMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
			if method != "tools/call" {
				return next(ctx, method, req)
			}
			call, ok := req.(*mcp.CallToolRequest)
			if !ok || call.Params == nil || IsKnownTool(call.Params.Name) {
				return next(ctx, method, req)
			}
			return d.Dispatch(ctx, call.Params.Name, call.Params.Arguments), nil
		}
	}
}
