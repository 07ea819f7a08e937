package domain

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names.
const (
	ToolCreateCustomDimension = "create_custom_dimension"
	ToolCreateConversionEvent = "create_conversion_event"
	ToolListCustomDimensions  = "list_custom_dimensions"
	ToolListConversionEvents  = "list_conversion_events"
)

// ToolNames lists the catalog in discovery order.
var ToolNames = []string{
	ToolCreateCustomDimension,
	ToolCreateConversionEvent,
	ToolListCustomDimensions,
	ToolListConversionEvents,
}

// IsKnownTool reports whether name is in the catalog.
func IsKnownTool(name string) bool {
	_, ok := allowedFields[name]
	return ok
}

func stringProperty(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

// CreateCustomDimensionTool defines the MCP tool schema for creating a custom
// dimension.
func CreateCustomDimensionTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolCreateCustomDimension,
		Description: "Create a custom dimension in Google Analytics 4",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				fieldPropertyID:    stringProperty("GA4 Property ID (e.g., 'G-859X61KC45' or '123456789')"),
				fieldParameterName: stringProperty("Event parameter name (e.g., 'method', 'session_id')"),
				fieldDisplayName:   stringProperty("Display name shown in GA4 UI"),
				fieldDescription:   stringProperty("Optional description of the dimension"),
				fieldScope: {
					Type:        "string",
					Enum:        []any{"EVENT", "USER", "ITEM"},
					Description: "Dimension scope (default: EVENT)",
				},
			},
			Required: []string{fieldPropertyID, fieldParameterName, fieldDisplayName},
		},
	}
}

// CreateConversionEventTool defines the MCP tool schema for marking an event
// as a conversion.
func CreateConversionEventTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolCreateConversionEvent,
		Description: "Mark an event as a conversion in Google Analytics 4",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				fieldPropertyID: stringProperty("GA4 Property ID"),
				fieldEventName:  stringProperty("Event name to mark as conversion"),
			},
			Required: []string{fieldPropertyID, fieldEventName},
		},
	}
}

// ListCustomDimensionsTool defines the MCP tool schema for listing custom
// dimensions.
func ListCustomDimensionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolListCustomDimensions,
		Description: "List all custom dimensions in a GA4 property",
		InputSchema: propertyOnlySchema(),
	}
}

// ListConversionEventsTool defines the MCP tool schema for listing
// conversion events.
func ListConversionEventsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolListConversionEvents,
		Description: "List all conversion events in a GA4 property",
		InputSchema: propertyOnlySchema(),
	}
}

func propertyOnlySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			fieldPropertyID: stringProperty("GA4 Property ID"),
		},
		Required: []string{fieldPropertyID},
	}
}

// Tools returns the full catalog in discovery order.
func Tools() []*mcp.Tool {
	return []*mcp.Tool{
		CreateCustomDimensionTool(),
		CreateConversionEventTool(),
		ListCustomDimensionsTool(),
		ListConversionEventsTool(),
	}
}
