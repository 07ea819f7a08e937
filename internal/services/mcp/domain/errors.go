package domain

import "fmt"

// UnknownOperationError reports a tool name outside the catalog.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("Unknown tool: %s", e.Name)
}

// InvalidArgumentError reports a tool argument that failed validation.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("Invalid arguments: %s", e.Reason)
	}
	return fmt.Sprintf("Invalid argument %q: %s", e.Field, e.Reason)
}
