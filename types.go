package oasclient

import (
	"github.com/specx2/oasclient/core/executor"
	"github.com/specx2/oasclient/core/ir"
)

// Aliases for the core types callers touch, so typical use needs only this
// package.
type (
	// Document is the flattened operation catalog of one OpenAPI document.
	Document = ir.Document

	// Operation is one entry of the catalog.
	Operation = ir.Operation

	// Parameter is one declared operation parameter.
	Parameter = ir.Parameter

	// Server is one server entry, possibly with a URL template.
	Server = ir.Server

	// ServerVariable declares the default and enum of one URL template
	// variable.
	ServerVariable = ir.ServerVariable

	// RequestDescriptor is the transport-agnostic result of resolving a
	// call.
	RequestDescriptor = ir.RequestDescriptor

	// RequestOverride is the optional per-call config, merged last.
	RequestOverride = ir.RequestOverride

	// Params carries call parameters in scalar, map, or list shape.
	Params = executor.Params

	// ParamEntry is one explicit parameter binding for ListParams.
	ParamEntry = executor.ParamEntry

	// ServerSelector picks the default server from the document list.
	ServerSelector = executor.ServerSelector

	// HTTPClient is the transport seam used by WithTransport.
	HTTPClient = executor.HTTPClient
)

// ScalarParams binds one bare value to the operation's first required
// parameter, or to its first declared parameter when none are required.
func ScalarParams(value interface{}) Params {
	return executor.ScalarParams(value)
}

// MapParams binds values by parameter name.
func MapParams(values map[string]interface{}) Params {
	return executor.MapParams(values)
}

// ListParams binds explicit entries in order, honoring each entry's In.
func ListParams(entries ...ParamEntry) Params {
	return executor.ListParams(entries...)
}

// SelectServerByIndex selects the document server at the given position.
func SelectServerByIndex(index int) ServerSelector {
	return executor.SelectServerByIndex(index)
}

// SelectServerByDescription selects the first document server whose
// description matches exactly.
func SelectServerByDescription(description string) ServerSelector {
	return executor.SelectServerByDescription(description)
}

// SelectServer bypasses the document's server list with a literal server.
func SelectServer(server Server) ServerSelector {
	return executor.SelectServer(server)
}
