// Package mcpbridge serves the operations of an oasclient.Client as MCP
// tools. Each catalog operation becomes one tool whose input schema is
// derived from the declared parameters and request body; tool calls are
// translated into client calls and the HTTP response body is returned as
// text content.
package mcpbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/specx2/oasclient"
	"github.com/specx2/oasclient/core/ir"
	"github.com/specx2/oasclient/oaserrors"
)

// Bridge owns the MCP server wrapping one client. Tools are registered at
// construction and the tool set never changes afterwards.
type Bridge struct {
	client  *oasclient.Client
	server  *server.MCPServer
	filter  *Filter
	logger  oasclient.Logger
	name    string
	version string
}

// Option configures a Bridge during construction.
type Option func(*Bridge) error

// WithFilter restricts which operations are served.
func WithFilter(filter *Filter) Option {
	return func(b *Bridge) error {
		b.filter = filter
		return nil
	}
}

// WithServerInfo sets the name and version the MCP server announces.
func WithServerInfo(name, version string) Option {
	return func(b *Bridge) error {
		if name == "" {
			return &oaserrors.ConfigError{Option: "serverInfo", Message: "name must not be empty"}
		}
		b.name = name
		if version != "" {
			b.version = version
		}
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger oasclient.Logger) Option {
	return func(b *Bridge) error {
		if logger == nil {
			return &oaserrors.ConfigError{Option: "logger", Message: "logger must not be nil"}
		}
		b.logger = logger
		return nil
	}
}

// New builds a bridge over the client and registers one tool per served
// operation.
func New(client *oasclient.Client, opts ...Option) (*Bridge, error) {
	if client == nil {
		return nil, &oaserrors.ConfigError{Option: "client", Message: "client must not be nil"}
	}

	b := &Bridge{
		client:  client,
		logger:  oasclient.NopLogger{},
		name:    "oasclient",
		version: "0.1.0",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	b.server = server.NewMCPServer(b.name, b.version)
	b.registerTools()
	return b, nil
}

// Server exposes the underlying MCP server for embedding into an existing
// transport.
func (b *Bridge) Server() *server.MCPServer {
	return b.server
}

// ServeStdio serves the bridge on stdin and stdout until the context ends
// or the stream closes.
func (b *Bridge) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(b.server).Listen(ctx, os.Stdin, os.Stdout)
}

func (b *Bridge) registerTools() {
	count := 0
	for _, op := range b.client.Operations() {
		serve, tags := b.filter.Decide(op)
		if !serve {
			continue
		}
		b.server.AddTool(toolFromOperation(op, tags), b.handlerFor(op))
		count++
	}
	b.logger.Info("registered MCP tools", "count", count)
}

func (b *Bridge) handlerFor(op *ir.Operation) server.ToolHandlerFunc {
	method := b.client.PathOp(op.Path, op.Method)
	key := payloadKey(op)

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		var payload interface{}
		params := make(map[string]interface{}, len(args))
		for name, value := range args {
			if name == key && op.RequestBody != nil {
				payload = value
				continue
			}
			params[name] = value
		}

		callArgs := []interface{}{oasclient.MapParams(params), payload}
		if headers := callHeaders(ctx); len(headers) > 0 {
			callArgs = append(callArgs, &oasclient.RequestOverride{Headers: headers})
		}

		resp, err := method.Call(ctx, callArgs...)
		if err != nil {
			b.logger.Warn("tool call failed", "tool", request.Params.Name, "error", err)
			return errorResult(err.Error()), nil
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to read response body: %v", err)), nil
		}

		text := string(data)
		if resp.StatusCode >= 400 {
			return errorResult(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, text)), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(text)}}, nil
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{mcp.NewTextContent(message)},
	}
}

func toolFromOperation(op *ir.Operation, tags []string) mcp.Tool {
	schemaJSON, _ := json.Marshal(inputSchema(op))

	options := []mcp.ToolOption{
		mcp.WithDescription(toolDescription(op)),
		mcp.WithRawInputSchema(schemaJSON),
	}
	if annotation := deriveAnnotations(op); annotation != nil {
		options = append(options, mcp.WithToolAnnotation(*annotation))
	}

	tool := mcp.NewTool(toolName(op), options...)
	if meta := toolMeta(op, tags); len(meta) > 0 {
		tool.Meta = mcp.NewMetaFromMap(meta)
	}
	return tool
}

func toolName(op *ir.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	replacer := strings.NewReplacer("/", "_", "{", "", "}", "")
	return op.Method + strings.TrimRight(replacer.Replace(op.Path), "_")
}

func toolDescription(op *ir.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	if op.Description != "" {
		return op.Description
	}
	return strings.ToUpper(op.Method) + " " + op.Path
}

// inputSchema derives the tool's argument schema: one property per declared
// parameter plus one for the request body when the operation accepts one.
func inputSchema(op *ir.Operation) ir.Schema {
	properties := make(map[string]interface{})
	var required []string

	for i := range op.Parameters {
		param := &op.Parameters[i]
		if _, exists := properties[param.Name]; exists {
			continue
		}
		schema := make(map[string]interface{}, len(param.Schema)+1)
		for k, v := range param.Schema {
			schema[k] = v
		}
		if param.Description != "" && schema["description"] == nil {
			schema["description"] = param.Description
		}
		properties[param.Name] = schema
		if param.Required {
			required = append(required, param.Name)
		}
	}

	if op.RequestBody != nil {
		key := payloadKey(op)
		properties[key] = bodySchema(op.RequestBody)
		if op.RequestBody.Required {
			required = append(required, key)
		}
	}

	schema := ir.Schema{"type": "object", "properties": properties}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// payloadKey avoids colliding with a declared parameter named "body".
func payloadKey(op *ir.Operation) string {
	if op.Parameter("body") == nil {
		return "body"
	}
	return "requestBody"
}

func bodySchema(body *ir.RequestBodyInfo) map[string]interface{} {
	for _, contentType := range body.ContentOrder {
		if !strings.Contains(contentType, "json") {
			continue
		}
		if schema, ok := body.ContentSchemas[contentType]; ok {
			return schema
		}
	}
	for _, contentType := range body.ContentOrder {
		if schema, ok := body.ContentSchemas[contentType]; ok {
			return schema
		}
	}
	return map[string]interface{}{}
}

func deriveAnnotations(op *ir.Operation) *mcp.ToolAnnotation {
	switch strings.ToUpper(op.Method) {
	case "GET", "HEAD":
		return annotationFor(boolPtr(true), boolPtr(false), boolPtr(true), boolPtr(true), op.Summary)
	case "PUT", "DELETE":
		return annotationFor(boolPtr(false), boolPtr(true), boolPtr(true), boolPtr(true), op.Summary)
	default:
		return nil
	}
}

func annotationFor(readOnly, destructive, idempotent, openWorld *bool, title string) *mcp.ToolAnnotation {
	annotation := mcp.ToolAnnotation{
		ReadOnlyHint:    readOnly,
		DestructiveHint: destructive,
		IdempotentHint:  idempotent,
		OpenWorldHint:   openWorld,
	}
	if title != "" {
		annotation.Title = title
	}
	return &annotation
}

func boolPtr(v bool) *bool {
	value := v
	return &value
}

func toolMeta(op *ir.Operation, tags []string) map[string]interface{} {
	openapi := map[string]interface{}{
		"method": op.Method,
		"path":   op.Path,
	}
	if op.OperationID != "" {
		openapi["operationId"] = op.OperationID
	}
	if len(op.Extensions) > 0 {
		openapi["extensions"] = op.Extensions
	}

	meta := map[string]interface{}{"openapi": openapi}
	if len(tags) > 0 {
		meta["tags"] = tags
	}
	return meta
}
