// Package oasclient turns an OpenAPI v3 document into a callable HTTP API
// client at runtime. The document is flattened once into an operation
// catalog; each operation becomes a Method addressable by operationId or by
// path and HTTP method. A call translates its arguments into a request
// descriptor, hands the assembled *http.Request to the configured
// transport, and returns the response untouched. No code generation, no
// response mapping, no validation.
//
//	client, err := oasclient.NewFromFile("petstore.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resp, err := client.Op("getPetById").Call(ctx, 1)
package oasclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/specx2/oasclient/core/executor"
	"github.com/specx2/oasclient/core/ir"
	"github.com/specx2/oasclient/core/parser"
	"github.com/specx2/oasclient/oaserrors"
)

// Client exposes the operations of one OpenAPI document as callable
// methods. The catalog and registry are built once at construction and are
// read-only afterwards; only the default server selection is mutable, via
// SelectServer and SetServerVariables, and that state is guarded for
// concurrent use.
type Client struct {
	document *ir.Document
	version  string

	registry  map[string]*Method
	pathIndex map[string]map[string]*Method

	transport          executor.HTTPClient
	defaultHeaders     map[string]string
	methodHeaders      map[string]map[string]string
	applyMethodHeaders bool
	strictPathParams   bool
	nameTransform      NameTransform
	logger             Logger

	mu              sync.RWMutex
	serverSelector  executor.ServerSelector
	serverVariables map[string]interface{}
}

// New builds a client from raw spec bytes, JSON or YAML.
func New(spec []byte, opts ...Option) (*Client, error) {
	result, err := parser.Load(spec, "")
	if err != nil {
		return nil, err
	}
	return newClient(result.Document, result.Version, opts)
}

// NewFromFile builds a client from a spec file on disk. Relative file
// references resolve against the file's directory.
func NewFromFile(path string, opts ...Option) (*Client, error) {
	result, err := parser.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return newClient(result.Document, result.Version, opts)
}

// NewFromURL fetches the spec over HTTP and builds a client from it. The
// fetch uses the same transport the client is configured with.
func NewFromURL(ctx context.Context, specURL string, opts ...Option) (*Client, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	result, err := parser.LoadURL(ctx, specURL, cfg.transport)
	if err != nil {
		return nil, err
	}
	return clientFromConfig(result.Document, result.Version, cfg)
}

// NewFromDocument builds a client from an already flattened catalog, e.g.
// one shared across several clients.
func NewFromDocument(document *ir.Document, opts ...Option) (*Client, error) {
	if document == nil {
		return nil, &oaserrors.ConfigError{Option: "document", Message: "document must not be nil"}
	}
	return newClient(document, "", opts)
}

func newClient(document *ir.Document, version string, opts []Option) (*Client, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return clientFromConfig(document, version, cfg)
}

func buildConfig(opts []Option) (*config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.timeout > 0 {
		transport, ok := cfg.transport.(*executor.DefaultHTTPClient)
		if !ok {
			return nil, &oaserrors.ConfigError{
				Option:  "timeout",
				Message: "timeout applies to the default transport only; configure the injected transport instead",
			}
		}
		transport.WithTimeout(cfg.timeout)
	}
	return cfg, nil
}

func clientFromConfig(document *ir.Document, version string, cfg *config) (*Client, error) {
	c := &Client{
		document:           document,
		version:            version,
		registry:           make(map[string]*Method),
		pathIndex:          make(map[string]map[string]*Method),
		transport:          cfg.transport,
		defaultHeaders:     cfg.defaultHeaders,
		methodHeaders:      cfg.methodHeaders,
		applyMethodHeaders: cfg.applyMethodHeaders,
		strictPathParams:   cfg.strictPathParams,
		nameTransform:      cfg.nameTransform,
		logger:             cfg.logger,
		serverSelector:     cfg.serverSelector,
		serverVariables:    cfg.serverVariables,
	}
	c.register()
	return c, nil
}

// register populates the name registry and the path index. Both are
// write-once; nothing mutates them after construction.
func (c *Client) register() {
	for _, op := range c.document.Operations {
		method := &Method{client: c, operation: op}

		byMethod := c.pathIndex[op.Path]
		if byMethod == nil {
			byMethod = make(map[string]*Method)
			c.pathIndex[op.Path] = byMethod
		}
		byMethod[op.Method] = method

		if op.OperationID == "" {
			// reachable through PathOp only
			method.name = op.Method + " " + op.Path
			continue
		}
		name := c.nameTransform(op.OperationID)
		method.name = name
		if _, exists := c.registry[name]; exists {
			c.logger.Warn("duplicate operation name, keeping first",
				"operationId", op.OperationID, "name", name)
			continue
		}
		c.registry[name] = method
	}
	c.logger.Debug("operation catalog registered",
		"operations", len(c.document.Operations), "named", len(c.registry))
}

// Op returns the method registered under the given, possibly transformed,
// operationId. Unknown names return a stub whose calls fail with
// ErrOperationNotFound, so lookups chain directly into Call.
func (c *Client) Op(name string) *Method {
	if method, ok := c.registry[name]; ok {
		return method
	}
	return &Method{
		name: name,
		err: &oaserrors.ParameterError{
			Operation: name,
			Message:   "no operation registered under this name",
			Cause:     oaserrors.ErrOperationNotFound,
		},
	}
}

// PathOp returns the method serving a literal path template and HTTP
// method, independent of operationIds. Like Op, unknown pairs return a
// failing stub.
func (c *Client) PathOp(path, httpMethod string) *Method {
	if byMethod, ok := c.pathIndex[path]; ok {
		if method, ok := byMethod[normalizeMethod(httpMethod)]; ok {
			return method
		}
	}
	return &Method{
		name: httpMethod + " " + path,
		err: &oaserrors.ParameterError{
			Operation: httpMethod + " " + path,
			Message:   "no operation registered under this path and method",
			Cause:     oaserrors.ErrOperationNotFound,
		},
	}
}

// Operations returns the catalog in document order.
func (c *Client) Operations() []*ir.Operation {
	return c.document.Operations
}

// Document returns the flattened catalog.
func (c *Client) Document() *ir.Document {
	return c.document
}

// Version reports the OpenAPI version string the document declared, when
// the client was built by parsing one.
func (c *Client) Version() string {
	return c.version
}

// SelectServer changes the default server for all subsequent calls. Safe
// for concurrent use, but calls in flight during the change may resolve
// against either server.
func (c *Client) SelectServer(selector ServerSelector) {
	c.mu.Lock()
	c.serverSelector = selector
	c.mu.Unlock()
}

// SetServerVariables replaces the server URL template overrides for all
// subsequent calls.
func (c *Client) SetServerVariables(variables map[string]interface{}) {
	c.mu.Lock()
	c.serverVariables = variables
	c.mu.Unlock()
}

// BaseURL resolves the base URL an operation would currently use. A nil
// operation resolves against the document servers alone.
func (c *Client) BaseURL(op *ir.Operation) (string, error) {
	c.mu.RLock()
	selector, variables := c.serverSelector, c.serverVariables
	c.mu.RUnlock()
	return executor.ResolveBaseURL(c.document, selector, variables, op)
}

func (c *Client) methodHeaderDefaults() map[string]map[string]string {
	if !c.applyMethodHeaders {
		return nil
	}
	return c.methodHeaders
}

// Method is one callable operation bound to its client.
type Method struct {
	client    *Client
	operation *ir.Operation
	name      string
	err       error
}

// Name returns the registry name, after any configured transform.
func (m *Method) Name() string {
	return m.name
}

// Operation returns the catalog entry behind this method; nil for
// not-found stubs.
func (m *Method) Operation() *ir.Operation {
	return m.operation
}

// Descriptor resolves the call arguments into a finished request
// descriptor without performing any I/O. The accepted argument tuple is
// (params?, payload?, override?): params as Params, map, []ParamEntry, or a
// bare scalar; override as *RequestOverride.
func (m *Method) Descriptor(args ...interface{}) (*ir.RequestDescriptor, error) {
	descriptor, _, err := m.resolve(args)
	return descriptor, err
}

// Call resolves the arguments, assembles the HTTP request, and executes it
// on the client's transport. The response and any transport error are
// returned exactly as the transport produced them.
func (m *Method) Call(ctx context.Context, args ...interface{}) (*http.Response, error) {
	descriptor, override, err := m.resolve(args)
	if err != nil {
		return nil, err
	}

	contentType := ""
	if override != nil {
		contentType = override.ContentType
	}
	req, err := executor.NewHTTPRequest(ctx, m.operation, descriptor, executor.SelectContentType(m.operation, contentType))
	if err != nil {
		return nil, err
	}

	m.client.logger.Debug("dispatching request",
		"operation", m.name, "method", descriptor.Method, "url", descriptor.URL)
	return m.client.transport.Do(req)
}

func (m *Method) resolve(args []interface{}) (*ir.RequestDescriptor, *ir.RequestOverride, error) {
	if m.err != nil {
		return nil, nil, m.err
	}

	params, payload, override, err := splitCallArgs(m.name, args)
	if err != nil {
		return nil, nil, err
	}

	descriptor, err := executor.ResolveRequest(m.operation, params, payload, executor.ResolveOptions{
		StrictPathParams: m.client.strictPathParams,
	})
	if err != nil {
		return nil, nil, err
	}

	executor.ApplyHeaderDefaults(descriptor, m.client.defaultHeaders, m.client.methodHeaderDefaults())
	executor.ApplyOverride(m.operation, descriptor, override)

	baseURL, err := m.client.BaseURL(m.operation)
	if err != nil {
		return nil, nil, err
	}
	if override != nil && override.BaseURL != "" {
		baseURL = override.BaseURL
	}
	descriptor.URL = executor.BuildURL(baseURL, descriptor.Path, descriptor.QueryString)

	return descriptor, override, nil
}

// splitCallArgs classifies the positional argument tuple. The first
// argument routes by shape: an explicit Params value, a name to value map,
// a ParamEntry list, or anything else as a bare scalar. The second is the
// payload, passed through untouched. The third must be a *RequestOverride.
func splitCallArgs(operation string, args []interface{}) (executor.Params, interface{}, *ir.RequestOverride, error) {
	if len(args) > 3 {
		return executor.Params{}, nil, nil, &oaserrors.ParameterError{
			Operation: operation,
			Message:   fmt.Sprintf("expected at most 3 arguments (params, payload, override), got %d", len(args)),
			Cause:     oaserrors.ErrTooManyArguments,
		}
	}

	var params executor.Params
	if len(args) > 0 && args[0] != nil {
		switch v := args[0].(type) {
		case executor.Params:
			params = v
		case *executor.Params:
			if v != nil {
				params = *v
			}
		case map[string]interface{}:
			params = executor.MapParams(v)
		case []executor.ParamEntry:
			params = executor.ListParams(v...)
		default:
			params = executor.ScalarParams(v)
		}
	}

	var payload interface{}
	if len(args) > 1 {
		payload = args[1]
	}

	var override *ir.RequestOverride
	if len(args) > 2 && args[2] != nil {
		switch v := args[2].(type) {
		case *ir.RequestOverride:
			override = v
		case ir.RequestOverride:
			override = &v
		default:
			return executor.Params{}, nil, nil, &oaserrors.ParameterError{
				Operation: operation,
				Message:   fmt.Sprintf("third argument must be a *RequestOverride, got %T", args[2]),
			}
		}
	}

	return params, payload, override, nil
}

func normalizeMethod(method string) string {
	return strings.ToLower(method)
}
