package oasclient

import (
	"strings"
	"time"

	"github.com/specx2/oasclient/core/executor"
	"github.com/specx2/oasclient/oaserrors"
)

// Option configures a Client during construction.
type Option func(*config) error

type config struct {
	transport          executor.HTTPClient
	timeout            time.Duration
	serverSelector     executor.ServerSelector
	serverVariables    map[string]interface{}
	defaultHeaders     map[string]string
	methodHeaders      map[string]map[string]string
	applyMethodHeaders bool
	nameTransform      NameTransform
	strictPathParams   bool
	logger             Logger
}

func defaultConfig() *config {
	return &config{
		transport:     executor.NewDefaultHTTPClient(),
		nameTransform: DefaultNameTransform,
		logger:        NopLogger{},
	}
}

// WithTransport injects the HTTP client every call goes through. Anything
// implementing Do(*http.Request) works, including *http.Client.
func WithTransport(client executor.HTTPClient) Option {
	return func(c *config) error {
		if client == nil {
			return &oaserrors.ConfigError{Option: "transport", Message: "transport must not be nil"}
		}
		c.transport = client
		return nil
	}
}

// WithTimeout sets the request timeout on the default transport. It cannot
// be combined with WithTransport; set the timeout on the injected client
// instead.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return &oaserrors.ConfigError{Option: "timeout", Value: timeout, Message: "timeout must not be negative"}
		}
		c.timeout = timeout
		return nil
	}
}

// WithServer pins the default server used to resolve base URLs. Build the
// selector with SelectServerByIndex, SelectServerByDescription, or
// SelectServer.
func WithServer(selector ServerSelector) Option {
	return func(c *config) error {
		c.serverSelector = selector
		return nil
	}
}

// WithServerVariables sets override values for server URL template
// variables. A numeric value indexes into the variable's enum; a string
// must be an enum member when an enum is declared.
func WithServerVariables(variables map[string]interface{}) Option {
	return func(c *config) error {
		if c.serverVariables == nil {
			c.serverVariables = make(map[string]interface{}, len(variables))
		}
		for name, value := range variables {
			c.serverVariables[name] = value
		}
		return nil
	}
}

// WithDefaultHeaders sets headers applied to every request. Per-call
// headers and overrides win on key conflict.
func WithDefaultHeaders(headers map[string]string) Option {
	return func(c *config) error {
		if c.defaultHeaders == nil {
			c.defaultHeaders = make(map[string]string, len(headers))
		}
		for key, value := range headers {
			c.defaultHeaders[key] = value
		}
		return nil
	}
}

// WithMethodHeaders sets default headers for one HTTP method and enables
// method header application.
func WithMethodHeaders(method string, headers map[string]string) Option {
	return func(c *config) error {
		if method == "" {
			return &oaserrors.ConfigError{Option: "methodHeaders", Message: "method must not be empty"}
		}
		if c.methodHeaders == nil {
			c.methodHeaders = make(map[string]map[string]string)
		}
		key := strings.ToLower(method)
		if c.methodHeaders[key] == nil {
			c.methodHeaders[key] = make(map[string]string, len(headers))
		}
		for name, value := range headers {
			c.methodHeaders[key][name] = value
		}
		c.applyMethodHeaders = true
		return nil
	}
}

// WithMethodCommonHeaders toggles whether configured per-method default
// headers are merged into requests.
func WithMethodCommonHeaders(enabled bool) Option {
	return func(c *config) error {
		c.applyMethodHeaders = enabled
		return nil
	}
}

// WithOperationNameTransform rewrites operationIds before registration, so
// callers can address operations by e.g. PascalCase names.
func WithOperationNameTransform(transform NameTransform) Option {
	return func(c *config) error {
		if transform == nil {
			return &oaserrors.ConfigError{Option: "operationNameTransform", Message: "transform must not be nil"}
		}
		c.nameTransform = transform
		return nil
	}
}

// WithStrictPathParams makes a missing path parameter a resolution error
// instead of substituting the literal string "undefined".
func WithStrictPathParams() Option {
	return func(c *config) error {
		c.strictPathParams = true
		return nil
	}
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(logger Logger) Option {
	return func(c *config) error {
		if logger == nil {
			return &oaserrors.ConfigError{Option: "logger", Message: "logger must not be nil"}
		}
		c.logger = logger
		return nil
	}
}
