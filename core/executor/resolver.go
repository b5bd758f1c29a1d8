package executor

import (
	"regexp"
	"sort"
	"strings"

	"github.com/specx2/oasclient/core/ir"
	"github.com/specx2/oasclient/oaserrors"
)

var pathTokenPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ResolveOptions adjusts per-call resolution behavior.
type ResolveOptions struct {
	// StrictPathParams makes a missing path template value an error instead
	// of substituting the literal string "undefined".
	StrictPathParams bool
}

// ResolveRequest translates one call's parameters and payload into a
// server-relative request descriptor. Resolution is a pure data
// transformation: no I/O happens here, and the descriptor's URL field is
// filled in by the assembler once a base URL is known. The payload passes
// through untouched.
func ResolveRequest(op *ir.Operation, params Params, payload interface{}, opts ResolveOptions) (*ir.RequestDescriptor, error) {
	b := newBuckets()
	if err := routeParams(op, params, b); err != nil {
		return nil, err
	}

	path, err := substitutePath(op, b.path, opts)
	if err != nil {
		return nil, err
	}

	return &ir.RequestDescriptor{
		Method:      strings.ToUpper(op.Method),
		Path:        path,
		PathParams:  b.path,
		Query:       b.query,
		QueryString: encodeQueryString(op, b.query, b.queryOrder),
		QueryOrder:  b.queryOrder,
		Headers:     b.headers,
		Cookies:     b.cookies,
		Payload:     payload,
	}, nil
}

// buckets collects routed parameter values per location. Query values keep
// their raw shape for style-aware serialization; the other locations store
// rendered strings. queryOrder records first-seen insertion order so the
// encoded query string is deterministic.
type buckets struct {
	path       map[string]string
	query      map[string]interface{}
	queryOrder []string
	headers    map[string]string
	cookies    map[string]string
}

func newBuckets() *buckets {
	return &buckets{
		path:    make(map[string]string),
		query:   make(map[string]interface{}),
		headers: make(map[string]string),
		cookies: make(map[string]string),
	}
}

func (b *buckets) add(op *ir.Operation, name string, value interface{}, location string) {
	if value == nil {
		return
	}
	if location == "" {
		location = declaredLocation(op, name)
	}
	switch location {
	case ir.ParameterInPath:
		b.path[name] = formatScalar(value)
	case ir.ParameterInHeader:
		b.headers[name] = simpleValue(value)
	case ir.ParameterInCookie:
		b.cookies[name] = simpleValue(value)
	default:
		if _, seen := b.query[name]; !seen {
			b.queryOrder = append(b.queryOrder, name)
		}
		b.query[name] = value
	}
}

// declaredLocation looks up where a named parameter belongs. Names absent
// from the operation's declarations route to the query, which permits ad
// hoc parameters not present in the document.
func declaredLocation(op *ir.Operation, name string) string {
	if param := op.Parameter(name); param != nil {
		return param.In
	}
	return ir.ParameterInQuery
}

func routeParams(op *ir.Operation, params Params, b *buckets) error {
	switch params.kind {
	case paramsNone:
		return nil

	case paramsList:
		for _, entry := range params.entries {
			b.add(op, entry.Name, entry.Value, entry.In)
		}
		return nil

	case paramsMap:
		// Declared names route in declaration order, remaining names in
		// sorted order, keeping the query string stable for identical input.
		remaining := make(map[string]interface{}, len(params.mapped))
		for name, value := range params.mapped {
			remaining[name] = value
		}
		for i := range op.Parameters {
			name := op.Parameters[i].Name
			if value, ok := remaining[name]; ok {
				b.add(op, name, value, "")
				delete(remaining, name)
			}
		}
		undeclared := make([]string, 0, len(remaining))
		for name := range remaining {
			undeclared = append(undeclared, name)
		}
		sort.Strings(undeclared)
		for _, name := range undeclared {
			b.add(op, name, remaining[name], "")
		}
		return nil

	case paramsScalar:
		target := primaryParameter(op)
		if target == nil {
			return &oaserrors.ParameterError{
				Operation: op.OperationID,
				Message:   "scalar argument but operation declares no parameters",
				Cause:     oaserrors.ErrNoParametersAvailable,
			}
		}
		b.add(op, target.Name, params.scalar, target.In)
		return nil
	}

	return nil
}

// primaryParameter is the target of a bare scalar argument: the first
// parameter flagged required, or the first declared one when none are.
func primaryParameter(op *ir.Operation) *ir.Parameter {
	for i := range op.Parameters {
		if op.Parameters[i].Required {
			return &op.Parameters[i]
		}
	}
	if len(op.Parameters) > 0 {
		return &op.Parameters[0]
	}
	return nil
}

// substitutePath replaces every {name} token in the operation's path
// template. Tokens without a resolved value substitute the literal string
// "undefined" unless strict mode turns that into an error.
func substitutePath(op *ir.Operation, pathParams map[string]string, opts ResolveOptions) (string, error) {
	path := op.Path
	if !strings.Contains(path, "{") {
		return path, nil
	}

	for _, match := range pathTokenPattern.FindAllStringSubmatch(op.Path, -1) {
		token, name := match[0], match[1]
		value, ok := pathParams[name]
		if !ok {
			if opts.StrictPathParams {
				return "", &oaserrors.ParameterError{
					Operation: op.OperationID,
					Parameter: name,
					Message:   "path parameter not supplied",
					Cause:     oaserrors.ErrMissingPathParameter,
				}
			}
			value = "undefined"
		}
		path = strings.ReplaceAll(path, token, PathEscape(value))
	}

	return path, nil
}

// encodeQueryString serializes the query bucket in routing order and joins
// all fragments with "&".
func encodeQueryString(op *ir.Operation, query map[string]interface{}, order []string) string {
	if len(query) == 0 {
		return ""
	}
	var fragments []string
	for _, name := range order {
		value, ok := query[name]
		if !ok {
			continue
		}
		param := op.ParameterIn(name, ir.ParameterInQuery)
		fragments = append(fragments, SerializeQueryParameter(param, name, value)...)
	}
	return strings.Join(fragments, "&")
}
