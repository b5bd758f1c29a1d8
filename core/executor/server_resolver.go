package executor

import (
	"regexp"
	"strings"

	"github.com/specx2/oasclient/core/ir"
	"github.com/specx2/oasclient/oaserrors"
)

var serverVariablePattern = regexp.MustCompile(`\{([^{}]+)\}`)

// ServerSelector picks the default server from a document's server list: by
// zero-based index, by description match, or as a literal server passed
// through directly. The zero value selects the first server.
type ServerSelector struct {
	index       *int
	description string
	server      *ir.Server
}

// SelectServerByIndex selects the document server at the given position.
// Out-of-range indexes resolve to no server rather than failing.
func SelectServerByIndex(index int) ServerSelector {
	return ServerSelector{index: &index}
}

// SelectServerByDescription selects the first document server whose
// description matches exactly.
func SelectServerByDescription(description string) ServerSelector {
	return ServerSelector{description: description}
}

// SelectServer bypasses the document list entirely and uses the given
// server.
func SelectServer(server ir.Server) ServerSelector {
	return ServerSelector{server: &server}
}

// ResolveBaseURL resolves the base URL for a request. An operation that
// declares its own servers wins outright, first entry taken verbatim with
// no variable substitution. Otherwise the selector picks a document server
// and its URL template is expanded. An empty string with a nil error means
// no server resolved; callers may still proceed with an absolute URL from
// an override.
func ResolveBaseURL(doc *ir.Document, selector ServerSelector, overrides map[string]interface{}, op *ir.Operation) (string, error) {
	if op != nil && len(op.Servers) > 0 {
		return op.Servers[0].URL, nil
	}

	server, ok := pickServer(doc, selector)
	if !ok {
		return "", nil
	}

	return ExpandServerURL(server, overrides)
}

func pickServer(doc *ir.Document, selector ServerSelector) (ir.Server, bool) {
	if selector.server != nil {
		return *selector.server, true
	}
	if doc == nil {
		return ir.Server{}, false
	}
	if selector.description != "" {
		for _, server := range doc.Servers {
			if server.Description == selector.description {
				return server, true
			}
		}
		return ir.Server{}, false
	}

	index := 0
	if selector.index != nil {
		index = *selector.index
	}
	if index < 0 || index >= len(doc.Servers) {
		return ir.Server{}, false
	}
	return doc.Servers[index], true
}

// ExpandServerURL substitutes every {variable} token in a server URL
// template. A numeric override indexes into the variable's enum, a string
// override must be an enum member when an enum is declared, and an absent
// override falls back to the variable's default. Tokens without a declared
// variable and without an override stay literal.
func ExpandServerURL(server ir.Server, overrides map[string]interface{}) (string, error) {
	if !strings.Contains(server.URL, "{") {
		return server.URL, nil
	}

	result := server.URL
	for _, match := range serverVariablePattern.FindAllStringSubmatch(server.URL, -1) {
		token, name := match[0], match[1]
		variable, declared := server.Variables[name]
		override, overridden := overrides[name]

		var value string
		switch {
		case overridden:
			resolved, err := resolveVariableOverride(name, variable, override)
			if err != nil {
				return "", err
			}
			value = resolved
		case declared:
			value = variable.Default
		default:
			continue
		}

		result = strings.ReplaceAll(result, token, value)
	}

	return result, nil
}

func resolveVariableOverride(name string, variable ir.ServerVariable, override interface{}) (string, error) {
	if index, numeric := overrideAsIndex(override); numeric {
		if index < 0 || index >= len(variable.Enum) {
			return "", &oaserrors.ConfigError{
				Option:  "serverVariables." + name,
				Value:   override,
				Message: "enum index out of range",
				Cause:   oaserrors.ErrIndexOutOfRange,
			}
		}
		return variable.Enum[index], nil
	}

	value := formatScalar(override)
	if len(variable.Enum) > 0 && !containsString(variable.Enum, value) {
		return "", &oaserrors.ConfigError{
			Option:  "serverVariables." + name,
			Value:   override,
			Message: "value not in enum",
			Cause:   oaserrors.ErrInvalidEnumValue,
		}
	}
	return value, nil
}

// overrideAsIndex reports whether the override is numeric. Non-integral
// floats count as numeric with an impossible index, so they fail the bounds
// check instead of being mistaken for enum strings.
func overrideAsIndex(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float32:
		if float32(int(v)) == v {
			return int(v), true
		}
		return -1, true
	case float64:
		if float64(int(v)) == v {
			return int(v), true
		}
		return -1, true
	default:
		return 0, false
	}
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
