package executor

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/specx2/oasclient/core/ir"
)

const (
	styleForm           = "form"
	styleSpaceDelimited = "spaceDelimited"
	stylePipeDelimited  = "pipeDelimited"
	styleDeepObject     = "deepObject"
)

// SerializeQueryParameter serializes one query value into ready-to-join
// "key=value" fragments following the parameter's declared style and explode
// flags. Style defaults to form and explode to true; the disallowed
// combinations (spaceDelimited or pipeDelimited with explode, deepObject
// without) fall back to the form behavior. A nil value, an empty array, and
// an empty object all produce no fragments. param may be nil for undeclared
// names, which serialize as form/explode.
func SerializeQueryParameter(param *ir.Parameter, name string, value interface{}) []string {
	if value == nil {
		return nil
	}

	style := styleForm
	explode := true
	allowReserved := false
	if param != nil {
		if param.Style != "" {
			style = param.Style
		}
		if param.Explode != nil {
			explode = *param.Explode
		}
		allowReserved = param.AllowReserved
	}

	switch style {
	case styleSpaceDelimited, stylePipeDelimited:
		if explode {
			style = styleForm
		}
	case styleDeepObject:
		if !explode {
			style = styleForm
		}
	case styleForm:
	default:
		style = styleForm
	}

	switch style {
	case styleSpaceDelimited:
		return serializeDelimited(name, value, "%20", allowReserved)
	case stylePipeDelimited:
		return serializeDelimited(name, value, "%7C", allowReserved)
	case styleDeepObject:
		return serializeDeepObject(name, value, allowReserved)
	default:
		return serializeForm(name, value, explode, allowReserved)
	}
}

func serializeForm(name string, value interface{}, explode, allowReserved bool) []string {
	if arr, ok := valueAsSlice(value); ok {
		if len(arr) == 0 {
			return nil
		}
		if explode {
			fragments := make([]string, len(arr))
			for i, item := range arr {
				fragments[i] = queryEscape(name) + "=" + valueEscape(formatScalar(item), allowReserved)
			}
			return fragments
		}
		atoms := make([]string, len(arr))
		for i, item := range arr {
			atoms[i] = valueEscape(formatScalar(item), allowReserved)
		}
		return []string{queryEscape(name) + "=" + strings.Join(atoms, ",")}
	}

	if obj, ok := valueAsMap(value); ok {
		if len(obj) == 0 {
			return nil
		}
		keys := sortedKeys(obj)
		if explode {
			fragments := make([]string, 0, len(keys))
			for _, key := range keys {
				fragments = append(fragments, queryEscape(key)+"="+valueEscape(formatScalar(obj[key]), allowReserved))
			}
			return fragments
		}
		atoms := make([]string, 0, len(keys)*2)
		for _, key := range keys {
			atoms = append(atoms, queryEscape(key), valueEscape(formatScalar(obj[key]), allowReserved))
		}
		return []string{queryEscape(name) + "=" + strings.Join(atoms, ",")}
	}

	return []string{queryEscape(name) + "=" + valueEscape(formatScalar(value), allowReserved)}
}

// serializeDelimited joins array items with a pre-encoded delimiter, so the
// separator survives exactly as %20 or %7C in the final query string.
func serializeDelimited(name string, value interface{}, delimiter string, allowReserved bool) []string {
	arr, ok := valueAsSlice(value)
	if !ok {
		return serializeForm(name, value, false, allowReserved)
	}
	if len(arr) == 0 {
		return nil
	}
	atoms := make([]string, len(arr))
	for i, item := range arr {
		atoms[i] = valueEscape(formatScalar(item), allowReserved)
	}
	return []string{queryEscape(name) + "=" + strings.Join(atoms, delimiter)}
}

// serializeDeepObject emits one fragment per key in bracket notation, with
// the brackets themselves left literal.
func serializeDeepObject(name string, value interface{}, allowReserved bool) []string {
	obj, ok := valueAsMap(value)
	if !ok {
		return serializeForm(name, value, true, allowReserved)
	}
	if len(obj) == 0 {
		return nil
	}
	keys := sortedKeys(obj)
	fragments := make([]string, 0, len(keys))
	for _, key := range keys {
		fragments = append(fragments, queryEscape(name)+"["+queryEscape(key)+"]="+valueEscape(formatScalar(obj[key]), allowReserved))
	}
	return fragments
}

// queryEscape percent-encodes a query atom, using %20 for spaces rather
// than the form-encoding plus sign.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func valueEscape(s string, allowReserved bool) string {
	if allowReserved {
		return s
	}
	return queryEscape(s)
}

// PathEscape percent-encodes a substituted path segment value.
func PathEscape(value interface{}) string {
	return url.PathEscape(formatScalar(value))
}

func valueAsSlice(value interface{}) ([]interface{}, bool) {
	switch v := value.(type) {
	case []interface{}:
		return v, true
	case []string:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result, true
	case []int:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result, true
	case []float64:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = item
		}
		return result, true
	default:
		return nil, false
	}
}

func valueAsMap(value interface{}) (map[string]interface{}, bool) {
	switch v := value.(type) {
	case map[string]interface{}:
		return v, true
	case map[string]string:
		result := make(map[string]interface{}, len(v))
		for key, val := range v {
			result[key] = val
		}
		return result, true
	default:
		return nil, false
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// simpleValue renders a value for header and cookie transport: arrays join
// their items with commas, objects alternate sorted keys and values, and
// scalars stringify directly.
func simpleValue(value interface{}) string {
	if arr, ok := valueAsSlice(value); ok {
		return strings.Join(stringifySlice(arr), ",")
	}
	if obj, ok := valueAsMap(value); ok {
		keys := sortedKeys(obj)
		parts := make([]string, 0, len(keys)*2)
		for _, key := range keys {
			parts = append(parts, key, formatScalar(obj[key]))
		}
		return strings.Join(parts, ",")
	}
	return formatScalar(value)
}

func stringifySlice(values []interface{}) []string {
	result := make([]string, len(values))
	for i, item := range values {
		result[i] = formatScalar(item)
	}
	return result
}

func formatScalar(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case *bool:
		if v == nil {
			return ""
		}
		if *v {
			return "true"
		}
		return "false"
	case int:
		return strconv.FormatInt(int64(v), 10)
	case int8:
		return strconv.FormatInt(int64(v), 10)
	case int16:
		return strconv.FormatInt(int64(v), 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint8:
		return strconv.FormatUint(uint64(v), 10)
	case uint16:
		return strconv.FormatUint(uint64(v), 10)
	case uint32:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
