package parser

import (
	"encoding/json"

	"github.com/pb33f/libopenapi/datamodel/high/base"

	"github.com/specx2/oasclient/core/ir"
)

// convertSchema renders a resolved schema proxy into the generic map form
// used across the module. Conversion goes through JSON so libopenapi model
// types never leak past the parser.
func convertSchema(proxy *base.SchemaProxy) ir.Schema {
	if proxy == nil {
		return nil
	}
	schema := proxy.Schema()
	if schema == nil {
		return nil
	}

	data, err := json.Marshal(schema)
	if err != nil {
		return nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	return ir.Schema(normalizeSchema(raw))
}

// normalizeSchema rewrites OpenAPI 3.0 idioms into JSON Schema equivalents,
// recursing through the structural keywords. 3.1 documents pass through
// unchanged apart from the copy.
func normalizeSchema(schema map[string]interface{}) map[string]interface{} {
	if schema == nil {
		return nil
	}

	result := make(map[string]interface{}, len(schema))
	for key, value := range schema {
		result[key] = value
	}

	if props, ok := result["properties"].(map[string]interface{}); ok {
		normalized := make(map[string]interface{}, len(props))
		for name, prop := range props {
			if propMap, ok := prop.(map[string]interface{}); ok {
				normalized[name] = normalizeSchema(propMap)
			} else {
				normalized[name] = prop
			}
		}
		result["properties"] = normalized
	}

	if items, ok := result["items"].(map[string]interface{}); ok {
		result["items"] = normalizeSchema(items)
	}

	if additional, ok := result["additionalProperties"].(map[string]interface{}); ok {
		result["additionalProperties"] = normalizeSchema(additional)
	}

	for _, keyword := range []string{"allOf", "anyOf", "oneOf"} {
		if list, ok := result[keyword].([]interface{}); ok {
			normalized := make([]interface{}, len(list))
			for i, item := range list {
				if itemMap, ok := item.(map[string]interface{}); ok {
					normalized[i] = normalizeSchema(itemMap)
				} else {
					normalized[i] = item
				}
			}
			result[keyword] = normalized
		}
	}

	if not, ok := result["not"].(map[string]interface{}); ok {
		result["not"] = normalizeSchema(not)
	}

	if nullable, ok := result["nullable"].(bool); ok {
		delete(result, "nullable")
		if nullable {
			result = map[string]interface{}{
				"anyOf": []interface{}{
					result,
					map[string]interface{}{"type": "null"},
				},
			}
		}
	}

	return result
}
