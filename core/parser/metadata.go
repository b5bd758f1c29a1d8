package parser

import (
	"github.com/pb33f/libopenapi/orderedmap"
	yaml "go.yaml.in/yaml/v4"
)

func extractExampleValue(node *yaml.Node) interface{} {
	if node == nil {
		return nil
	}
	var value interface{}
	if err := node.Decode(&value); err != nil {
		// fall back to the raw scalar to avoid dropping information
		if node.Kind == yaml.ScalarNode {
			return node.Value
		}
		return nil
	}
	return value
}

func convertExtensionsMap(exts *orderedmap.Map[string, *yaml.Node]) map[string]interface{} {
	if exts == nil || exts.Len() == 0 {
		return nil
	}
	result := make(map[string]interface{}, exts.Len())
	for key, node := range exts.FromOldest() {
		if node == nil {
			continue
		}
		var value interface{}
		if err := node.Decode(&value); err != nil {
			if node.Kind == yaml.ScalarNode {
				result[key] = node.Value
			}
			continue
		}
		result[key] = value
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
