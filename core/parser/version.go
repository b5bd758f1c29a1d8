package parser

import (
	"encoding/json"
	"strings"

	sigyaml "sigs.k8s.io/yaml"

	"github.com/specx2/oasclient/oaserrors"
)

// DetectVersion reports the version declared by a raw JSON or YAML document,
// e.g. "3.0.3" or "3.1.0", without building the full model.
func DetectVersion(spec []byte) (string, error) {
	data := spec
	if !json.Valid(spec) {
		converted, err := sigyaml.YAMLToJSON(spec)
		if err != nil {
			return "", &oaserrors.ParseError{Message: "spec is neither valid JSON nor YAML", Cause: err}
		}
		data = converted
	}

	var probe struct {
		OpenAPI string `json:"openapi"`
		Swagger string `json:"swagger"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return "", &oaserrors.ParseError{Message: "failed to inspect spec version", Cause: err}
	}

	switch {
	case probe.OpenAPI != "":
		return probe.OpenAPI, nil
	case probe.Swagger != "":
		return "", &oaserrors.ParseError{Message: "swagger 2.0 documents are not supported"}
	default:
		return "", &oaserrors.ParseError{Message: "missing openapi version field"}
	}
}

// SupportsVersion reports whether the detected version is one this module
// can load.
func SupportsVersion(version string) bool {
	return strings.HasPrefix(version, "3.")
}
