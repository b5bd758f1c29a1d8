package ir

// Parameter describes how a single logical value must be serialized into the
// wire representation of a request.
type Parameter struct {
	Name            string
	In              string
	Required        bool
	Schema          Schema
	Description     string
	Explode         *bool
	Style           string
	AllowReserved   bool
	Deprecated      bool
	AllowEmptyValue bool
	Example         interface{}
	Extensions      map[string]interface{}
}

const (
	ParameterInPath   = "path"
	ParameterInQuery  = "query"
	ParameterInHeader = "header"
	ParameterInCookie = "cookie"
)
