package ir

// RequestDescriptor is the transport-agnostic result of resolving one call:
// everything needed to perform the HTTP request. One is created per operation
// invocation and discarded after the call returns.
type RequestDescriptor struct {
	Method      string
	URL         string
	Path        string
	PathParams  map[string]string
	Query       map[string]interface{}
	QueryOrder  []string
	QueryString string
	Headers     map[string]string
	Cookies     map[string]string
	Payload     interface{}
}

// RequestOverride is the optional per-call config merged into a descriptor
// last, after defaults and resolved parameters. Params and Headers merge
// key-by-key with the override winning per key; every other field replaces
// the computed value wholesale when set.
type RequestOverride struct {
	BaseURL     string
	Method      string
	ContentType string
	Params      map[string]interface{}
	Headers     map[string]string
	Cookies     map[string]string
	Payload     interface{}
}

// RequestBodyInfo describes the declared request body of an operation: the
// media types it accepts in declaration order and any per-field encodings.
type RequestBodyInfo struct {
	Required       bool
	Description    string
	ContentSchemas map[string]Schema
	ContentOrder   []string
	Encodings      map[string]map[string]EncodingInfo
}

// EncodingInfo carries the serialization rules for one field of a form or
// multipart request body.
type EncodingInfo struct {
	ContentType   string
	Style         string
	Explode       *bool
	AllowReserved bool
}
