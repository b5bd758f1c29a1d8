package ir

// Server is one entry of a document, path item, or operation server list.
// The URL may contain {variable} placeholders resolved against Variables.
type Server struct {
	URL         string
	Description string
	Variables   map[string]ServerVariable
	Extensions  map[string]interface{}
}

// ServerVariable constrains the values a URL template variable may take.
// An empty Enum leaves the variable unconstrained.
type ServerVariable struct {
	Default     string
	Enum        []string
	Description string
}
