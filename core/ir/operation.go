package ir

// Document is the flattened form of a parsed OpenAPI description: the server
// list, the top-level security requirements, and every path/method pair as an
// Operation in document order. It is built once per load and never mutated.
type Document struct {
	Title      string
	APIVersion string
	Servers    []Server
	Security   []SecurityRequirement
	Operations []*Operation
}

// Operation is one path/method pair of the document with its merged parameter
// list, merged server overrides, and effective security requirements.
// Operation-declared parameters precede path-item parameters so name-based
// lookups find them first; operation servers precede path-item servers for the
// same reason.
type Operation struct {
	Path        string
	Method      string
	OperationID string
	Summary     string
	Description string
	Tags        []string
	Deprecated  bool
	Parameters  []Parameter
	Servers     []Server
	Security    []SecurityRequirement
	RequestBody *RequestBodyInfo
	Responses   map[string]ResponseInfo
	Extensions  map[string]interface{}
}

// SecurityRequirement maps a security scheme name to its required scopes.
type SecurityRequirement map[string][]string

// Parameter returns the first declared parameter with the given name, or nil.
// Operation-level declarations shadow path-item declarations because they are
// stored first.
func (op *Operation) Parameter(name string) *Parameter {
	for i := range op.Parameters {
		if op.Parameters[i].Name == name {
			return &op.Parameters[i]
		}
	}
	return nil
}

// ParameterIn returns the first declared parameter with the given name and
// location, or nil.
func (op *Operation) ParameterIn(name, in string) *Parameter {
	for i := range op.Parameters {
		if op.Parameters[i].Name == name && op.Parameters[i].In == in {
			return &op.Parameters[i]
		}
	}
	return nil
}

// ResponseInfo summarizes one declared response of an operation. Responses are
// carried for tooling only; the client hands transport responses back verbatim.
type ResponseInfo struct {
	Description    string
	ContentSchemas map[string]Schema
}
