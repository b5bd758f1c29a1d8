package executor

// ParamEntry is one explicit parameter binding. In is optional; when empty,
// the operation's declaration decides where the value goes, and undeclared
// names default to the query.
type ParamEntry struct {
	Name  string
	In    string
	Value interface{}
}

type paramsKind int

const (
	paramsNone paramsKind = iota
	paramsScalar
	paramsMap
	paramsList
)

// Params carries the parameters of a single call in one of three shapes: a
// bare scalar bound to the operation's primary parameter, a name to value
// map, or an ordered list of explicit entries. The zero value means no
// parameters.
type Params struct {
	kind    paramsKind
	scalar  interface{}
	mapped  map[string]interface{}
	entries []ParamEntry
}

// ScalarParams binds one bare value to the operation's first required
// parameter, or to its first declared parameter when none are required.
func ScalarParams(value interface{}) Params {
	return Params{kind: paramsScalar, scalar: value}
}

// MapParams binds values by parameter name. Nil values are skipped.
func MapParams(values map[string]interface{}) Params {
	return Params{kind: paramsMap, mapped: values}
}

// ListParams binds explicit entries in order, honoring each entry's In.
func ListParams(entries ...ParamEntry) Params {
	return Params{kind: paramsList, entries: entries}
}

// IsZero reports whether no parameters were supplied.
func (p Params) IsZero() bool {
	return p.kind == paramsNone
}
