package mcpbridge

import (
	"regexp"
	"strings"

	"github.com/specx2/oasclient/core/ir"
)

// Rule matches catalog operations by HTTP method, path pattern, and
// document tags. Rules are evaluated in order and the first match decides
// whether an operation is served or excluded.
type Rule struct {
	Methods     []string
	PathPattern *regexp.Regexp
	Tags        []string
	ExtraTags   []string
	Exclude     bool
}

// NewRule matches every operation. Narrow it with the With methods.
func NewRule() *Rule {
	return &Rule{
		Methods:     []string{"*"},
		PathPattern: regexp.MustCompile(".*"),
	}
}

// WithMethods restricts the rule to the given HTTP methods. "*" matches
// all.
func (r *Rule) WithMethods(methods ...string) *Rule {
	r.Methods = methods
	return r
}

// WithPathPattern restricts the rule to paths matching the regular
// expression.
func (r *Rule) WithPathPattern(pattern string) *Rule {
	r.PathPattern = regexp.MustCompile(pattern)
	return r
}

// WithTags restricts the rule to operations carrying every given tag.
func (r *Rule) WithTags(tags ...string) *Rule {
	r.Tags = tags
	return r
}

// WithExtraTags adds tags to the served tool's metadata when this rule
// matches.
func (r *Rule) WithExtraTags(tags ...string) *Rule {
	r.ExtraTags = tags
	return r
}

// AsExclude turns the rule into an exclusion.
func (r *Rule) AsExclude() *Rule {
	r.Exclude = true
	return r
}

func (r *Rule) matches(op *ir.Operation) bool {
	if !r.matchesMethod(op.Method) {
		return false
	}
	if r.PathPattern != nil && !r.PathPattern.MatchString(op.Path) {
		return false
	}
	if len(r.Tags) > 0 && !containsAllTags(op.Tags, r.Tags) {
		return false
	}
	return true
}

func (r *Rule) matchesMethod(method string) bool {
	for _, allowed := range r.Methods {
		if allowed == "*" || strings.EqualFold(allowed, method) {
			return true
		}
	}
	return false
}

func containsAllTags(opTags, required []string) bool {
	tagSet := make(map[string]bool, len(opTags))
	for _, tag := range opTags {
		tagSet[tag] = true
	}
	for _, tag := range required {
		if !tagSet[tag] {
			return false
		}
	}
	return true
}

// Filter decides which catalog operations become MCP tools. Without rules
// every operation is served.
type Filter struct {
	rules      []*Rule
	globalTags []string
}

// NewFilter builds a filter over the given rules, evaluated in order.
func NewFilter(rules ...*Rule) *Filter {
	return &Filter{rules: rules}
}

// WithGlobalTags adds tags to every served tool's metadata.
func (f *Filter) WithGlobalTags(tags ...string) *Filter {
	f.globalTags = uniqueStrings(tags)
	return f
}

// Decide reports whether the operation should be served and the combined
// tag set for its tool metadata. Operations matching no rule are served.
func (f *Filter) Decide(op *ir.Operation) (bool, []string) {
	if f == nil {
		return true, uniqueStrings(op.Tags)
	}

	for _, rule := range f.rules {
		if rule == nil || !rule.matches(op) {
			continue
		}
		if rule.Exclude {
			return false, nil
		}
		return true, f.combineTags(op, rule)
	}

	return true, f.combineTags(op, nil)
}

func (f *Filter) combineTags(op *ir.Operation, rule *Rule) []string {
	var combined []string
	combined = append(combined, op.Tags...)
	if rule != nil {
		combined = append(combined, rule.ExtraTags...)
	}
	combined = append(combined, f.globalTags...)
	return uniqueStrings(combined)
}

func uniqueStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
