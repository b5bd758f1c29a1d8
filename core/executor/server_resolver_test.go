package executor_test

import (
	"errors"
	"testing"

	"github.com/specx2/oasclient/core/executor"
	"github.com/specx2/oasclient/core/ir"
	"github.com/specx2/oasclient/oaserrors"
)

func templatedDocument() *ir.Document {
	return &ir.Document{
		Servers: []ir.Server{
			{
				URL:         "http://{foo1}.localhost:9090/{foo2}/{foo3}/",
				Description: "templated",
				Variables: map[string]ir.ServerVariable{
					"foo1": {Default: "bar1"},
					"foo2": {Default: "bar2a", Enum: []string{"bar2a", "bar2b"}},
					"foo3": {Default: "bar3a", Enum: []string{"bar3a", "bar3b"}},
				},
			},
			{URL: "https://example.com/v2", Description: "plain"},
		},
	}
}

func TestResolveBaseURLExpandsTemplate(t *testing.T) {
	doc := templatedDocument()

	base, err := executor.ResolveBaseURL(doc, executor.ServerSelector{}, map[string]interface{}{
		"foo2": "bar2a",
		"foo3": 1,
	}, nil)
	if err != nil {
		t.Fatalf("ResolveBaseURL failed: %v", err)
	}
	if base != "http://bar1.localhost:9090/bar2a/bar3b/" {
		t.Fatalf("unexpected base URL %q", base)
	}
}

func TestResolveBaseURLSelectors(t *testing.T) {
	doc := templatedDocument()

	base, err := executor.ResolveBaseURL(doc, executor.SelectServerByIndex(1), nil, nil)
	if err != nil {
		t.Fatalf("index selection failed: %v", err)
	}
	if base != "https://example.com/v2" {
		t.Fatalf("expected second server, got %q", base)
	}

	base, err = executor.ResolveBaseURL(doc, executor.SelectServerByIndex(9), nil, nil)
	if err != nil || base != "" {
		t.Fatalf("out-of-range index should resolve to nothing, got %q err %v", base, err)
	}

	base, err = executor.ResolveBaseURL(doc, executor.SelectServerByDescription("plain"), nil, nil)
	if err != nil {
		t.Fatalf("description selection failed: %v", err)
	}
	if base != "https://example.com/v2" {
		t.Fatalf("expected description match, got %q", base)
	}

	base, err = executor.ResolveBaseURL(doc, executor.SelectServerByDescription("missing"), nil, nil)
	if err != nil || base != "" {
		t.Fatalf("unmatched description should resolve to nothing, got %q err %v", base, err)
	}

	base, err = executor.ResolveBaseURL(doc, executor.SelectServer(ir.Server{URL: "http://direct.test"}), nil, nil)
	if err != nil {
		t.Fatalf("literal selection failed: %v", err)
	}
	if base != "http://direct.test" {
		t.Fatalf("expected literal server, got %q", base)
	}

	base, err = executor.ResolveBaseURL(nil, executor.ServerSelector{}, nil, nil)
	if err != nil || base != "" {
		t.Fatalf("nil document should resolve to nothing, got %q err %v", base, err)
	}
}

func TestResolveBaseURLOperationServersWinVerbatim(t *testing.T) {
	doc := templatedDocument()
	op := &ir.Operation{
		Servers: []ir.Server{
			{
				URL:       "http://{region}.op.test",
				Variables: map[string]ir.ServerVariable{"region": {Default: "eu"}},
			},
		},
	}

	base, err := executor.ResolveBaseURL(doc, executor.ServerSelector{}, map[string]interface{}{"region": "us"}, op)
	if err != nil {
		t.Fatalf("ResolveBaseURL failed: %v", err)
	}
	if base != "http://{region}.op.test" {
		t.Fatalf("operation server must pass through unexpanded, got %q", base)
	}
}

func TestExpandServerURLOverrides(t *testing.T) {
	server := templatedDocument().Servers[0]

	url, err := executor.ExpandServerURL(server, map[string]interface{}{"foo2": "bar2b"})
	if err != nil {
		t.Fatalf("ExpandServerURL failed: %v", err)
	}
	if url != "http://bar1.localhost:9090/bar2b/bar3a/" {
		t.Fatalf("unexpected expansion %q", url)
	}

	_, err = executor.ExpandServerURL(server, map[string]interface{}{"foo2": "nope"})
	if !errors.Is(err, oaserrors.ErrInvalidEnumValue) {
		t.Fatalf("expected ErrInvalidEnumValue, got %v", err)
	}

	_, err = executor.ExpandServerURL(server, map[string]interface{}{"foo3": 5})
	if !errors.Is(err, oaserrors.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}

	_, err = executor.ExpandServerURL(server, map[string]interface{}{"foo3": 1.5})
	if !errors.Is(err, oaserrors.ErrIndexOutOfRange) {
		t.Fatalf("expected non-integral index to fail, got %v", err)
	}
}

func TestExpandServerURLUnconstrainedVariable(t *testing.T) {
	server := ir.Server{
		URL: "http://{host}/api",
		Variables: map[string]ir.ServerVariable{
			"host": {Default: "localhost"},
		},
	}

	url, err := executor.ExpandServerURL(server, map[string]interface{}{"host": "anything.test"})
	if err != nil {
		t.Fatalf("ExpandServerURL failed: %v", err)
	}
	if url != "http://anything.test/api" {
		t.Fatalf("expected enum-free override accepted, got %q", url)
	}
}

func TestExpandServerURLUndeclaredToken(t *testing.T) {
	server := ir.Server{URL: "http://{host}/api"}

	url, err := executor.ExpandServerURL(server, nil)
	if err != nil {
		t.Fatalf("ExpandServerURL failed: %v", err)
	}
	if url != "http://{host}/api" {
		t.Fatalf("undeclared token without override must stay literal, got %q", url)
	}

	url, err = executor.ExpandServerURL(server, map[string]interface{}{"host": "given.test"})
	if err != nil {
		t.Fatalf("ExpandServerURL failed: %v", err)
	}
	if url != "http://given.test/api" {
		t.Fatalf("override must substitute undeclared tokens, got %q", url)
	}
}
