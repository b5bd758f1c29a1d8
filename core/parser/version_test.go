package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/specx2/oasclient/core/parser"
	"github.com/specx2/oasclient/oaserrors"
)

func TestDetectVersion(t *testing.T) {
	cases := []struct {
		name string
		spec string
		want string
	}{
		{"json", `{"openapi": "3.1.0", "info": {}}`, "3.1.0"},
		{"yaml", "openapi: 3.0.3\ninfo:\n  title: t\n", "3.0.3"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parser.DetectVersion([]byte(tc.spec))
			if err != nil {
				t.Fatalf("DetectVersion failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestDetectVersionRejectsSwagger(t *testing.T) {
	_, err := parser.DetectVersion([]byte(`{"swagger": "2.0"}`))
	if !errors.Is(err, oaserrors.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
	if !strings.Contains(err.Error(), "swagger") {
		t.Fatalf("expected the error to name swagger, got %v", err)
	}
}

func TestDetectVersionFailures(t *testing.T) {
	if _, err := parser.DetectVersion([]byte("{")); !errors.Is(err, oaserrors.ErrParse) {
		t.Fatalf("expected ErrParse for malformed input, got %v", err)
	}
	if _, err := parser.DetectVersion([]byte("{}")); !errors.Is(err, oaserrors.ErrParse) {
		t.Fatalf("expected ErrParse for missing version, got %v", err)
	}
}

func TestSupportsVersion(t *testing.T) {
	if !parser.SupportsVersion("3.0.3") || !parser.SupportsVersion("3.1.0") {
		t.Fatalf("3.x versions must be supported")
	}
	if parser.SupportsVersion("2.0") {
		t.Fatalf("2.0 must not be supported")
	}
}
