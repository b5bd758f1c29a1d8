// Package parser loads OpenAPI v3 documents and flattens them into the
// operation catalog consumed by the client. Parsing, reference resolution,
// and YAML/JSON handling are delegated to libopenapi; this package only
// converts the high-level model into ir values.
package parser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"

	"github.com/specx2/oasclient/core/ir"
	"github.com/specx2/oasclient/oaserrors"
)

// Result is a successfully loaded document: the flattened catalog plus the
// version string declared by the document itself.
type Result struct {
	Document *ir.Document
	Version  string
}

// Doer is the subset of an HTTP client needed to fetch remote documents.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Load parses spec bytes (JSON or YAML) and flattens them into a catalog.
// sourceURL may be empty; when set it anchors relative $ref resolution the
// same way a file path or remote URL would.
func Load(spec []byte, sourceURL string) (*Result, error) {
	document, err := newDocument(spec, sourceURL)
	if err != nil {
		return nil, &oaserrors.ParseError{Source: sourceURL, Message: "failed to create document", Cause: err}
	}

	model, err := document.BuildV3Model()
	if err != nil {
		return nil, &oaserrors.ParseError{Source: sourceURL, Message: "failed to build v3 model", Cause: err}
	}

	flattened, err := flatten(&model.Model)
	if err != nil {
		return nil, err
	}

	return &Result{Document: flattened, Version: model.Model.Version}, nil
}

// LoadFile reads and loads a document from disk, anchoring relative file
// references at the document's directory.
func LoadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &oaserrors.ParseError{Source: path, Message: "failed to read spec file", Cause: err}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Load(data, filepath.ToSlash(abs))
}

// LoadURL fetches and loads a document over HTTP, anchoring remote references
// at the document URL. A nil client falls back to http.DefaultClient.
func LoadURL(ctx context.Context, specURL string, client Doer) (*Result, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, specURL, nil)
	if err != nil {
		return nil, &oaserrors.ParseError{Source: specURL, Message: "invalid spec URL", Cause: err}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &oaserrors.ParseError{Source: specURL, Message: "failed to fetch spec", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &oaserrors.ParseError{
			Source:  specURL,
			Message: fmt.Sprintf("unexpected status %s fetching spec", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &oaserrors.ParseError{Source: specURL, Message: "failed to read spec body", Cause: err}
	}

	return Load(data, specURL)
}

func newDocument(spec []byte, specURL string) (libopenapi.Document, error) {
	if specURL == "" {
		return libopenapi.NewDocument(spec)
	}

	cfg := datamodel.NewDocumentConfiguration()

	u, err := url.Parse(specURL)
	if err != nil {
		return libopenapi.NewDocument(spec)
	}

	switch u.Scheme {
	case "", "file":
		cfg.BasePath = filepath.Dir(u.Path)
		cfg.SpecFilePath = filepath.Base(u.Path)
		cfg.AllowFileReferences = true
	case "http", "https":
		cfg.BaseURL = u
		cfg.AllowRemoteReferences = true
	default:
		return libopenapi.NewDocument(spec)
	}

	return libopenapi.NewDocumentWithConfiguration(spec, cfg)
}
