// Package openapi loads the Databricks API description and customizes it for
// a target workspace.
package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/hoistlabs/bricksmith/internal"
)

// DefaultFilename is the API description shipped alongside the binary.
const DefaultFilename = "azure_databricks_openapi_spec.json"

// Document is a decoded OpenAPI document. Only the two locations Customize
// rewrites are interpreted; everything else passes through untouched.
type Document map[string]any

type CustomizeOptions struct {
	// WorkspaceURL replaces the first server URL entry.
	WorkspaceURL string
	// BearerAuth replaces the document's security schemes with a single
	// bearer-header scheme, for workspaces called with a PAT rather than a
	// federated identity.
	BearerAuth bool
}

// DefaultPath locates the shipped document next to the executable.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultFilename
	}
	return filepath.Join(filepath.Dir(exe), DefaultFilename)
}

// Load reads and decodes the document at path.
func Load(path string) (Document, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", internal.ErrSpecNotFound, path)
	} else if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc Document
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding openapi document %s: %w", path, err)
	}
	return doc, nil
}

// Customize returns a copy of doc rewritten for the target workspace. The
// copy is deep enough that doc is never mutated through either rewrite
// point. Customizing an already-customized document with equal options
// yields a value-equal document.
//
// A document with zero server entries is passed through without the
// workspace URL; that is a pre-existing malformed-spec condition, not
// validated here.
func Customize(doc Document, opts CustomizeOptions) Document {
	out := Document(maps.Clone(doc))

	if servers, ok := out["servers"].([]any); ok && len(servers) > 0 {
		if first, ok := servers[0].(map[string]any); ok {
			servers = slices.Clone(servers)
			first = maps.Clone(first)
			first["url"] = opts.WorkspaceURL
			servers[0] = first
			out["servers"] = servers
		}
	}

	if opts.BearerAuth {
		if components, ok := out["components"].(map[string]any); ok {
			if _, ok := components["securitySchemes"]; ok {
				components = maps.Clone(components)
				components["securitySchemes"] = map[string]any{
					"bearerAuth": map[string]any{
						"type":        "apiKey",
						"name":        "Authorization",
						"in":          "header",
						"description": "Databricks PAT: Bearer <token>",
					},
				}
				out["components"] = components
			}
		}
		out["security"] = []any{map[string]any{"bearerAuth": []any{}}}
	}

	return out
}
