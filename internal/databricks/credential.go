// Package databricks acquires credentials for calling a Databricks
// workspace, either caller-supplied or minted via the workspace token API.
package databricks

import (
	"strings"

	"github.com/hoistlabs/bricksmith/internal"
)

const (
	SourceGenerated Source = "generated"
	SourceProvided  Source = "provided"
)

type (
	// Source records how a credential was obtained.
	Source string

	// Credential is an opaque bearer token for a Databricks workspace. The
	// token is held in memory only for the duration of a run and must never
	// be logged.
	Credential struct {
		Token  string
		Source Source
		// LifetimeDays is set only for generated credentials.
		LifetimeDays *int
		// TokenID identifies a generated credential on the workspace.
		TokenID string
	}
)

// ProvidedCredential wraps a caller-supplied token, stripped of surrounding
// whitespace. A token that is empty after stripping is rejected with
// ErrEmptyToken. No network call is made.
func ProvidedCredential(raw string) (*Credential, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return nil, internal.ErrEmptyToken
	}
	return &Credential{Token: token, Source: SourceProvided}, nil
}
