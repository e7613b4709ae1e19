package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrSpecNotFound is returned when the OpenAPI document is absent from
	// disk.
	ErrSpecNotFound = errors.New("openapi spec not found")

	// ErrEmptyToken is returned when a caller-supplied access token is empty
	// after stripping whitespace.
	ErrEmptyToken = errors.New("provided token is empty")

	// ErrCredential is returned when the identity provider refuses to issue a
	// token.
	ErrCredential = errors.New("failed to obtain credential")

	// ErrTokenCreation is returned when the Databricks token endpoint rejects
	// a request to mint a personal access token.
	ErrTokenCreation = errors.New("failed to create databricks token")

	// ErrMalformedResponse is returned when a remote API responds with a
	// success code but the response lacks an expected field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrConnectionProvisioning is returned when the management plane rejects
	// a connection write.
	ErrConnectionProvisioning = errors.New("failed to provision connection")

	// ErrAgentProvisioning is returned when the agent platform rejects a
	// list, create or update call.
	ErrAgentProvisioning = errors.New("failed to provision agent")
)

// HTTPError carries a non-2xx response from a remote API.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d - %s", e.Status, e.Body)
}
