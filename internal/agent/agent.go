// Package agent reconciles AI Foundry agents with a desired definition and
// binds the Databricks OpenAPI tool to them.
package agent

import (
	"github.com/hoistlabs/bricksmith/internal/openapi"
)

const (
	// ToolName is the name under which the Databricks API surfaces as an
	// agent tool.
	ToolName = "databricks_api"

	ToolDescription = "Access to Azure Databricks REST API including clusters, jobs, workspace management, command execution, and vector search operations"
)

type (
	// Agent is an agent resource on the platform. The ID is assigned by the
	// platform at creation and is stable across updates; the name is the
	// natural key a reconciliation matches on.
	Agent struct {
		ID           string `json:"id"`
		Name         string `json:"name"`
		Description  string `json:"description"`
		Model        string `json:"model"`
		Instructions string `json:"instructions"`
		Tools        []Tool `json:"tools"`
	}

	// Definition is the desired state of an agent. An update overwrites the
	// full field set; there are no partial-update semantics.
	Definition struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		Model        string `json:"model"`
		Instructions string `json:"instructions"`
		Tools        []Tool `json:"tools"`
	}

	Tool struct {
		Type    string           `json:"type"`
		OpenAPI *OpenAPIFunction `json:"openapi,omitempty"`
	}

	// OpenAPIFunction is an agent capability backed by a REST API
	// description, invoked by the platform on the agent's behalf.
	OpenAPIFunction struct {
		Name        string           `json:"name"`
		Description string           `json:"description"`
		Spec        openapi.Document `json:"spec"`
		Auth        authDetails      `json:"auth"`
	}

	// AuthBinding determines how the platform authenticates the tool's calls
	// to the target API. It is a closed union: exactly one of
	// ManagedIdentity or ConnectionReference.
	AuthBinding interface {
		details() authDetails
	}

	// ManagedIdentity authenticates with a platform-assigned identity; no
	// secret is stored anywhere.
	ManagedIdentity struct {
		Audience string
	}

	// ConnectionReference authenticates with the credential held by a
	// connection resource.
	ConnectionReference struct {
		ConnectionID string
	}

	authDetails struct {
		Type           string         `json:"type"`
		SecurityScheme securityScheme `json:"security_scheme"`
	}

	securityScheme struct {
		Audience     string `json:"audience,omitempty"`
		ConnectionID string `json:"connection_id,omitempty"`
	}
)

func (m ManagedIdentity) details() authDetails {
	return authDetails{
		Type:           "managed_identity",
		SecurityScheme: securityScheme{Audience: m.Audience},
	}
}

func (c ConnectionReference) details() authDetails {
	return authDetails{
		Type:           "connection",
		SecurityScheme: securityScheme{ConnectionID: c.ConnectionID},
	}
}

// NewOpenAPITool assembles the Databricks tool definition from a customized
// API description and an auth binding. Pure assembly: a malformed spec
// surfaces only when the platform rejects the definition.
func NewOpenAPITool(spec openapi.Document, binding AuthBinding) Tool {
	return Tool{
		Type: "openapi",
		OpenAPI: &OpenAPIFunction{
			Name:        ToolName,
			Description: ToolDescription,
			Spec:        spec,
			Auth:        binding.details(),
		},
	}
}
