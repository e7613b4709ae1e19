// Package azure obtains Entra ID tokens for the Azure APIs bricksmith calls.
package azure

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hoistlabs/bricksmith/internal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	// DatabricksAppID is the application ID of the Azure Databricks
	// first-party service principal; tokens for calling a workspace are
	// scoped to it, and it doubles as the managed-identity audience.
	DatabricksAppID = "2ff814a6-3304-4ab8-85cb-cd0e6f879c1d"

	// DatabricksScope requests a token for calling a Databricks workspace.
	DatabricksScope = DatabricksAppID + "/.default"

	// ManagementScope requests a token for the Azure management plane.
	ManagementScope = "https://management.azure.com/.default"

	// AIScope requests a token for the AI Foundry data plane.
	AIScope = "https://ai.azure.com/.default"

	// DefaultAuthorityHost is the public-cloud Entra ID endpoint.
	DefaultAuthorityHost = "https://login.microsoftonline.com"
)

// Credentials issues bearer tokens scoped to an Azure resource.
type Credentials interface {
	Source(scope string) oauth2.TokenSource
}

// Token fetches one token for the given scope. Failure is wrapped in
// ErrCredential.
func Token(ctx context.Context, creds Credentials, scope string) (*oauth2.Token, error) {
	token, err := creds.Source(scope).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrCredential, err)
	}
	return token, nil
}

// ClientCredentials authenticates with the OAuth2 client credentials grant,
// maintaining one cached token source per scope.
type ClientCredentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
	// AuthorityHost overrides the Entra ID endpoint, for testing.
	AuthorityHost string

	mu      sync.Mutex
	sources map[string]oauth2.TokenSource
}

// NewClientCredentialsFromEnv reads the standard AZURE_TENANT_ID,
// AZURE_CLIENT_ID and AZURE_CLIENT_SECRET variables.
func NewClientCredentialsFromEnv() (*ClientCredentials, error) {
	creds := ClientCredentials{
		TenantID:     os.Getenv("AZURE_TENANT_ID"),
		ClientID:     os.Getenv("AZURE_CLIENT_ID"),
		ClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
	for name, value := range map[string]string{
		"AZURE_TENANT_ID":     creds.TenantID,
		"AZURE_CLIENT_ID":     creds.ClientID,
		"AZURE_CLIENT_SECRET": creds.ClientSecret,
	} {
		if value == "" {
			return nil, fmt.Errorf("%w: %s not set", internal.ErrCredential, name)
		}
	}
	return &creds, nil
}

func (c *ClientCredentials) Source(scope string) oauth2.TokenSource {
	c.mu.Lock()
	defer c.mu.Unlock()

	if source, ok := c.sources[scope]; ok {
		return source
	}
	host := c.AuthorityHost
	if host == "" {
		host = DefaultAuthorityHost
	}
	cfg := clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", host, c.TenantID),
		Scopes:       []string{scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	source := cfg.TokenSource(context.Background())
	if c.sources == nil {
		c.sources = make(map[string]oauth2.TokenSource)
	}
	c.sources[scope] = source
	return source
}

// StaticCredentials issues the same token for every scope. For tests.
type StaticCredentials string

func (s StaticCredentials) Source(string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: string(s)})
}
