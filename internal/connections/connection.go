// Package connections provisions keyed-credential connection resources on
// the Azure management plane.
package connections

import (
	"context"
	"fmt"
	"strings"

	"github.com/hoistlabs/bricksmith/internal"
	"github.com/hoistlabs/bricksmith/internal/azure"
	"github.com/hoistlabs/bricksmith/internal/databricks"
	bshttp "github.com/hoistlabs/bricksmith/internal/http"
)

const (
	// APIVersion is the management API version connections are written at.
	APIVersion = "2025-04-01-preview"

	// DefaultManagementURL is the public-cloud management plane.
	DefaultManagementURL = "https://management.azure.com"
)

type (
	// Parent identifies the AI Foundry project that owns a connection.
	Parent struct {
		SubscriptionID string
		ResourceGroup  string
		Account        string
		Project        string
	}

	// Client writes connection resources to the management plane.
	Client struct {
		api *bshttp.Client
	}

	connection struct {
		Properties properties `json:"properties"`
	}

	properties struct {
		Category      string            `json:"category"`
		AuthType      string            `json:"authType"`
		IsSharedToAll bool              `json:"isSharedToAll"`
		Target        string            `json:"target"`
		Metadata      map[string]string `json:"metadata"`
		Credentials   credentialKeys    `json:"credentials"`
	}

	credentialKeys struct {
		Keys map[string]string `json:"keys"`
	}
)

// ConnectionID builds the connection's resource ID. The ID is derived
// entirely from the caller's inputs; the management plane plays no part in
// naming.
func (p Parent) ConnectionID(name string) string {
	return fmt.Sprintf(
		"/subscriptions/%s/resourceGroups/%s/providers/Microsoft.CognitiveServices/accounts/%s/projects/%s/connections/%s",
		p.SubscriptionID, p.ResourceGroup, p.Account, p.Project, name,
	)
}

func NewClient(managementURL string, creds azure.Credentials) (*Client, error) {
	if managementURL == "" {
		managementURL = DefaultManagementURL
	}
	api, err := bshttp.NewClient(bshttp.Config{
		BaseURL:     managementURL,
		TokenSource: creds.Source(azure.ManagementScope),
	})
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// Put creates or overwrites the named connection, embedding the credential
// as an Authorization header value. The PUT is idempotent: prior state is
// never read, and the first write creates where subsequent writes update.
// Returns the connection ID.
func (c *Client) Put(ctx context.Context, parent Parent, name string, cred *databricks.Credential) (string, error) {
	connectionID := parent.ConnectionID(name)
	path := fmt.Sprintf("%s?api-version=%s", strings.TrimPrefix(connectionID, "/"), APIVersion)

	body := connection{
		Properties: properties{
			Category:      "CustomKeys",
			AuthType:      "CustomKeys",
			IsSharedToAll: false,
			Target:        "https://placeholder.example.com",
			Metadata: map[string]string{
				"ApiType":    "Databricks",
				"ResourceId": "databricks-api",
			},
			Credentials: credentialKeys{
				Keys: map[string]string{
					"Authorization": "Bearer " + cred.Token,
				},
			},
		},
	}

	req, err := c.api.NewRequest("PUT", path, &body)
	if err != nil {
		return "", err
	}
	if err := c.api.Do(ctx, req, nil); err != nil {
		return "", fmt.Errorf("%w: %w", internal.ErrConnectionProvisioning, err)
	}
	return connectionID, nil
}
