package databricks

import (
	"context"
	"fmt"
	"time"

	"github.com/hoistlabs/bricksmith/internal"
	"github.com/hoistlabs/bricksmith/internal/azure"
	bshttp "github.com/hoistlabs/bricksmith/internal/http"
)

const (
	createTokenPath = "api/2.0/token/create"

	// secondsPerDay converts the PAT lifetime flag to the wire unit.
	secondsPerDay = 24 * 60 * 60

	defaultTimeout = 30 * time.Second
)

type (
	// Client calls a Databricks workspace's REST API, authenticating with an
	// Entra ID token scoped to the Databricks service principal.
	Client struct {
		api *bshttp.Client
	}

	CreateTokenOptions struct {
		Comment         string `json:"comment"`
		LifetimeSeconds int64  `json:"lifetime_seconds"`
	}

	// Token is a personal access token minted by the workspace.
	Token struct {
		Value string
		ID    string
	}

	createTokenResponse struct {
		TokenValue string `json:"token_value"`
		TokenInfo  struct {
			TokenID string `json:"token_id"`
		} `json:"token_info"`
	}
)

func NewClient(workspaceURL string, creds azure.Credentials) (*Client, error) {
	api, err := bshttp.NewClient(bshttp.Config{
		BaseURL:     workspaceURL,
		TokenSource: creds.Source(azure.DatabricksScope),
		Timeout:     defaultTimeout,
	})
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// CreateToken mints a personal access token. A non-2xx response is wrapped
// in ErrTokenCreation; a success response lacking the token value is wrapped
// in ErrMalformedResponse.
func (c *Client) CreateToken(ctx context.Context, opts CreateTokenOptions) (*Token, error) {
	req, err := c.api.NewRequest("POST", createTokenPath, &opts)
	if err != nil {
		return nil, err
	}
	var resp createTokenResponse
	if err := c.api.Do(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", internal.ErrTokenCreation, err)
	}
	if resp.TokenValue == "" {
		return nil, fmt.Errorf("%w: token_value missing from %s response", internal.ErrMalformedResponse, createTokenPath)
	}
	return &Token{Value: resp.TokenValue, ID: resp.TokenInfo.TokenID}, nil
}

// GeneratePAT mints a personal access token and wraps it as a credential.
// The lifetime is converted to seconds on the wire; the platform's 730-day
// maximum is left to the workspace to enforce.
func (c *Client) GeneratePAT(ctx context.Context, comment string, lifetimeDays int) (*Credential, error) {
	token, err := c.CreateToken(ctx, CreateTokenOptions{
		Comment:         comment,
		LifetimeSeconds: int64(lifetimeDays) * secondsPerDay,
	})
	if err != nil {
		return nil, err
	}
	return &Credential{
		Token:        token.Value,
		Source:       SourceGenerated,
		LifetimeDays: internal.Ptr(lifetimeDays),
		TokenID:      token.ID,
	}, nil
}
