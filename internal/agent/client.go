package agent

import (
	"context"
	"net/url"

	"github.com/hoistlabs/bricksmith/internal/azure"
	bshttp "github.com/hoistlabs/bricksmith/internal/http"
)

const (
	assistantsPath = "assistants"
	apiVersion     = "v1"
	pageSize       = "100"
)

type (
	// Client calls the AI Foundry project's agents API.
	Client struct {
		api *bshttp.Client
	}

	page struct {
		Data    []Agent `json:"data"`
		HasMore bool    `json:"has_more"`
		LastID  string  `json:"last_id"`
	}
)

func NewClient(projectEndpoint string, creds azure.Credentials) (*Client, error) {
	api, err := bshttp.NewClient(bshttp.Config{
		BaseURL:     projectEndpoint,
		TokenSource: creds.Source(azure.AIScope),
	})
	if err != nil {
		return nil, err
	}
	return &Client{api: api}, nil
}

// List returns every agent in the project, following pagination
// transparently.
func (c *Client) List(ctx context.Context) ([]Agent, error) {
	var (
		all   []Agent
		after string
	)
	for {
		q := url.Values{}
		q.Set("api-version", apiVersion)
		q.Set("limit", pageSize)
		if after != "" {
			q.Set("after", after)
		}
		req, err := c.api.NewRequest("GET", assistantsPath+"?"+q.Encode(), nil)
		if err != nil {
			return nil, err
		}
		var p page
		if err := c.api.Do(ctx, req, &p); err != nil {
			return nil, err
		}
		all = append(all, p.Data...)
		if !p.HasMore {
			return all, nil
		}
		after = p.LastID
	}
}

func (c *Client) Create(ctx context.Context, def Definition) (*Agent, error) {
	req, err := c.api.NewRequest("POST", assistantsPath+"?api-version="+apiVersion, &def)
	if err != nil {
		return nil, err
	}
	var created Agent
	if err := c.api.Do(ctx, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update overwrites the agent's full field set with def.
func (c *Client) Update(ctx context.Context, agentID string, def Definition) (*Agent, error) {
	req, err := c.api.NewRequest("POST", assistantsPath+"/"+agentID+"?api-version="+apiVersion, &def)
	if err != nil {
		return nil, err
	}
	var updated Agent
	if err := c.api.Do(ctx, req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
