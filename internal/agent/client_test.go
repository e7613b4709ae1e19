package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/hoistlabs/bricksmith/internal/azure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testProject stands in for an AI Foundry project's agents API, with paged
// listing.
type testProject struct {
	agents []Agent
}

func (p *testProject) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /assistants", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, apiVersion, r.URL.Query().Get("api-version"))
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		require.NoError(t, err)

		from := 0
		if after := r.URL.Query().Get("after"); after != "" {
			for i, a := range p.agents {
				if a.ID == after {
					from = i + 1
				}
			}
		}
		to := min(from+limit, len(p.agents))
		resp := page{Data: p.agents[from:to], HasMore: to < len(p.agents)}
		if len(resp.Data) > 0 {
			resp.LastID = resp.Data[len(resp.Data)-1].ID
		}
		json.NewEncoder(w).Encode(resp)
	})
	mux.HandleFunc("POST /assistants", func(w http.ResponseWriter, r *http.Request) {
		var def Definition
		require.NoError(t, json.NewDecoder(r.Body).Decode(&def))
		created := Agent{
			ID:           "asst_" + uuid.NewString(),
			Name:         def.Name,
			Description:  def.Description,
			Model:        def.Model,
			Instructions: def.Instructions,
			Tools:        def.Tools,
		}
		p.agents = append(p.agents, created)
		json.NewEncoder(w).Encode(created)
	})
	mux.HandleFunc("POST /assistants/{id}", func(w http.ResponseWriter, r *http.Request) {
		var def Definition
		require.NoError(t, json.NewDecoder(r.Body).Decode(&def))
		for i, a := range p.agents {
			if a.ID == r.PathValue("id") {
				p.agents[i] = Agent{
					ID:           a.ID,
					Name:         def.Name,
					Description:  def.Description,
					Model:        def.Model,
					Instructions: def.Instructions,
					Tools:        def.Tools,
				}
				json.NewEncoder(w).Encode(p.agents[i])
				return
			}
		}
		http.NotFound(w, r)
	})
	return mux
}

func newTestClient(t *testing.T, project *testProject) *Client {
	srv := httptest.NewServer(project.handler(t))
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, azure.StaticCredentials("ai-token"))
	require.NoError(t, err)
	return client
}

func TestClient_List_Paged(t *testing.T) {
	project := &testProject{}
	for i := range 250 {
		project.agents = append(project.agents, Agent{
			ID:   "asst_" + uuid.NewString(),
			Name: fmt.Sprintf("agent-%d", i),
		})
	}
	client := newTestClient(t, project)

	got, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, project.agents, got)
}

func TestClient_CreateUpdate(t *testing.T) {
	project := &testProject{}
	client := newTestClient(t, project)

	created, err := client.Create(context.Background(), Definition{
		Name:  "DatabricksVectorSearchAgent",
		Model: "gpt-4o",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	updated, err := client.Update(context.Background(), created.ID, Definition{
		Name:  "DatabricksVectorSearchAgent",
		Model: "gpt-4.1",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "gpt-4.1", updated.Model)
}
