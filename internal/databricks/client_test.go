package databricks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hoistlabs/bricksmith/internal"
	"github.com/hoistlabs/bricksmith/internal/azure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestWorkspace stands in for the Databricks token endpoint.
func newTestWorkspace(t *testing.T, handler http.HandlerFunc) *Client {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/2.0/token/create", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, azure.StaticCredentials("aad-token"))
	require.NoError(t, err)
	return client
}

func TestClient_GeneratePAT(t *testing.T) {
	client := newTestWorkspace(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer aad-token", r.Header.Get("Authorization"))

		var opts CreateTokenOptions
		require.NoError(t, json.NewDecoder(r.Body).Decode(&opts))
		assert.Equal(t, "AI Foundry Agent", opts.Comment)
		assert.Equal(t, int64(90*24*60*60), opts.LifetimeSeconds)

		json.NewEncoder(w).Encode(map[string]any{
			"token_value": "dapi-new",
			"token_info":  map[string]any{"token_id": "tok-1"},
		})
	})

	cred, err := client.GeneratePAT(context.Background(), "AI Foundry Agent", 90)
	require.NoError(t, err)
	assert.Equal(t, "dapi-new", cred.Token)
	assert.Equal(t, "tok-1", cred.TokenID)
	assert.Equal(t, SourceGenerated, cred.Source)
	require.NotNil(t, cred.LifetimeDays)
	assert.Equal(t, 90, *cred.LifetimeDays)
}

func TestClient_CreateToken_Rejected(t *testing.T) {
	client := newTestWorkspace(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error_code": "PERMISSION_DENIED"}`, http.StatusForbidden)
	})

	_, err := client.CreateToken(context.Background(), CreateTokenOptions{})
	assert.ErrorIs(t, err, internal.ErrTokenCreation)

	var httpErr *internal.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
	assert.Contains(t, httpErr.Body, "PERMISSION_DENIED")
}

func TestClient_CreateToken_MalformedResponse(t *testing.T) {
	client := newTestWorkspace(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"token_info": map[string]any{}})
	})

	_, err := client.CreateToken(context.Background(), CreateTokenOptions{})
	assert.ErrorIs(t, err, internal.ErrMalformedResponse)
}
