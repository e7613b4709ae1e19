package provision

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/hoistlabs/bricksmith/internal"
	"github.com/hoistlabs/bricksmith/internal/agent"
	"github.com/hoistlabs/bricksmith/internal/azure"
	"github.com/hoistlabs/bricksmith/internal/connections"
	"github.com/hoistlabs/bricksmith/internal/databricks"
	"github.com/hoistlabs/bricksmith/internal/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSpec = Spec{
		ProjectEndpoint: "https://acct.services.ai.azure.com/api/projects/proj",
		ModelDeployment: "gpt-4o",
		WorkspaceURL:    "https://adb-1234567890123456.7.azuredatabricks.net",
		AgentName:       DefaultAgentName,
		SpecFile:        filepath.Join("testdata", "spec.json"),
	}

	testParent = connections.Parent{
		SubscriptionID: "sub-1",
		ResourceGroup:  "rg-1",
		Account:        "acct-1",
		Project:        "proj-1",
	}
)

func newTestWorkflow(agents *fakeReconciler, conns *fakeConnector, pats *fakePATCreator) *Workflow {
	return &Workflow{
		Logger:      logr.Discard(),
		Credentials: azure.StaticCredentials("aad-token"),
		agents:      agents,
		connections: conns,
		pats:        pats,
	}
}

func TestWorkflow_ManagedIdentity(t *testing.T) {
	agents := &fakeReconciler{}
	wf := newTestWorkflow(agents, nil, nil)

	result, err := wf.Run(context.Background(), testSpec, ManagedIdentity{})
	require.NoError(t, err)

	assert.Equal(t, AuthManagedIdentity, result.AuthType)
	assert.Equal(t, "asst_created", result.AgentID)
	assert.Equal(t, testSpec.WorkspaceURL, result.WorkspaceURL)
	require.NotNil(t, result.ManagedIdentityResult)
	assert.Equal(t, azure.DatabricksAppID, result.ManagedIdentityResult.Audience)
	assert.Nil(t, result.ConnectionResult)

	// the tool carries the customized spec and the managed-identity binding
	require.NotNil(t, agents.def)
	require.Len(t, agents.def.Tools, 1)
	tool := agents.def.Tools[0]
	assert.Equal(t, "openapi", tool.Type)
	servers := tool.OpenAPI.Spec["servers"].([]any)
	assert.Equal(t, testSpec.WorkspaceURL, servers[0].(map[string]any)["url"])
	assert.Equal(t, managedIdentityInstructions, agents.def.Instructions)
}

func TestWorkflow_ManagedIdentity_Idempotent(t *testing.T) {
	agents := &fakeReconciler{
		existing: &agent.Agent{ID: "asst_existing", Name: DefaultAgentName},
	}
	wf := newTestWorkflow(agents, nil, nil)

	first, err := wf.Run(context.Background(), testSpec, ManagedIdentity{})
	require.NoError(t, err)
	second, err := wf.Run(context.Background(), testSpec, ManagedIdentity{})
	require.NoError(t, err)

	assert.Equal(t, "asst_existing", first.AgentID)
	assert.Equal(t, first.AgentID, second.AgentID)
}

func TestWorkflow_PAT_Provided(t *testing.T) {
	agents := &fakeReconciler{}
	conns := &fakeConnector{}
	pats := &fakePATCreator{}
	wf := newTestWorkflow(agents, conns, pats)

	result, err := wf.Run(context.Background(), testSpec, PersonalAccessToken{
		Token:          "abc123",
		Parent:         testParent,
		ConnectionName: "databricks-pat-connection",
	})
	require.NoError(t, err)

	assert.Equal(t, AuthPersonalAccessToken, result.AuthType)
	require.NotNil(t, result.ConnectionResult)
	assert.Equal(t, databricks.SourceProvided, result.ConnectionResult.PATSource)
	assert.Nil(t, result.ConnectionResult.PATLifetimeDays)
	assert.Equal(t, testParent.ConnectionID("databricks-pat-connection"), result.ConnectionResult.ConnectionID)
	assert.Nil(t, result.ManagedIdentityResult)

	// no token minted; the provided token went into the connection
	assert.Zero(t, pats.calls)
	require.NotNil(t, conns.cred)
	assert.Equal(t, "abc123", conns.cred.Token)

	// the tool references the connection and the spec carries bearer auth
	tool := agents.def.Tools[0]
	schemes := tool.OpenAPI.Spec["components"].(map[string]any)["securitySchemes"].(map[string]any)
	assert.Contains(t, schemes, "bearerAuth")
	assert.Equal(t, patInstructions, agents.def.Instructions)
}

func TestWorkflow_PAT_Generated(t *testing.T) {
	agents := &fakeReconciler{}
	conns := &fakeConnector{}
	pats := &fakePATCreator{}
	wf := newTestWorkflow(agents, conns, pats)

	result, err := wf.Run(context.Background(), testSpec, PersonalAccessToken{
		LifetimeDays:   90,
		Comment:        "AI Foundry Agent",
		Parent:         testParent,
		ConnectionName: "databricks-pat-connection",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, pats.calls)
	assert.Equal(t, databricks.SourceGenerated, result.ConnectionResult.PATSource)
	require.NotNil(t, result.ConnectionResult.PATLifetimeDays)
	assert.Equal(t, 90, *result.ConnectionResult.PATLifetimeDays)
	assert.Equal(t, "dapi-generated", conns.cred.Token)
}

func TestWorkflow_PAT_EmptyProvidedToken(t *testing.T) {
	conns := &fakeConnector{}
	pats := &fakePATCreator{}
	wf := newTestWorkflow(&fakeReconciler{}, conns, pats)

	_, err := wf.Run(context.Background(), testSpec, PersonalAccessToken{
		Token:          "   ",
		Parent:         testParent,
		ConnectionName: "databricks-pat-connection",
	})
	assert.ErrorIs(t, err, internal.ErrEmptyToken)
	assert.Zero(t, pats.calls)
	assert.Zero(t, conns.calls)
}

func TestWorkflow_PAT_TokenCreationFailed(t *testing.T) {
	agents := &fakeReconciler{}
	conns := &fakeConnector{}
	pats := &fakePATCreator{
		err: fmt.Errorf("%w: %w", internal.ErrTokenCreation, &internal.HTTPError{Status: 403, Body: "denied"}),
	}
	wf := newTestWorkflow(agents, conns, pats)

	_, err := wf.Run(context.Background(), testSpec, PersonalAccessToken{
		Parent:         testParent,
		ConnectionName: "databricks-pat-connection",
	})
	assert.ErrorIs(t, err, internal.ErrTokenCreation)

	var httpErr *internal.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 403, httpErr.Status)

	// nothing downstream was attempted
	assert.Zero(t, conns.calls)
	assert.Zero(t, agents.calls)
}

func TestWorkflow_SpecFileMissing(t *testing.T) {
	wf := newTestWorkflow(&fakeReconciler{}, nil, nil)

	spec := testSpec
	spec.SpecFile = filepath.Join("testdata", "does-not-exist.json")
	_, err := wf.Run(context.Background(), spec, ManagedIdentity{})
	assert.ErrorIs(t, err, internal.ErrSpecNotFound)
}
