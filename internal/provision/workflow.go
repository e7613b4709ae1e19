// Package provision orchestrates the end-to-end provisioning run: acquire a
// credential, provision a connection where one is needed, customize the
// OpenAPI document, bind the tool and reconcile the agent.
package provision

import (
	"context"
	"fmt"

	"github.com/hoistlabs/bricksmith/internal/agent"
	"github.com/hoistlabs/bricksmith/internal/azure"
	"github.com/hoistlabs/bricksmith/internal/connections"
	"github.com/hoistlabs/bricksmith/internal/databricks"
	"github.com/hoistlabs/bricksmith/internal/logr"
	"github.com/hoistlabs/bricksmith/internal/openapi"
)

// DefaultAgentName names the agent when the caller does not.
const DefaultAgentName = "DatabricksVectorSearchAgent"

const (
	managedIdentityDescription = "AI Agent with access to Azure Databricks APIs via Managed Identity"
	patDescription             = "AI Agent with access to Azure Databricks APIs via Personal Access Token"

	managedIdentityInstructions = `You are an AI assistant with access to Azure Databricks APIs.

You can help with:
- Managing Databricks clusters (list, create, start, stop, delete)
- Running and monitoring Databricks jobs
- Managing workspace notebooks and files
- Executing commands on clusters
- Vector search operations (creating endpoints and indexes, querying vectors)

When using the Databricks API:
1. Always check cluster status before executing commands
2. Use appropriate error handling
3. For vector search, understand the difference between Delta Sync and Direct Access indexes
4. Remember that authentication is handled automatically via managed identity

Be helpful and provide clear explanations of what you're doing.`

	patInstructions = "You are a helpful AI assistant with access to Azure Databricks. " +
		"You can help users interact with Databricks resources including " +
		"clusters, jobs, workspaces and vector search endpoints. " +
		"When users ask about Databricks resources, use the " +
		"databricks_api tool to retrieve information."
)

type (
	// Spec is the desired end-state shared by both auth modes.
	Spec struct {
		ProjectEndpoint string
		ModelDeployment string
		WorkspaceURL    string
		AgentName       string
		SpecFile        string
	}

	// Auth selects the auth mode. It is a closed union: exactly one of
	// ManagedIdentity or PersonalAccessToken per run.
	Auth interface {
		isAuth()
	}

	// ManagedIdentity wires the tool to the platform's managed identity; no
	// secret is persisted anywhere.
	ManagedIdentity struct{}

	// PersonalAccessToken mints (or accepts) a workspace PAT and persists it
	// in a connection resource the tool references.
	PersonalAccessToken struct {
		// Token is an operator-supplied PAT. Empty means mint a new one.
		Token          string
		LifetimeDays   int
		Comment        string
		Parent         connections.Parent
		ConnectionName string
	}

	// Workflow runs the provisioning sequence. Each remote call is
	// synchronous and a single attempt; the first failure aborts the run,
	// leaving whatever was already provisioned in place.
	Workflow struct {
		Logger        logr.Logger
		Credentials   azure.Credentials
		ManagementURL string

		// client overrides, for tests; nil means construct the real client
		agents      reconciler
		connections connector
		pats        patCreator
	}

	reconciler interface {
		Reconcile(ctx context.Context, def agent.Definition) (*agent.Reconciliation, error)
	}

	connector interface {
		Put(ctx context.Context, parent connections.Parent, name string, cred *databricks.Credential) (string, error)
	}

	patCreator interface {
		GeneratePAT(ctx context.Context, comment string, lifetimeDays int) (*databricks.Credential, error)
	}
)

func (ManagedIdentity) isAuth()     {}
func (PersonalAccessToken) isAuth() {}

// Run provisions the agent described by spec under the given auth mode and
// returns a description of everything created, updated or reused.
func (w *Workflow) Run(ctx context.Context, spec Spec, auth Auth) (*Result, error) {
	if w.Credentials == nil {
		creds, err := azure.NewClientCredentialsFromEnv()
		if err != nil {
			return nil, err
		}
		w.Credentials = creds
	}
	switch auth := auth.(type) {
	case ManagedIdentity:
		return w.runManagedIdentity(ctx, spec)
	case PersonalAccessToken:
		return w.runPAT(ctx, spec, auth)
	default:
		return nil, fmt.Errorf("unhandled auth mode: %T", auth)
	}
}

func (w *Workflow) runManagedIdentity(ctx context.Context, spec Spec) (*Result, error) {
	// Prove the caller can obtain a workspace credential before touching any
	// resource. The token itself is discarded; the agent authenticates with
	// the platform's identity, not ours.
	if _, err := azure.Token(ctx, w.Credentials, azure.DatabricksScope); err != nil {
		return nil, err
	}
	w.Logger.V(1).Info("verified workspace credential", "audience", azure.DatabricksAppID)

	doc, err := w.loadSpec(spec, false)
	if err != nil {
		return nil, err
	}
	tool := agent.NewOpenAPITool(doc, agent.ManagedIdentity{Audience: azure.DatabricksAppID})

	reconciled, err := w.reconcile(ctx, spec, tool, managedIdentityDescription, managedIdentityInstructions)
	if err != nil {
		return nil, err
	}

	return &Result{
		ProjectEndpoint: spec.ProjectEndpoint,
		ModelDeployment: spec.ModelDeployment,
		AgentID:         reconciled.ID,
		AgentName:       reconciled.Name,
		WorkspaceURL:    spec.WorkspaceURL,
		AuthType:        AuthManagedIdentity,
		ManagedIdentityResult: &ManagedIdentityResult{
			Audience: azure.DatabricksAppID,
		},
	}, nil
}

func (w *Workflow) runPAT(ctx context.Context, spec Spec, auth PersonalAccessToken) (*Result, error) {
	var (
		cred *databricks.Credential
		err  error
	)
	if auth.Token != "" {
		w.Logger.Info("using provided databricks token")
		cred, err = databricks.ProvidedCredential(auth.Token)
		if err != nil {
			return nil, err
		}
	} else {
		w.Logger.Info("creating databricks token", "lifetime_days", auth.LifetimeDays)
		pats, err := w.patClient(spec.WorkspaceURL)
		if err != nil {
			return nil, err
		}
		cred, err = pats.GeneratePAT(ctx, auth.Comment, auth.LifetimeDays)
		if err != nil {
			return nil, err
		}
		w.Logger.Info("created databricks token", "token_id", cred.TokenID, "lifetime_days", auth.LifetimeDays)
	}

	conns, err := w.connectionClient()
	if err != nil {
		return nil, err
	}
	connectionID, err := conns.Put(ctx, auth.Parent, auth.ConnectionName, cred)
	if err != nil {
		return nil, err
	}
	w.Logger.Info("connection provisioned", "connection_name", auth.ConnectionName, "connection_id", connectionID)

	doc, err := w.loadSpec(spec, true)
	if err != nil {
		return nil, err
	}
	tool := agent.NewOpenAPITool(doc, agent.ConnectionReference{ConnectionID: connectionID})

	reconciled, err := w.reconcile(ctx, spec, tool, patDescription, patInstructions)
	if err != nil {
		return nil, err
	}

	return &Result{
		ProjectEndpoint: spec.ProjectEndpoint,
		ModelDeployment: spec.ModelDeployment,
		AgentID:         reconciled.ID,
		AgentName:       reconciled.Name,
		WorkspaceURL:    spec.WorkspaceURL,
		AuthType:        AuthPersonalAccessToken,
		ConnectionResult: &ConnectionResult{
			ConnectionName:  auth.ConnectionName,
			ConnectionID:    connectionID,
			PATLifetimeDays: cred.LifetimeDays,
			PATSource:       cred.Source,
		},
	}, nil
}

func (w *Workflow) loadSpec(spec Spec, bearerAuth bool) (openapi.Document, error) {
	doc, err := openapi.Load(spec.SpecFile)
	if err != nil {
		return nil, err
	}
	w.Logger.V(1).Info("loaded openapi document", "path", spec.SpecFile)
	return openapi.Customize(doc, openapi.CustomizeOptions{
		WorkspaceURL: spec.WorkspaceURL,
		BearerAuth:   bearerAuth,
	}), nil
}

func (w *Workflow) reconcile(ctx context.Context, spec Spec, tool agent.Tool, description, instructions string) (*agent.Agent, error) {
	agents, err := w.agentService(spec.ProjectEndpoint)
	if err != nil {
		return nil, err
	}
	reconciled, err := agents.Reconcile(ctx, agent.Definition{
		Name:         spec.AgentName,
		Description:  description,
		Model:        spec.ModelDeployment,
		Instructions: instructions,
		Tools:        []agent.Tool{tool},
	})
	if err != nil {
		return nil, err
	}
	w.Logger.Info("agent reconciled", "name", reconciled.Agent.Name, "agent_id", reconciled.Agent.ID, "op", reconciled.Op)
	return reconciled.Agent, nil
}

func (w *Workflow) agentService(projectEndpoint string) (reconciler, error) {
	if w.agents != nil {
		return w.agents, nil
	}
	client, err := agent.NewClient(projectEndpoint, w.Credentials)
	if err != nil {
		return nil, err
	}
	return agent.NewService(w.Logger, client), nil
}

func (w *Workflow) connectionClient() (connector, error) {
	if w.connections != nil {
		return w.connections, nil
	}
	return connections.NewClient(w.ManagementURL, w.Credentials)
}

func (w *Workflow) patClient(workspaceURL string) (patCreator, error) {
	if w.pats != nil {
		return w.pats, nil
	}
	return databricks.NewClient(workspaceURL, w.Credentials)
}
