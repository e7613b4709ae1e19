package provision

import (
	"context"

	"github.com/hoistlabs/bricksmith/internal"
	"github.com/hoistlabs/bricksmith/internal/agent"
	"github.com/hoistlabs/bricksmith/internal/connections"
	"github.com/hoistlabs/bricksmith/internal/databricks"
)

type fakeReconciler struct {
	existing *agent.Agent

	def   *agent.Definition
	calls int
}

func (f *fakeReconciler) Reconcile(ctx context.Context, def agent.Definition) (*agent.Reconciliation, error) {
	f.def = &def
	f.calls++
	if f.existing != nil && f.existing.Name == def.Name {
		return &agent.Reconciliation{
			Agent: &agent.Agent{ID: f.existing.ID, Name: def.Name},
			Op:    agent.OpUpdated,
		}, nil
	}
	return &agent.Reconciliation{
		Agent: &agent.Agent{ID: "asst_created", Name: def.Name},
		Op:    agent.OpCreated,
	}, nil
}

type fakeConnector struct {
	cred  *databricks.Credential
	calls int
}

func (f *fakeConnector) Put(ctx context.Context, parent connections.Parent, name string, cred *databricks.Credential) (string, error) {
	f.cred = cred
	f.calls++
	return parent.ConnectionID(name), nil
}

type fakePATCreator struct {
	cred  *databricks.Credential
	err   error
	calls int
}

func (f *fakePATCreator) GeneratePAT(ctx context.Context, comment string, lifetimeDays int) (*databricks.Credential, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.cred != nil {
		return f.cred, nil
	}
	return &databricks.Credential{
		Token:        "dapi-generated",
		Source:       databricks.SourceGenerated,
		LifetimeDays: internal.Ptr(lifetimeDays),
		TokenID:      "tok-1",
	}, nil
}

type fakeRunner struct {
	spec   Spec
	auth   Auth
	result *Result
	err    error
}

func (f *fakeRunner) Run(ctx context.Context, spec Spec, auth Auth) (*Result, error) {
	f.spec = spec
	f.auth = auth
	return f.result, f.err
}
