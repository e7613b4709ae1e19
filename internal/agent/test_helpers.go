package agent

import (
	"context"
)

type fakeClient struct {
	existing []Agent

	created *Definition
	updated *Definition
	err     error
}

func (f *fakeClient) List(ctx context.Context) ([]Agent, error) {
	return f.existing, f.err
}

func (f *fakeClient) Create(ctx context.Context, def Definition) (*Agent, error) {
	f.created = &def
	return &Agent{
		ID:           "asst_new",
		Name:         def.Name,
		Description:  def.Description,
		Model:        def.Model,
		Instructions: def.Instructions,
		Tools:        def.Tools,
	}, nil
}

func (f *fakeClient) Update(ctx context.Context, agentID string, def Definition) (*Agent, error) {
	f.updated = &def
	return &Agent{
		ID:           agentID,
		Name:         def.Name,
		Description:  def.Description,
		Model:        def.Model,
		Instructions: def.Instructions,
		Tools:        def.Tools,
	}, nil
}
