package agent

import (
	"context"
	"fmt"

	"github.com/hoistlabs/bricksmith/internal"
	"github.com/hoistlabs/bricksmith/internal/logr"
)

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
)

type (
	// Service reconciles agents by name: the platform enforces no uniqueness
	// constraint, so the name is treated as a natural key via linear scan.
	Service struct {
		logr.Logger

		agents client
	}

	client interface {
		List(ctx context.Context) ([]Agent, error)
		Create(ctx context.Context, def Definition) (*Agent, error)
		Update(ctx context.Context, agentID string, def Definition) (*Agent, error)
	}

	// Op records whether a reconciliation reused an existing agent or made a
	// new one.
	Op string

	Reconciliation struct {
		Agent *Agent
		Op    Op
	}
)

func NewService(logger logr.Logger, agents client) *Service {
	return &Service{Logger: logger, agents: agents}
}

// Reconcile looks up the agent named in def and overwrites it in place, or
// creates it if absent. Either way the returned agent carries a stable
// platform-assigned ID. Any platform error is fatal and wrapped in
// ErrAgentProvisioning; nothing is retried or rolled back.
func (s *Service) Reconcile(ctx context.Context, def Definition) (*Reconciliation, error) {
	existing, err := s.agents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing agents: %w", internal.ErrAgentProvisioning, err)
	}
	for _, candidate := range existing {
		if candidate.Name != def.Name {
			continue
		}
		s.Info("updating existing agent", "name", def.Name, "agent_id", candidate.ID)
		updated, err := s.agents.Update(ctx, candidate.ID, def)
		if err != nil {
			return nil, fmt.Errorf("%w: updating agent %s: %w", internal.ErrAgentProvisioning, candidate.ID, err)
		}
		return &Reconciliation{Agent: updated, Op: OpUpdated}, nil
	}
	s.Info("creating new agent", "name", def.Name)
	created, err := s.agents.Create(ctx, def)
	if err != nil {
		return nil, fmt.Errorf("%w: creating agent: %w", internal.ErrAgentProvisioning, err)
	}
	return &Reconciliation{Agent: created, Op: OpCreated}, nil
}
