package stage

import (
	"context"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/report"
)

// BuildAllAgentListContext populates sc.AgentList from the global agent
// listing service, for ReScanAllAgents (spec §4.1).
type BuildAllAgentListContext struct {
	base
	Agents report.GlobalAgentList
}

func (s *BuildAllAgentListContext) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	agents, err := s.Agents.Agents(ctx)
	if err != nil {
		return Terminal, err
	}
	sc.AgentList = agents
	if len(sc.AgentList) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// BuildSingleAgentListContext populates sc.AgentList with just the event's
// own agent, for ReScanSingleAgent (spec §4.1).
type BuildSingleAgentListContext struct{ base }

func (s *BuildSingleAgentListContext) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	sc.AgentList = []scanorch.Agent{sc.Agent}
	return Continue, nil
}

// RescanFunc re-submits one agent's current inventory as fresh
// PackageInsert/Os events, re-entering the orchestrator for each. Supplied
// by the orchestrator wiring to avoid an import cycle between stage and
// orchestrator.
type RescanFunc func(ctx context.Context, agent scanorch.Agent) error

// ScanAgentList invokes Rescan once per agent in sc.AgentList, honoring
// StopPredicate between agents so a large-fleet sweep stays responsive
// (spec §5 "Cancellation").
type ScanAgentList struct {
	base
	Rescan        RescanFunc
	StopPredicate func() bool
}

func (s *ScanAgentList) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	for _, agent := range sc.AgentList {
		if s.StopPredicate != nil && s.StopPredicate() {
			break
		}
		if err := s.Rescan(ctx, agent); err != nil {
			return Terminal, err
		}
	}
	return Terminal, nil
}
