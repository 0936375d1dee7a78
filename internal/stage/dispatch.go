package stage

import (
	"context"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/report"
)

// EventSendReport hands each alert to the downstream report dispatcher as
// an opaque blob (spec §4.6).
type EventSendReport struct {
	base
	Dispatcher report.Dispatcher
}

func (s *EventSendReport) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	for _, alert := range sc.Alerts {
		if err := s.Dispatcher.Dispatch(ctx, sc.Agent.ID, alert); err != nil {
			return Terminal, err
		}
	}
	return Continue, nil
}

// ClearSendReport is the IntegrityClear terminal stage: it dispatches the
// clear alert and ends the chain without visiting an indexer, since a
// wiped agent has nothing left to index.
type ClearSendReport struct {
	base
	Dispatcher report.Dispatcher
}

func (s *ClearSendReport) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	for _, alert := range sc.Alerts {
		if err := s.Dispatcher.Dispatch(ctx, sc.Agent.ID, alert); err != nil {
			return Terminal, err
		}
	}
	return Terminal, nil
}

// ResultIndexer writes each element of sc.Elements individually (spec
// §4.6).
type ResultIndexer struct {
	base
	Indexer report.Indexer
}

func (s *ResultIndexer) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	for _, el := range sc.Elements {
		if err := s.Indexer.Index(ctx, sc.Agent.ID, el); err != nil {
			return Terminal, err
		}
	}
	return Terminal, nil
}

// ArrayResultIndexer batches every element of sc.Elements into a single
// bulk write, used by hotfix-insert flows (spec §4.6).
type ArrayResultIndexer struct {
	base
	Indexer report.ArrayIndexer
}

func (s *ArrayResultIndexer) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	elements := make([]*scanorch.Element, 0, len(sc.Elements))
	for _, el := range sc.Elements {
		elements = append(elements, el)
	}
	if len(elements) == 0 {
		return Terminal, nil
	}
	if err := s.Indexer.IndexAll(ctx, sc.Agent.ID, elements); err != nil {
		return Terminal, err
	}
	return Terminal, nil
}
