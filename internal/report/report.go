// Package report defines the external sinks a finished ScanContext is
// handed to: the report dispatcher (alert transport) and the two indexer
// write modes (spec §4.6, §9 "Out of scope... only their interfaces
// matter").
package report

import (
	"context"

	"github.com/hostvuln/scanorch"
)

// Dispatcher hands an alert's JSON envelope to the downstream report queue
// as an opaque blob. Implementations live outside this module.
type Dispatcher interface {
	Dispatch(ctx context.Context, agentID string, alert *scanorch.Alert) error
}

// Indexer bulk-writes individual detection elements one at a time
// (ResultIndexer, spec §4.6).
type Indexer interface {
	Index(ctx context.Context, agentID string, element *scanorch.Element) error
}

// ArrayIndexer batches every element of one ScanContext into a single
// write (ArrayResultIndexer, used by hotfix-insert flows, spec §4.6).
type ArrayIndexer interface {
	IndexAll(ctx context.Context, agentID string, elements []*scanorch.Element) error
}

// GlobalAgentList lists every agent id currently known to the fleet, used
// by GlobalInventorySync and the all-agents rescan/cleanup stages.
type GlobalAgentList interface {
	Agents(ctx context.Context) ([]scanorch.Agent, error)
}
