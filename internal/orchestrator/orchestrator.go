// Package orchestrator implements the FactoryOrchestrator (spec §4.7): a
// pure function from ScannerType to an executable stage chain, composed via
// the stage package's fluent SetNext pattern.
package orchestrator

import (
	"context"
	"time"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/cache"
	"github.com/hostvuln/scanorch/internal/feed"
	"github.com/hostvuln/scanorch/internal/inventory"
	"github.com/hostvuln/scanorch/internal/metrics"
	"github.com/hostvuln/scanorch/internal/report"
	"github.com/hostvuln/scanorch/internal/stage"
)

// Collaborators bundles every external dependency a stage chain may need.
// The factory owns no runtime state of its own; it only closes over these
// on each call (spec §4.7: "The factory owns no runtime state").
type Collaborators struct {
	Feed            feed.DatabaseFeedManager
	Store           *inventory.Store
	Dispatcher      report.Dispatcher
	Indexer         report.Indexer
	ArrayIndexer    report.ArrayIndexer
	GlobalAgents    report.GlobalAgentList
	OsDataCache     *cache.OsDataCache
	RemediationData *cache.RemediationDataCache

	// Rescan re-enters the orchestrator for one agent's current
	// inventory (used by ScanAgentList).
	Rescan stage.RescanFunc
	// StopPredicate is checked once per visited agent by sweep stages.
	StopPredicate func() bool
}

// Build returns the head of the stage chain for typ, per the table in spec
// §4.1. It fails with scanorch.ErrInvalidScannerType for any type the
// table doesn't name.
func Build(typ scanorch.ScannerType, c Collaborators) (stage.Stage, error) {
	switch typ {
	case scanorch.PackageInsert:
		head := &stage.PackageScan{Feed: c.Feed, OsCPE: c.OsDataCache}
		head.SetNext(&stage.EventInsertInventory{Store: c.Store, Feed: c.Feed}).
			SetNext(&stage.EventDetailsBuilder{Feed: c.Feed}).
			SetNext(&stage.EventPackageAlertBuilder{}).
			SetNext(&stage.EventSendReport{Dispatcher: c.Dispatcher}).
			SetNext(&stage.ResultIndexer{Indexer: c.Indexer})
		return head, nil

	case scanorch.PackageDelete:
		head := &stage.EventDeleteInventory{Store: c.Store}
		head.SetNext(&stage.EventPackageAlertBuilder{}).
			SetNext(&stage.EventSendReport{Dispatcher: c.Dispatcher}).
			SetNext(&stage.ResultIndexer{Indexer: c.Indexer})
		return head, nil

	case scanorch.Os:
		head := &stage.OsScan{Feed: c.Feed, OsCache: c.OsDataCache}
		head.SetNext(&stage.ScanInventorySync{Store: c.Store, Feed: c.Feed}).
			SetNext(&stage.EventDetailsBuilder{Feed: c.Feed}).
			SetNext(&stage.ScanOsAlertBuilder{}).
			SetNext(&stage.EventSendReport{Dispatcher: c.Dispatcher}).
			SetNext(&stage.ResultIndexer{Indexer: c.Indexer})
		return head, nil

	case scanorch.HotfixInsert:
		head := &stage.HotfixInsert{Remediation: c.RemediationData}
		head.SetNext(&stage.CveSolvedInventorySync{Store: c.Store}).
			SetNext(&stage.CveSolvedAlertBuilder{Feed: c.Feed, OsCache: c.OsDataCache}).
			SetNext(&stage.EventSendReport{Dispatcher: c.Dispatcher}).
			SetNext(&stage.ArrayResultIndexer{Indexer: c.ArrayIndexer})
		return head, nil

	case scanorch.HotfixDelete:
		return &stage.HotfixDelete{Remediation: c.RemediationData}, nil

	case scanorch.IntegrityClear:
		head := &stage.CleanSingleAgentInventory{Store: c.Store}
		head.SetNext(&stage.AlertClearBuilder{}).
			SetNext(&stage.ClearSendReport{Dispatcher: c.Dispatcher})
		return head, nil

	case scanorch.CleanupSingleAgentData:
		return &stage.CleanSingleAgentInventory{Store: c.Store}, nil

	case scanorch.CleanupAllAgentData:
		return &stage.CleanAllAgentInventory{Store: c.Store, StopPredicate: c.StopPredicate}, nil

	case scanorch.ReScanAllAgents:
		head := &stage.CleanAllAgentInventory{Store: c.Store, StopPredicate: c.StopPredicate}
		head.SetNext(&stage.BuildAllAgentListContext{Agents: c.GlobalAgents}).
			SetNext(&stage.ScanAgentList{Rescan: c.Rescan, StopPredicate: c.StopPredicate})
		return head, nil

	case scanorch.ReScanSingleAgent:
		head := &stage.CleanSingleAgentInventory{Store: c.Store}
		head.SetNext(&stage.BuildSingleAgentListContext{}).
			SetNext(&stage.ScanAgentList{Rescan: c.Rescan, StopPredicate: c.StopPredicate})
		return head, nil

	case scanorch.GlobalSyncInventory:
		return &stage.GlobalInventorySync{
			Store:         c.Store,
			KnownAgentIDs: knownAgentIDs(c.GlobalAgents),
			StopPredicate: c.StopPredicate,
		}, nil

	default:
		return nil, &scanorch.Error{Op: "orchestrator.Build", Kind: scanorch.ErrInvalidScannerType, Message: typ.String()}
	}
}

// Run builds the chain for sc.Type and drives sc through it, observing the
// wall-clock time spent in metrics.ChainDuration (spec §7 "User-visible
// behavior").
func Run(ctx context.Context, sc *scanorch.ScanContext, c Collaborators) error {
	head, err := Build(sc.Type, c)
	if err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		metrics.ChainDuration.WithLabelValues(sc.Type.String()).Observe(time.Since(start).Seconds())
	}()
	return stage.Run(ctx, head, sc)
}

func knownAgentIDs(agents report.GlobalAgentList) func(context.Context) (map[string]bool, error) {
	return func(ctx context.Context) (map[string]bool, error) {
		list, err := agents.Agents(ctx)
		if err != nil {
			return nil, err
		}
		known := make(map[string]bool, len(list))
		for _, a := range list {
			known[a.ID] = true
		}
		return known, nil
	}
}
