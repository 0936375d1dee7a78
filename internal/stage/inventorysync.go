package stage

import (
	"context"
	"strings"

	"github.com/quay/zlog"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/feed"
	"github.com/hostvuln/scanorch/internal/inventory"
)

// EventInsertInventory write-throughs each entry in sc.Elements for an
// inserted package: new keys are stamped INSERTED, already-known keys are
// dropped from elements since they are not a transition (spec §4.4). Each
// inserted record is enriched with the feed's remediating-hotfix set so a
// later HotfixInsert can resolve it (CveSolvedInventorySync, spec §4.4).
type EventInsertInventory struct {
	base
	Store *inventory.Store
	Feed  feed.DatabaseFeedManager
}

func (s *EventInsertInventory) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	itemKey := sc.Package.ItemID
	for cve, el := range sc.Elements {
		key := inventory.Key(sc.Agent.ID, itemKey, cve)
		_, exists, err := s.Store.Get(ctx, key)
		if err != nil {
			return Terminal, err
		}
		if exists {
			delete(sc.Elements, cve)
			delete(sc.MatchConditions, cve)
			continue
		}
		el.Operation = scanorch.Inserted
		rec := inventory.Record{Element: el, ItemID: itemKey, Remediate: remediatingHotfixes(ctx, s.Feed, cve)}
		if err := s.Store.Put(ctx, key, rec); err != nil {
			return Terminal, err
		}
		sc.Alerts[cve] = el
	}
	if len(sc.Elements) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// EventDeleteInventory enumerates every stored CVE for the removed
// package's item key, synthesizes a DELETED element for each, and deletes
// the keys (spec §4.4).
type EventDeleteInventory struct {
	base
	Store *inventory.Store
}

func (s *EventDeleteInventory) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	prefix := inventory.ItemPrefix(sc.Agent.ID, sc.Package.ItemID)
	var toDelete []string
	err := s.Store.WalkPrefix(ctx, prefix, func(key string, rec inventory.Record) error {
		cve := cveFromKey(key)
		el := rec.Element
		if el == nil {
			el = &scanorch.Element{ID: cve}
		}
		el.Operation = scanorch.Deleted
		sc.Elements[cve] = el
		sc.Alerts[cve] = el
		toDelete = append(toDelete, key)
		return nil
	})
	if err != nil {
		return Terminal, err
	}
	for _, key := range toDelete {
		if err := s.Store.Delete(ctx, key); err != nil {
			return Terminal, err
		}
	}
	if len(sc.Elements) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// ScanInventorySync is the full-sweep inventory sync used by OS scans: it
// diffs the CVEs currently matched in sc.Elements against the set stored
// under this agent/OS key, inserting new keys and deleting disappeared ones
// (spec §4.4). Newly-inserted records are enriched with their remediating
// hotfix set the same way EventInsertInventory does.
type ScanInventorySync struct {
	base
	Store *inventory.Store
	Feed  feed.DatabaseFeedManager
}

func (s *ScanInventorySync) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	itemKey := sc.OS.Name
	prefix := inventory.ItemPrefix(sc.Agent.ID, itemKey)

	stored, err := s.Store.Keys(ctx, prefix)
	if err != nil {
		return Terminal, err
	}
	storedCVEs := make(map[string]bool, len(stored))
	for _, k := range stored {
		storedCVEs[cveFromKey(k)] = true
	}

	for cve, el := range sc.Elements {
		key := inventory.Key(sc.Agent.ID, itemKey, cve)
		if storedCVEs[cve] {
			delete(storedCVEs, cve)
			delete(sc.Elements, cve)
			delete(sc.MatchConditions, cve)
			continue
		}
		el.Operation = scanorch.Inserted
		rec := inventory.Record{Element: el, OSName: itemKey, Remediate: remediatingHotfixes(ctx, s.Feed, cve)}
		if err := s.Store.Put(ctx, key, rec); err != nil {
			return Terminal, err
		}
		sc.Alerts[cve] = el
	}

	for cve := range storedCVEs {
		key := inventory.Key(sc.Agent.ID, itemKey, cve)
		el := &scanorch.Element{ID: cve, Operation: scanorch.Deleted}
		sc.Elements[cve] = el
		sc.Alerts[cve] = el
		if err := s.Store.Delete(ctx, key); err != nil {
			return Terminal, err
		}
	}

	if len(sc.Elements) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// CveSolvedInventorySync marks DELETED any stored CVE whose remediation
// set now includes the hotfix just installed (spec §4.4).
type CveSolvedInventorySync struct {
	base
	Store *inventory.Store
}

func (s *CveSolvedInventorySync) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	prefix := inventory.AgentPrefix(sc.Agent.ID)
	var toDelete []string
	err := s.Store.WalkPrefix(ctx, prefix, func(key string, rec inventory.Record) error {
		for _, kb := range rec.Remediate {
			if kb == sc.Hotfix.ID {
				cve := cveFromKey(key)
				el := rec.Element
				if el == nil {
					el = &scanorch.Element{ID: cve}
				}
				el.Operation = scanorch.Deleted
				sc.Elements[cve] = el
				sc.Alerts[cve] = el
				toDelete = append(toDelete, key)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return Terminal, err
	}
	for _, key := range toDelete {
		if err := s.Store.Delete(ctx, key); err != nil {
			return Terminal, err
		}
	}
	if len(sc.Elements) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// GlobalInventorySync sweeps the entire store against the current global
// agent list, deleting records owned by agents no longer present (spec
// §4.4). It has no per-event ScanContext package/OS subject; KnownAgentIDs is
// supplied by the orchestrator wiring from the GlobalAgentList collaborator.
type GlobalInventorySync struct {
	base
	Store         *inventory.Store
	KnownAgentIDs func(ctx context.Context) (map[string]bool, error)
	StopPredicate func() bool
}

func (s *GlobalInventorySync) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	known, err := s.KnownAgentIDs(ctx)
	if err != nil {
		return Terminal, err
	}

	allKeys, err := s.Store.Keys(ctx, "")
	if err != nil {
		return Terminal, err
	}

	seenAgent := ""
	for _, key := range allKeys {
		agentID := agentFromKey(key)
		if agentID != seenAgent {
			seenAgent = agentID
			if s.StopPredicate != nil && s.StopPredicate() {
				break
			}
		}
		if known[agentID] {
			continue
		}
		if err := s.Store.Delete(ctx, key); err != nil {
			return Terminal, err
		}
	}
	return Terminal, nil
}

// CleanSingleAgentInventory unconditionally removes every key belonging to
// one agent. No alerts are produced (spec §4.4).
type CleanSingleAgentInventory struct {
	base
	Store *inventory.Store
}

func (s *CleanSingleAgentInventory) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	if _, err := s.Store.DeletePrefix(ctx, inventory.AgentPrefix(sc.Agent.ID)); err != nil {
		return Terminal, err
	}
	return Continue, nil
}

// CleanAllAgentInventory unconditionally removes every key in the store.
// No alerts are produced (spec §4.4).
type CleanAllAgentInventory struct {
	base
	Store         *inventory.Store
	StopPredicate func() bool
}

func (s *CleanAllAgentInventory) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	if s.StopPredicate != nil && s.StopPredicate() {
		return Terminal, nil
	}
	if _, err := s.Store.DeletePrefix(ctx, ""); err != nil {
		return Terminal, err
	}
	return Continue, nil
}

// remediatingHotfixes asks the feed which hotfix(es) solve cveID, so the
// inventory record it's written into can later be matched against an
// installed hotfix by CveSolvedInventorySync. A nil Feed or feed error
// yields no remediation set rather than failing the insert.
func remediatingHotfixes(ctx context.Context, f feed.DatabaseFeedManager, cveID string) []string {
	if f == nil {
		return nil
	}
	solution, _, err := f.Remediation(ctx, cveID)
	if err != nil {
		zlog.Error(ctx).Err(err).Str("cve", cveID).Msg("inventory sync: remediation lookup failed, leaving record unremediated")
		return nil
	}
	return splitRemediations(solution)
}

func cveFromKey(key string) string {
	i := strings.LastIndex(key, "_")
	if i < 0 {
		return key
	}
	return key[i+1:]
}

func agentFromKey(key string) string {
	i := strings.Index(key, "_")
	if i < 0 {
		return key
	}
	return key[:i]
}
