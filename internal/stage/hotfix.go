package stage

import (
	"context"
	"strings"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/cache"
)

// HotfixInsert records a newly-reported hotfix against the agent's
// RemediationDataCache entry before CveSolvedInventorySync looks for stored
// CVEs it now remediates (spec §4.1, §4.4).
type HotfixInsert struct {
	base
	Remediation *cache.RemediationDataCache
}

func (s *HotfixInsert) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	if sc.Hotfix.ID == "" {
		return Terminal, nil
	}
	data, _ := s.Remediation.Get(sc.Agent.ID)
	known := false
	for _, kb := range splitRemediations(data.Solution) {
		if kb == sc.Hotfix.ID {
			known = true
			break
		}
	}
	if !known {
		data.Solution = appendRemediation(data.Solution, sc.Hotfix.ID)
		s.Remediation.Add(sc.Agent.ID, data)
	}
	return Continue, nil
}

// HotfixDelete removes a hotfix from the agent's RemediationDataCache
// entry. Spec §4.1 lists no downstream stages for this scanner type: the
// cache update is the entire chain.
type HotfixDelete struct {
	base
	Remediation *cache.RemediationDataCache
}

func (s *HotfixDelete) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	data, ok := s.Remediation.Get(sc.Agent.ID)
	if !ok {
		return Terminal, nil
	}
	var kept []string
	for _, kb := range splitRemediations(data.Solution) {
		if kb != sc.Hotfix.ID {
			kept = append(kept, kb)
		}
	}
	data.Solution = strings.Join(kept, ",")
	s.Remediation.Add(sc.Agent.ID, data)
	return Terminal, nil
}

// splitRemediations/appendRemediation store the agent's known hotfix IDs as
// a comma-joined string in RemediationData.Solution, reusing the existing
// cache entry shape rather than introducing a parallel per-agent cache.
func splitRemediations(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func appendRemediation(s, kb string) string {
	if s == "" {
		return kb
	}
	return s + "," + kb
}
