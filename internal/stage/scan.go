package stage

import (
	"context"
	"errors"

	"github.com/quay/zlog"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/cache"
	"github.com/hostvuln/scanorch/internal/feed"
	"github.com/hostvuln/scanorch/internal/matcher"
	"github.com/hostvuln/scanorch/internal/platformdata"
)

// PackageScan resolves the CNA namespace for an inserted package, walks its
// candidate advisories, and appends matches to sc.Elements /
// sc.MatchConditions (spec §4.2).
type PackageScan struct {
	base
	Feed  feed.DatabaseFeedManager
	OsCPE *cache.OsDataCache
}

func (s *PackageScan) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	resolveCachedOS(sc, s.OsCPE)

	cna, err := feed.ResolveCNA(ctx, s.Feed, sc.Package.Name, sc.Package.Format, sc.Package.Source, sc.OS)
	if err != nil {
		zlog.Error(ctx).Err(err).Str("package", sc.Package.Name).Msg("scan: feed access failure, skipping package")
		return Terminal, nil
	}

	triples := []feed.Translation{{Name: sc.Package.Name, Vendor: sc.Package.Vendor, Version: sc.Package.Version}}
	extra, err := s.Feed.CheckAndTranslatePackage(ctx, sc.Package, sc.OS)
	if err != nil {
		zlog.Error(ctx).Err(err).Str("package", sc.Package.Name).Msg("scan: translation failure, using observed triple only")
	} else {
		triples = append(triples, extra...)
	}

	unaffected := make(map[string]bool)

	for _, t := range triples {
		pkg := sc.Package
		pkg.Vendor = t.Vendor
		pkg.Version = t.Version

		visitErr := s.Feed.VisitCandidates(ctx, cna, func(c scanorch.Candidate) bool {
			if unaffected[c.CVEID] {
				return false
			}
			if _, already := sc.Elements[c.CVEID]; already {
				return false
			}
			ok, status, cond, err := matcher.MatchPackage(c, sc.OS.CodeName, pkg)
			if err != nil {
				zlog.Error(ctx).Err(err).Str("cve", c.CVEID).Msg("scan: version evaluation failed, skipping candidate")
				return false
			}
			if !ok {
				return false
			}
			switch status {
			case scanorch.Affected:
				sc.AddMatch(c.CVEID, "", cond)
			case scanorch.Unaffected:
				unaffected[c.CVEID] = true
			}
			return false
		})
		if visitErr != nil {
			zlog.Error(ctx).Err(visitErr).Str("package", sc.Package.Name).Msg("scan: candidate iteration failed, skipping package")
			return Terminal, nil
		}
	}

	for cve := range unaffected {
		delete(sc.Elements, cve)
		delete(sc.MatchConditions, cve)
	}

	if len(sc.Elements) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// OsScan is the structural twin of PackageScan for OS-insert events:
// candidates are matched against the OS's templated CPE name rather than a
// package identity (spec §4.3). It write-throughs the reported descriptor
// into OsCache so every later non-OS event from this agent can recover it
// (spec §2.2, §3 "Lifecycles": "OsDataCache entry: written on every
// OS-insert event").
type OsScan struct {
	base
	Feed    feed.DatabaseFeedManager
	OsCache *cache.OsDataCache
}

func (s *OsScan) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	if s.OsCache != nil {
		s.OsCache.Add(sc.Agent.ID, sc.OS)
	}

	cna := feed.ResolveOsCNA(sc.OS)
	template := platformdata.CPETemplateFor(sc.OS.Platform, sc.OS.MajorVersion)
	cpe := sc.OS.CPEName(template)
	if cpe == "" {
		return Terminal, nil
	}

	unaffected := make(map[string]bool)

	err := s.Feed.VisitCandidates(ctx, cna, func(c scanorch.Candidate) bool {
		if unaffected[c.CVEID] {
			return false
		}
		if _, already := sc.Elements[c.CVEID]; already {
			return false
		}
		ok, status, cond, err := matcher.MatchOS(c, sc.OS.CodeName, cpe)
		if err != nil {
			zlog.Error(ctx).Err(err).Str("cve", c.CVEID).Msg("os scan: version evaluation failed, skipping candidate")
			return false
		}
		if !ok {
			return false
		}
		switch status {
		case scanorch.Affected:
			sc.AddMatch(c.CVEID, "", cond)
		case scanorch.Unaffected:
			unaffected[c.CVEID] = true
		}
		return false
	})
	if err != nil {
		if errors.Is(err, scanorch.ErrFeedAccessFailure) {
			zlog.Error(ctx).Err(err).Msg("os scan: feed access failure, skipping host")
			return Terminal, nil
		}
		return Terminal, err
	}

	for cve := range unaffected {
		delete(sc.Elements, cve)
		delete(sc.MatchConditions, cve)
	}

	if len(sc.Elements) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// resolveCachedOS fills sc.OS from osCache when the event's own wire form
// carried no OS descriptor, which is the common case for package/hotfix
// deltas (only the osinfo table union carries those fields on the wire).
// A cache miss leaves sc.OS zero-valued; callers already tolerate that
// (e.g. an empty platform simply fails every candidate's platform gate).
func resolveCachedOS(sc *scanorch.ScanContext, osCache *cache.OsDataCache) {
	if sc.OS.Platform != "" || osCache == nil {
		return
	}
	if cached, ok := osCache.Get(sc.Agent.ID); ok {
		sc.OS = cached
	}
}
