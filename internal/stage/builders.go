package stage

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/quay/zlog"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/cache"
	"github.com/hostvuln/scanorch/internal/feed"
	"github.com/hostvuln/scanorch/internal/purl"
)

// nowFunc is overridable in tests; detected_at must be wall-clock (spec
// §4.5).
var nowFunc = time.Now

// EventDetailsBuilder fills sc.Elements entries with the outbound envelope
// (agent/wazuh/host-or-package/vulnerability sections, spec §4.5).
type EventDetailsBuilder struct {
	base
	Feed feed.DatabaseFeedManager
}

func (s *EventDetailsBuilder) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	for cve, el := range sc.Elements {
		details, err := s.Feed.VulnerabilityDetails(ctx, cve)
		if err != nil {
			zlog.Error(ctx).Err(err).Str("cve", cve).Msg("details builder: feed access failure, dropping cve")
			delete(sc.Elements, cve)
			delete(sc.MatchConditions, cve)
			continue
		}
		fillEnvelope(sc, el, cve, details)
	}
	if len(sc.Elements) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

func fillEnvelope(sc *scanorch.ScanContext, el *scanorch.Element, cve string, details feed.VulnDetails) {
	category := scanorch.CategoryPackages
	var host *scanorch.HostSection
	var pkg *scanorch.PackageSection
	if sc.Package.ItemID != "" {
		pkg = &scanorch.PackageSection{
			Name:         sc.Package.Name,
			Version:      sc.Package.Version,
			Architecture: sc.Package.Architecture,
			Description:  sc.Package.Description,
			Size:         sc.Package.Size,
			Type:         sc.Package.Format,
		}
		if strings.TrimSpace(sc.Package.Location) != "" {
			pkg.Path = sc.Package.Location
		}
		pkg.Purl = purl.String(sc.Package)
	} else {
		category = scanorch.CategoryOS
		host = &scanorch.HostSection{OS: scanorch.HostOS{
			Name:     sc.OS.Name,
			Full:     sc.OS.FullName(),
			Platform: sc.OS.Platform,
			Type:     sc.OS.OSType(),
			Version:  sc.OS.DottedVersion(),
			Kernel:   sc.OS.KernelVersion,
		}}
	}

	ephemeralID := ""
	if sc.Agent.IsManager() {
		ephemeralID = sc.ClusterNodeName
	}

	el.Data = scanorch.RecordData{
		Agent: scanorch.RecordAgent{
			ID:          sc.Agent.ID,
			Name:        sc.Agent.Name,
			Type:        "wazuh",
			Version:     sc.Agent.Version,
			EphemeralID: ephemeralID,
		},
		Wazuh: scanorch.WazuhSection{
			Cluster: scanorch.WazuhCluster{Name: sc.ClusterName},
			Schema:  scanorch.WazuhSchema{Version: "1.0"},
		},
		Host:    host,
		Package: pkg,
		Vulnerability: scanorch.VulnerabilitySection{
			ID:             cve,
			Category:       category,
			Classification: details.Classification,
			Description:    details.Description,
			Enumeration:    "CVE",
			Reference:      details.Reference,
			Scanner:        scanorch.ScannerSection{Vendor: "Wazuh"},
			Score:          scanorch.Score{Base: round2(details.ScoreBase), Version: details.ScoreVersion},
			Severity:       sentenceCase(details.Severity),
			PublishedAt:    details.DatePublished,
			DetectedAt:     nowFunc().UTC().Format(time.RFC3339),
		},
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sentenceCase(s string) string {
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// EventPackageAlertBuilder copies each alert-eligible element of
// sc.Elements into sc.Alerts already built by EventDetailsBuilder (package
// flows only emit an alert when the element is itself a transition, which
// the inventory-sync stage already guaranteed by only leaving transitions
// in sc.Elements).
type EventPackageAlertBuilder struct{ base }

func (s *EventPackageAlertBuilder) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	for cve, el := range sc.Elements {
		sc.Alerts[cve] = el
	}
	if len(sc.Alerts) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// ScanOsAlertBuilder is the OS-scan counterpart of EventPackageAlertBuilder.
type ScanOsAlertBuilder struct{ base }

func (s *ScanOsAlertBuilder) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	for cve, el := range sc.Elements {
		sc.Alerts[cve] = el
	}
	if len(sc.Alerts) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// CveSolvedAlertBuilder enriches the DELETED elements CveSolvedInventorySync
// produced with the outbound envelope before dispatch.
type CveSolvedAlertBuilder struct {
	base
	Feed    feed.DatabaseFeedManager
	OsCache *cache.OsDataCache
}

func (s *CveSolvedAlertBuilder) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	resolveCachedOS(sc, s.OsCache)
	for cve, el := range sc.Elements {
		details, err := s.Feed.VulnerabilityDetails(ctx, cve)
		if err != nil {
			details = feed.VulnDetails{}
		}
		fillEnvelope(sc, el, cve, details)
		sc.Alerts[cve] = el
	}
	if len(sc.Alerts) == 0 {
		return Terminal, nil
	}
	return Continue, nil
}

// AlertClearBuilder builds the minimal clear-alert envelope used by
// IntegrityClear: exactly one DELETED alert per event, keyed by the agent
// id, carrying only agent identity and cluster name (no vulnerability
// detail lookup, since the CVE catalog for a wiped agent is no longer
// meaningful).
type AlertClearBuilder struct{ base }

func (s *AlertClearBuilder) Run(ctx context.Context, sc *scanorch.ScanContext) (Result, error) {
	el := &scanorch.Element{
		Operation: scanorch.Deleted,
		ID:        sc.Agent.ID,
		Data: scanorch.RecordData{
			Agent: scanorch.RecordAgent{ID: sc.Agent.ID, Name: sc.Agent.Name, Type: "wazuh"},
			Wazuh: scanorch.WazuhSection{Cluster: scanorch.WazuhCluster{Name: sc.ClusterName}},
		},
	}
	sc.Alerts[sc.Agent.ID] = el
	return Continue, nil
}
