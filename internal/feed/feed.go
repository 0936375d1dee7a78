// Package feed defines the boundary between this repo and the advisory feed
// database: DatabaseFeedManager is implemented elsewhere (spec §9, "Out of
// scope... only their interfaces matter") and injected into the scanner
// stages. This package also holds the CNA-name resolution cascade (spec
// §4.2 "CNA name resolution") that sits in front of it, combining the
// feed's raw family-name lookups with the local platformdata mapping.
package feed

import (
	"context"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/platformdata"
)

// Translation is one (name, vendor, version) triple returned by
// CheckAndTranslatePackage (spec §4.2 "Package translation"). Each is
// evaluated against the candidate set independently of the original
// package.
type Translation struct {
	Name    string
	Vendor  string
	Version string
}

// VisitFunc is called once per candidate in a CNA namespace. Returning true
// halts the traversal early (spec §9 "Candidate iteration": push-style,
// visit-and-halt).
type VisitFunc func(scanorch.Candidate) (stop bool)

// DatabaseFeedManager is the external collaborator that owns the advisory
// database. Implementations live outside this module; this repo only
// depends on the interface.
type DatabaseFeedManager interface {
	// GetCnaNameByFormat implements cascade step 1 (spec §4.2 step 1): a
	// direct package.format -> CNA family mapping. Empty result, nil error
	// means "no mapping", prompting the next cascade step.
	GetCnaNameByFormat(ctx context.Context, format string) (string, error)
	// GetCnaNameBySource implements cascade step 2, tried only when step 1
	// is empty.
	GetCnaNameBySource(ctx context.Context, source string) (string, error)
	// GetCnaNameByPrefix implements cascade step 3: longest-prefix match of
	// pkgName against known family prefixes for osPlatform.
	GetCnaNameByPrefix(ctx context.Context, pkgName, osPlatform string) (string, error)
	// GetCnaNameByContains implements cascade step 4: substring-contains
	// match of pkgName against known family names for osPlatform.
	GetCnaNameByContains(ctx context.Context, pkgName, osPlatform string) (string, error)

	// CheckAndTranslatePackage returns zero or more alternative identities
	// for pkg to additionally evaluate (spec §4.2 "Package translation").
	CheckAndTranslatePackage(ctx context.Context, pkg scanorch.Package, os scanorch.OS) ([]Translation, error)

	// VisitCandidates calls visit once per candidate advisory in cna's
	// namespace, stopping early if visit returns true.
	VisitCandidates(ctx context.Context, cna string, visit VisitFunc) error

	// Remediation returns the solution and reference for cveID. The
	// inventory-sync stages read solution as a comma-separated list of
	// remediating hotfix IDs and store it on the inventory record; reference
	// is not used by any stage.
	Remediation(ctx context.Context, cveID string) (solution, reference string, err error)

	// VulnerabilityDetails returns the descriptive fields the details
	// builder copies verbatim into the vulnerability envelope section
	// (spec §4.5).
	VulnerabilityDetails(ctx context.Context, cveID string) (VulnDetails, error)
}

// VulnDetails is the read-only foreign buffer of feed-sourced descriptive
// fields for one CVE (spec §4.5: "opened as a read-only foreign buffer;
// the resulting scalar fields are copied into the JSON envelope").
type VulnDetails struct {
	Classification string
	Description    string
	Reference      string
	Severity       string
	ScoreBase      float64
	ScoreVersion   string
	DatePublished  string
}

// ResolveCNA runs the full cascade (spec §4.2 "CNA name resolution" steps
// 1-5): it tries the feed manager's four lookups in order, stopping at the
// first non-empty result, then applies the local platformdata mapping to
// whatever raw family name it found (or platformdata.DefaultCNA if none
// did).
func ResolveCNA(ctx context.Context, mgr DatabaseFeedManager, pkgName, pkgFormat, pkgSource string, os scanorch.OS) (string, error) {
	raw, err := mgr.GetCnaNameByFormat(ctx, pkgFormat)
	if err != nil {
		return "", err
	}
	if raw == "" {
		raw, err = mgr.GetCnaNameBySource(ctx, pkgSource)
		if err != nil {
			return "", err
		}
	}
	if raw == "" {
		raw, err = mgr.GetCnaNameByPrefix(ctx, pkgName, os.Platform)
		if err != nil {
			return "", err
		}
	}
	if raw == "" {
		raw, err = mgr.GetCnaNameByContains(ctx, pkgName, os.Platform)
		if err != nil {
			return "", err
		}
	}
	return platformdata.ResolveCNA(raw, os.Platform, os.MajorVersion), nil
}

// ResolveOsCNA applies the local platformdata mapping directly, skipping
// the package-oriented cascade: OS candidates are looked up by platform
// family name alone (spec §4.2 step 1 as it applies to OsScanner, §4.4).
func ResolveOsCNA(os scanorch.OS) string {
	return platformdata.ResolveCNA(os.Platform, os.Platform, os.MajorVersion)
}
