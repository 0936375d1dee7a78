// Package matcher evaluates a CNA advisory candidate against an observed
// package or OS version, producing the MatchCondition the calling stage
// attaches to a ScanContext entry (spec §4.2 step 2-3).
package matcher

import (
	"fmt"
	"strings"

	"github.com/hostvuln/scanorch"
	"github.com/hostvuln/scanorch/internal/version"
)

// Evaluate walks c.Versions in order and returns the MatchCondition for the
// first rule that matches observed, comparing under the scheme selected by
// each rule's VersionType (falling back to packageFormat for "custom"/"").
// If no rule matches, it returns a DefaultStatus condition built from
// c.DefaultStatus. The second return value carries the resolved
// scanorch.AdvisoryStatus so callers don't need to re-inspect the condition.
func Evaluate(c scanorch.Candidate, observed, packageFormat string) (scanorch.MatchCondition, scanorch.AdvisoryStatus, error) {
	for _, rule := range c.Versions {
		cmp := version.ComparerFor(rule.VersionType, packageFormat)

		switch {
		case rule.LessThan != "":
			ok, err := version.InLessThanRange(cmp, observed, rule.Version, rule.LessThan)
			if err != nil {
				return scanorch.MatchCondition{}, "", fmt.Errorf("matcher: evaluate %s lessThan rule: %w", c.CVEID, err)
			}
			if ok {
				return scanorch.MatchCondition{Tag: scanorch.LessThan, Version: rule.LessThan}, rule.Status, nil
			}
		case rule.LessThanOrEqual != "":
			ok, err := version.InLessThanOrEqualRange(cmp, observed, rule.Version, rule.LessThanOrEqual)
			if err != nil {
				return scanorch.MatchCondition{}, "", fmt.Errorf("matcher: evaluate %s lessThanOrEqual rule: %w", c.CVEID, err)
			}
			if ok {
				return scanorch.MatchCondition{Tag: scanorch.LessThanOrEqual, Version: rule.LessThanOrEqual}, rule.Status, nil
			}
		default:
			ok, err := version.Equal(cmp, observed, rule.Version)
			if err != nil {
				return scanorch.MatchCondition{}, "", fmt.Errorf("matcher: evaluate %s equal rule: %w", c.CVEID, err)
			}
			if ok {
				return scanorch.MatchCondition{Tag: scanorch.Equal, Version: rule.Version}, rule.Status, nil
			}
		}
	}
	return scanorch.MatchCondition{Tag: scanorch.DefaultStatus}, c.DefaultStatus, nil
}

// PlatformGate reports whether c applies to osCodeName (spec §4.2 step 1).
func PlatformGate(c scanorch.Candidate, osCodeName string) bool {
	return c.MatchesPlatform(osCodeName)
}

// VendorGate reports whether pkg's vendor is compatible with c's vendor
// constraint (spec §4.2 step 2): a candidate with no vendor set always
// passes; otherwise pkg must report a known vendor and it must match c's,
// case-insensitively.
func VendorGate(c scanorch.Candidate, pkg scanorch.Package) bool {
	if c.Vendor == "" {
		return true
	}
	if !pkg.HasKnownVendor() {
		return false
	}
	return strings.EqualFold(c.Vendor, pkg.Vendor)
}

// MatchPackage runs the full per-candidate decision (spec §4.2 steps 1-3)
// against an observed package. ok is false when the candidate is gated out
// by platform or vendor; status and cond are only meaningful when ok is
// true.
func MatchPackage(c scanorch.Candidate, osCodeName string, pkg scanorch.Package) (ok bool, status scanorch.AdvisoryStatus, cond scanorch.MatchCondition, err error) {
	if !PlatformGate(c, osCodeName) {
		return false, "", scanorch.MatchCondition{}, nil
	}
	if !VendorGate(c, pkg) {
		return false, "", scanorch.MatchCondition{}, nil
	}
	cond, status, err = Evaluate(c, pkg.Version, pkg.Format)
	if err != nil {
		return false, "", scanorch.MatchCondition{}, err
	}
	return true, status, cond, nil
}

// MatchOS runs the full per-candidate decision against an observed OS,
// using observedVersion (OsScan passes the OS's rendered CPE name) as the
// comparison subject. No package format is passed to Evaluate, so "custom"
// and untyped rules use lexical ordering unless the rule names a scheme
// explicitly. There is no vendor gate for OS candidates.
func MatchOS(c scanorch.Candidate, osCodeName, observedVersion string) (ok bool, status scanorch.AdvisoryStatus, cond scanorch.MatchCondition, err error) {
	if !PlatformGate(c, osCodeName) {
		return false, "", scanorch.MatchCondition{}, nil
	}
	cond, status, err = Evaluate(c, observedVersion, "")
	if err != nil {
		return false, "", scanorch.MatchCondition{}, err
	}
	return true, status, cond, nil
}
