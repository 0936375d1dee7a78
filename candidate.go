package scanorch

// AdvisoryStatus is the status a CNA advisory candidate, or one of its
// version rules, assigns to a version range.
type AdvisoryStatus string

const (
	Affected   AdvisoryStatus = "affected"
	Unaffected AdvisoryStatus = "unaffected"
)

// VersionRule is one entry of a Candidate's versions[] array. Exactly one of
// LessThan / LessThanOrEqual is set, or neither (in which case Version is
// matched for exact equality).
type VersionRule struct {
	Status      AdvisoryStatus
	Version     string // base/lower bound
	VersionType string // "custom", "semver", ... selects the comparison scheme

	LessThan        string
	LessThanOrEqual string
}

// HasUpperBound reports whether this rule expresses a range rather than an
// exact-match rule.
func (r VersionRule) HasUpperBound() bool {
	return r.LessThan != "" || r.LessThanOrEqual != ""
}

// Candidate is a read-only CNA advisory candidate as returned by the feed
// manager for a given CNA namespace.
type Candidate struct {
	CVEID         string
	DefaultStatus AdvisoryStatus
	Platforms     []string
	Vendor        string // optional; empty means "no vendor gate"
	Versions      []VersionRule
}

// upstreamPlatform is the pseudo-platform tag meaning "applies regardless of
// OS" (spec §3 invariants, §4.2 step 1).
const upstreamPlatform = "upstream"

// MatchesPlatform reports whether this candidate applies to osCodeName,
// honoring the "upstream" wildcard.
func (c Candidate) MatchesPlatform(osCodeName string) bool {
	for _, p := range c.Platforms {
		if p == upstreamPlatform || p == osCodeName {
			return true
		}
	}
	return false
}
