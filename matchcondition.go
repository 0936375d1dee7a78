package scanorch

// MatchConditionTag enumerates how an observed version satisfied a
// candidate's version rule (spec §3, §4.2 step 3).
type MatchConditionTag int

const (
	_ MatchConditionTag = iota
	Equal
	LessThan
	LessThanOrEqual
	DefaultStatus
)

func (t MatchConditionTag) String() string {
	switch t {
	case Equal:
		return "Equal"
	case LessThan:
		return "LessThan"
	case LessThanOrEqual:
		return "LessThanOrEqual"
	case DefaultStatus:
		return "DefaultStatus"
	default:
		return "UnknownMatchCondition"
	}
}

// MatchCondition is produced by a scanner per (package, CVE): it records how
// the match was decided without re-running the version arithmetic.
type MatchCondition struct {
	Tag     MatchConditionTag
	Version string // the bound version the observed version was compared to; empty for DefaultStatus
}
