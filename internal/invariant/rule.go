package invariant

// Values holds the constants a rule read, keyed by name.
type Values map[string]uint64

// Rule is a declarative predicate over configuration constants.
type Rule struct {
	// Name is a stable identifier, e.g. "weight_denominator".
	Name string
	// Description is the human-readable statement of the invariant.
	Description string
	// Revisions the rule applies to. Empty means every revision.
	Revisions []Revision
	// Constants lists every constant Predicate and Detail read.
	// Only these are handed to the predicate.
	Constants []string
	// Predicate reports whether the invariant holds.
	Predicate func(v Values) bool
	// Detail optionally describes the observed values for failure messages.
	Detail func(v Values) string
}

// AppliesTo reports whether the rule is gated to rev.
func (r Rule) AppliesTo(rev Revision) bool {
	if len(r.Revisions) == 0 {
		return true
	}
	for _, x := range r.Revisions {
		if x == rev {
			return true
		}
	}
	return false
}
