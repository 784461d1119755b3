package invariant

import (
	"fmt"
	"strings"
)

// Revision names a variant of the protocol specification.
type Revision string

// Known revisions, in fork order.
const (
	Phase0    Revision = "phase0"
	Altair    Revision = "altair"
	Bellatrix Revision = "bellatrix"
	Capella   Revision = "capella"
	Deneb     Revision = "deneb"
)

var revisions = []Revision{Phase0, Altair, Bellatrix, Capella, Deneb}

// Revisions returns all known revisions in fork order.
func Revisions() []Revision {
	out := make([]Revision, len(revisions))
	copy(out, revisions)
	return out
}

// ParseRevision parses a revision name case-insensitively, so "ALTAIR" and
// "altair" are the same revision.
func ParseRevision(s string) (Revision, error) {
	r := Revision(strings.ToLower(strings.TrimSpace(s)))
	if !r.Known() {
		return "", fmt.Errorf("unknown revision %q", s)
	}
	return r, nil
}

// Known reports whether r is one of the known revisions.
func (r Revision) Known() bool {
	for _, k := range revisions {
		if r == k {
			return true
		}
	}
	return false
}

// String returns the revision name.
func (r Revision) String() string {
	return string(r)
}
