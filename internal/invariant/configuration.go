package invariant

import (
	"sort"
	"strconv"

	"github.com/Klingon-tech/klingnet-invariants/pkg/crypto"
	"github.com/Klingon-tech/klingnet-invariants/pkg/types"
)

// Configuration is an immutable set of named protocol constants.
type Configuration struct {
	values map[string]uint64
}

// NewConfiguration copies values into a new Configuration.
func NewConfiguration(values map[string]uint64) *Configuration {
	c := &Configuration{values: make(map[string]uint64, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Lookup returns the value of a constant and whether it is present.
func (c *Configuration) Lookup(name string) (uint64, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Value returns the value of a constant, or a *MissingConstantError.
// An absent constant is never treated as zero.
func (c *Configuration) Value(name string) (uint64, error) {
	v, ok := c.values[name]
	if !ok {
		return 0, &MissingConstantError{Name: name}
	}
	return v, nil
}

// Len returns the number of constants.
func (c *Configuration) Len() int {
	return len(c.values)
}

// Names returns the constant names in sorted order.
func (c *Configuration) Names() []string {
	names := make([]string, 0, len(c.values))
	for k := range c.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Values returns a copy of the constants.
func (c *Configuration) Values() map[string]uint64 {
	out := make(map[string]uint64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Hash fingerprints the configuration. The encoding is one "NAME=value"
// line per constant, sorted by name.
func (c *Configuration) Hash() types.Hash {
	names := c.Names()
	lines := make([]string, len(names))
	for i, n := range names {
		lines[i] = n + "=" + strconv.FormatUint(c.values[n], 10)
	}
	return crypto.HashLines(lines)
}
