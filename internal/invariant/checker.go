// Package invariant evaluates declarative invariants over protocol constants.
//
// A Checker holds a set of rules. Each rule names the constants it consumes
// and the revisions it is gated to; Run selects the applicable rules for an
// explicit revision and evaluates each one independently.
package invariant

import (
	"fmt"
	"time"

	klog "github.com/Klingon-tech/klingnet-invariants/internal/log"
	"github.com/rs/zerolog"
)

// Checker evaluates rules against configurations. Check and Run do not
// mutate the checker and may be called concurrently.
type Checker struct {
	rules  []Rule
	logger zerolog.Logger
	now    func() time.Time
}

// NewChecker creates a checker over the given rules.
func NewChecker(rules ...Rule) (*Checker, error) {
	seen := make(map[string]bool, len(rules))
	for i, r := range rules {
		if r.Name == "" {
			return nil, fmt.Errorf("rule %d: name is required", i)
		}
		if seen[r.Name] {
			return nil, fmt.Errorf("duplicate rule %q", r.Name)
		}
		if r.Predicate == nil {
			return nil, fmt.Errorf("rule %q: predicate is required", r.Name)
		}
		for _, rev := range r.Revisions {
			if !rev.Known() {
				return nil, fmt.Errorf("rule %q: unknown revision %q", r.Name, rev)
			}
		}
		seen[r.Name] = true
	}
	c := &Checker{
		rules:  make([]Rule, len(rules)),
		logger: klog.Checker,
		now:    time.Now,
	}
	copy(c.rules, rules)
	return c, nil
}

// SetLogger replaces the checker's logger.
func (c *Checker) SetLogger(l zerolog.Logger) {
	c.logger = l
}

// Rules returns every registered rule.
func (c *Checker) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// RulesFor returns the rules gated to rev, in registration order.
func (c *Checker) RulesFor(rev Revision) []Rule {
	var out []Rule
	for _, r := range c.rules {
		if r.AppliesTo(rev) {
			out = append(out, r)
		}
	}
	return out
}

// Check evaluates one rule against cfg. It does not consult the rule's
// revision gate; Run does.
func (c *Checker) Check(cfg *Configuration, rule Rule) Result {
	v := make(Values, len(rule.Constants))
	for _, name := range rule.Constants {
		val, err := cfg.Value(name)
		if err != nil {
			return failResult(rule, v, err)
		}
		v[name] = val
	}

	if !rule.Predicate(v) {
		return failResult(rule, v, &AssertionError{
			Rule:        rule.Name,
			Description: rule.Description,
			Values:      v,
			Detail:      detail(rule, v),
		})
	}
	return passResult(rule, v)
}

// Run evaluates every rule gated to rev against cfg. A failing rule never
// prevents later rules from being evaluated.
func (c *Checker) Run(rev Revision, cfg *Configuration) *Report {
	report := &Report{
		Revision:   rev,
		ConfigHash: cfg.Hash(),
		CheckedAt:  c.now().UTC(),
		Passed:     true,
	}

	rules := c.RulesFor(rev)
	if len(rules) == 0 {
		c.logger.Warn().Str("revision", rev.String()).Msg("No invariants defined for revision")
	}

	for _, rule := range rules {
		res := c.Check(cfg, rule)
		report.Results = append(report.Results, res)
		if res.Passed() {
			c.logger.Debug().
				Str("revision", rev.String()).
				Str("rule", rule.Name).
				Str("detail", res.Detail).
				Msg("Invariant holds")
			continue
		}
		report.Passed = false
		c.logger.Error().
			Str("revision", rev.String()).
			Str("rule", rule.Name).
			Err(res.Err()).
			Msg("Invariant violated")
	}

	c.logger.Info().
		Str("revision", rev.String()).
		Str("config", report.ConfigHash.Short()).
		Int("rules", len(report.Results)).
		Int("failed", len(report.Failed())).
		Msg("Invariant check complete")

	return report
}
