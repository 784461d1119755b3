package invariant

import (
	"errors"
	"time"

	"github.com/Klingon-tech/klingnet-invariants/pkg/types"
)

// Status is the outcome of a single rule.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// Result is the outcome of evaluating one rule against one configuration.
type Result struct {
	Rule        string `json:"rule"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	Values      Values `json:"values,omitempty"`
	Detail      string `json:"detail,omitempty"`
	Error       string `json:"error,omitempty"`

	// err is only set in-process; it does not survive a JSON round trip.
	err error
}

// Passed reports whether the rule held.
func (r Result) Passed() bool {
	return r.Status == StatusPass
}

// Err returns the failure error: *AssertionError or *MissingConstantError.
// Nil for passing results and for results decoded from storage.
func (r Result) Err() error {
	return r.err
}

func passResult(rule Rule, v Values) Result {
	return Result{
		Rule:        rule.Name,
		Description: rule.Description,
		Status:      StatusPass,
		Values:      v,
		Detail:      detail(rule, v),
	}
}

func failResult(rule Rule, v Values, err error) Result {
	return Result{
		Rule:        rule.Name,
		Description: rule.Description,
		Status:      StatusFail,
		Values:      v,
		Detail:      detail(rule, v),
		Error:       err.Error(),
		err:         err,
	}
}

func detail(rule Rule, v Values) string {
	if rule.Detail == nil || len(v) != len(rule.Constants) {
		return ""
	}
	return rule.Detail(v)
}

// Report collects the results of one checker run.
type Report struct {
	Revision   Revision   `json:"revision"`
	Preset     string     `json:"preset,omitempty"`
	ConfigHash types.Hash `json:"config_hash"`
	CheckedAt  time.Time  `json:"checked_at"`
	Results    []Result   `json:"results"`
	Passed     bool       `json:"passed"`
}

// Failed returns the failing results.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Err joins the errors of every failing result. Nil when all rules passed.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failed() {
		if res.err != nil {
			errs = append(errs, res.err)
		} else {
			errs = append(errs, errors.New(res.Error))
		}
	}
	return errors.Join(errs...)
}
