package invariant

import (
	"fmt"
	"math"
)

// Constant names referenced by the built-in rules.
const (
	TimelyHeadWeight            = "TIMELY_HEAD_WEIGHT"
	TimelySourceWeight          = "TIMELY_SOURCE_WEIGHT"
	TimelyTargetWeight          = "TIMELY_TARGET_WEIGHT"
	SyncRewardWeight            = "SYNC_REWARD_WEIGHT"
	ProposerWeight              = "PROPOSER_WEIGHT"
	WeightDenominator           = "WEIGHT_DENOMINATOR"
	InactivityScoreBias         = "INACTIVITY_SCORE_BIAS"
	InactivityScoreRecoveryRate = "INACTIVITY_SCORE_RECOVERY_RATE"
)

// rewardWeights are the participation and reward weights that must
// partition WEIGHT_DENOMINATOR.
var rewardWeights = []string{
	TimelyHeadWeight,
	TimelySourceWeight,
	TimelyTargetWeight,
	SyncRewardWeight,
	ProposerWeight,
}

// WeightDenominatorRule requires the reward weights to sum to WEIGHT_DENOMINATOR.
func WeightDenominatorRule() Rule {
	return Rule{
		Name:        "weight_denominator",
		Description: "reward weights must sum to WEIGHT_DENOMINATOR",
		Revisions:   []Revision{Altair},
		Constants:   append(append([]string{}, rewardWeights...), WeightDenominator),
		Predicate: func(v Values) bool {
			sum, ok := weightSum(v)
			return ok && sum == v[WeightDenominator]
		},
		Detail: func(v Values) string {
			sum, ok := weightSum(v)
			if !ok {
				return fmt.Sprintf("sum=overflow denominator=%d", v[WeightDenominator])
			}
			return fmt.Sprintf("sum=%d denominator=%d", sum, v[WeightDenominator])
		},
	}
}

// weightSum returns the sum of the reward weights, or false on uint64 overflow.
func weightSum(v Values) (uint64, bool) {
	var sum uint64
	for _, name := range rewardWeights {
		w := v[name]
		if sum > math.MaxUint64-w {
			return 0, false
		}
		sum += w
	}
	return sum, true
}

// InactivityScoreRule requires INACTIVITY_SCORE_BIAS <= INACTIVITY_SCORE_RECOVERY_RATE.
func InactivityScoreRule() Rule {
	return Rule{
		Name:        "inactivity_score",
		Description: "INACTIVITY_SCORE_BIAS must not exceed INACTIVITY_SCORE_RECOVERY_RATE",
		Revisions:   []Revision{Altair},
		Constants:   []string{InactivityScoreBias, InactivityScoreRecoveryRate},
		Predicate: func(v Values) bool {
			return v[InactivityScoreBias] <= v[InactivityScoreRecoveryRate]
		},
		Detail: func(v Values) string {
			return fmt.Sprintf("bias=%d recovery_rate=%d", v[InactivityScoreBias], v[InactivityScoreRecoveryRate])
		},
	}
}

// Builtin returns the built-in rules.
func Builtin() []Rule {
	return []Rule{
		WeightDenominatorRule(),
		InactivityScoreRule(),
	}
}

// NewBuiltinChecker returns a checker over the built-in rules.
func NewBuiltinChecker() *Checker {
	c, err := NewChecker(Builtin()...)
	if err != nil {
		// Built-in rules are static; this only fires if they are edited incorrectly.
		panic(err)
	}
	return c
}
