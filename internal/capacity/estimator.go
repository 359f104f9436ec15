package capacity

import (
	"github.com/vmsizer/vmsizer/internal/model"
)

// Estimator turns a cluster topology into a capacity estimate. It holds a
// base overhead profile and the reasoning rule set; both are value inputs,
// so Estimate is a pure function of the topology and safe for concurrent
// use.
type Estimator struct {
	Profile OverheadProfile
	Rules   []Rule
}

// NewEstimator returns an estimator with the default overhead profile and
// rule set.
func NewEstimator() *Estimator {
	return &Estimator{
		Profile: DefaultOverheadProfile(),
		Rules:   DefaultRules(),
	}
}

// NewEstimatorWithProfile returns an estimator using the given base profile
// (e.g. a measured one) with the default rules.
func NewEstimatorWithProfile(p OverheadProfile) *Estimator {
	return &Estimator{Profile: p, Rules: DefaultRules()}
}

// Estimate computes the capacity available to workloads on the given
// topology:
//
//	available = clamp(raw - consumed_by_system - reserved_for_overhead, 0)
//
// Matching reasoning rules contribute their annotations in rule order and
// may adjust the overhead profile before the arithmetic runs.
func (e *Estimator) Estimate(t model.ClusterTopology) (model.ClusterCapacityEstimate, error) {
	if err := t.Validate(); err != nil {
		return model.ClusterCapacityEstimate{}, err
	}

	profile := e.Profile
	var reasoning []string
	for _, r := range e.Rules {
		if r.Applies == nil || !r.Applies(t) {
			continue
		}
		reasoning = append(reasoning, r.Annotation)
		if r.Adjust != nil {
			profile = r.Adjust(profile)
		}
	}

	calc := Calculator{Profile: profile}
	raw := calc.RawCapacity(t)
	consumed := calc.ConsumedBySystem(t)
	reserved := calc.ReservedForOverhead(t)

	return model.ClusterCapacityEstimate{
		ConsumedBySystem:     consumed,
		ReservedForOverhead:  reserved,
		AvailableToWorkloads: raw.Sub(consumed).Sub(reserved),
		Reasoning:            reasoning,
	}, nil
}
