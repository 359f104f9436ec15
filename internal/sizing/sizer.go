package sizing

import (
	"errors"
	"fmt"

	"github.com/vmsizer/vmsizer/internal/capacity"
	"github.com/vmsizer/vmsizer/internal/fitting"
	"github.com/vmsizer/vmsizer/internal/model"
)

// ErrInfeasible is returned when no worker node count within the search
// bound satisfies the target. The search fails closed instead of growing the
// cluster without limit.
var ErrInfeasible = errors.New("target does not fit within the bounded topology search")

// DefaultMaxWorkerNodes bounds the inverse sizing search.
const DefaultMaxWorkerNodes int64 = 1024

// Sizer derives the minimal cluster topology for a target instance count.
// Because the per-node system tax scales with node count, this is not a
// closed-form division: each candidate worker count re-runs the estimator
// and the fitting engine. Fit count is non-decreasing in worker count, so a
// binary search over [1, MaxWorkerNodes] finds the smallest satisfying
// count.
type Sizer struct {
	Estimator      *capacity.Estimator
	MaxWorkerNodes int64
	Policy         ControlPlanePolicy
}

// NewSizer returns a sizer with the default bound and control-plane policy.
func NewSizer(est *capacity.Estimator) *Sizer {
	return &Sizer{
		Estimator:      est,
		MaxWorkerNodes: DefaultMaxWorkerNodes,
		Policy:         ExpandOnlyWhenExhausted,
	}
}

// SizeFor returns the minimal topology (derived from the template) on which
// target instances of the given type fit. The template supplies everything
// but the worker count: node template, control-plane count, over-commit
// ratio, and feature flags.
func (s *Sizer) SizeFor(target int64, it model.InstanceType, template model.ClusterTopology) (model.SizingOutcome, error) {
	if target < 1 {
		return model.SizingOutcome{}, fmt.Errorf("target instance count must be >= 1, got %d", target)
	}
	if err := template.WithWorkerCount(1).Validate(); err != nil {
		return model.SizingOutcome{}, err
	}

	bound := s.MaxWorkerNodes
	if bound < 1 {
		bound = DefaultMaxWorkerNodes
	}
	policy := s.Policy
	if policy == nil {
		policy = ExpandOnlyWhenExhausted
	}

	for _, candidate := range policy(template) {
		outcome, ok, err := s.search(target, it, candidate, bound)
		if err != nil {
			return model.SizingOutcome{}, err
		}
		if ok {
			return outcome, nil
		}
	}

	return model.SizingOutcome{}, fmt.Errorf("%w: %d x %s with up to %d workers",
		ErrInfeasible, target, it.Name, bound)
}

// search finds the smallest worker count in [1, bound] whose estimate fits
// the target, exploiting monotonicity of the fit count.
func (s *Sizer) search(target int64, it model.InstanceType, t model.ClusterTopology, bound int64) (model.SizingOutcome, bool, error) {
	feasible := func(workers int64) (bool, error) {
		est, err := s.Estimator.Estimate(t.WithWorkerCount(workers))
		if err != nil {
			return false, err
		}
		fit, err := fitting.Fit(est.AvailableToWorkloads, it)
		if err != nil {
			return false, err
		}
		return fit.Count >= target, nil
	}

	// Fail fast when even the bound cannot satisfy the target.
	ok, err := feasible(bound)
	if err != nil || !ok {
		return model.SizingOutcome{}, false, err
	}

	lo, hi := int64(1), bound
	for lo < hi {
		mid := lo + (hi-lo)/2
		ok, err := feasible(mid)
		if err != nil {
			return model.SizingOutcome{}, false, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	result := t.WithWorkerCount(lo)
	est, err := s.Estimator.Estimate(result)
	if err != nil {
		return model.SizingOutcome{}, false, err
	}
	fit, err := fitting.Fit(est.AvailableToWorkloads, it)
	if err != nil {
		return model.SizingOutcome{}, false, err
	}

	return model.SizingOutcome{
		TargetCount: target,
		Topology:    result,
		Estimate:    est,
		Fit:         fit,
	}, true, nil
}
