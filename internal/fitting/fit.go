package fitting

import (
	"errors"
	"fmt"

	"github.com/vmsizer/vmsizer/internal/model"
)

// ErrDegenerateInstance is returned when an instance type has a zero
// footprint in every dimension. Such an instance would fit an unbounded
// number of times; we report the ambiguity explicitly rather than returning
// zero or infinity.
var ErrDegenerateInstance = errors.New("instance type has an empty footprint")

// Fit computes how many instances of the given type fit into the available
// capacity. For every dimension the footprint constrains (positive
// quantity), the per-dimension count is floor(available / footprint); the
// overall count is the minimum, and the binding dimension is the first
// dimension in canonical order achieving it. A dimension the instance needs
// nothing of never constrains the fit.
func Fit(available model.ResourceVector, it model.InstanceType) (model.FitResult, error) {
	footprint := it.Footprint()
	counts := available.Ratio(footprint)
	if len(counts) == 0 {
		return model.FitResult{}, fmt.Errorf("fitting %q: %w", it.Name, ErrDegenerateInstance)
	}

	result := model.FitResult{PerDimension: counts}
	first := true
	for _, d := range model.CanonicalDimensions(footprint) {
		c, ok := counts[d]
		if !ok {
			continue
		}
		if first || c < result.Count {
			result.Count = c
			result.BindingDimension = d
			first = false
		}
	}
	return result, nil
}

// Satisfies reports whether the workload's full instance count fits into the
// available capacity.
func Satisfies(available model.ResourceVector, w model.Workload) (bool, error) {
	fit, err := Fit(available, w.InstanceType)
	if err != nil {
		return false, err
	}
	return w.VMCount <= fit.Count, nil
}
