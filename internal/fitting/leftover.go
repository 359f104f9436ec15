package fitting

import (
	"github.com/vmsizer/vmsizer/internal/model"
)

// LeftoverReport describes the capacity stranded after placing a number of
// instances: the remainder per dimension and how much of each dimension the
// placed instances consume.
type LeftoverReport struct {
	// Capacity remaining after count instances, per dimension.
	Stranded model.ResourceVector `json:"stranded"`

	// Consumed fraction per dimension (0.0 - 1.0), for dimensions with any
	// available capacity.
	Utilization map[model.Dimension]float64 `json:"utilization"`
}

// AnalyzeLeftover computes the stranded capacity when count instances of the
// given type are placed into available. The binding dimension ends up nearly
// exhausted while the others keep their remainders.
func AnalyzeLeftover(available model.ResourceVector, it model.InstanceType, count int64) LeftoverReport {
	used := it.Footprint().ScaleCount(count)
	report := LeftoverReport{
		Stranded:    available.Sub(used),
		Utilization: make(map[model.Dimension]float64),
	}

	for _, d := range model.CanonicalDimensions(available) {
		have := available.Get(d)
		if have <= 0 {
			continue
		}
		u := float64(used.Get(d)) / float64(have)
		if u > 1 {
			u = 1
		}
		report.Utilization[d] = u
	}
	return report
}
