package model

// ClusterCapacityEstimate is the output of the capacity estimator: the
// cluster-wide system tax, the reserved headroom, and what remains for guest
// use, plus the advisory reasoning strings in rule evaluation order.
type ClusterCapacityEstimate struct {
	ConsumedBySystem     ResourceVector `json:"consumed_by_system"`
	ReservedForOverhead  ResourceVector `json:"reserved_for_overhead"`
	AvailableToWorkloads ResourceVector `json:"available_to_workloads"`
	Reasoning            []string       `json:"reasoning"`
}

// FitResult reports how many instances fit into an available capacity and
// which resource dimension determined that count.
type FitResult struct {
	// Maximum number of instances that fit.
	Count int64 `json:"count"`

	// The dimension whose capacity/footprint ratio was smallest. Ties are
	// broken by canonical dimension order (memory before cpus).
	BindingDimension Dimension `json:"binding_dimension"`

	// Per-dimension fit counts for every dimension the footprint constrains.
	PerDimension map[Dimension]int64 `json:"per_dimension,omitempty"`
}

// SizingOutcome is the result of an inverse sizing run: the minimal topology
// found, the estimate computed for it, and the fit of the target instance
// type into that estimate.
type SizingOutcome struct {
	TargetCount int64                   `json:"target_count"`
	Topology    ClusterTopology         `json:"topology"`
	Estimate    ClusterCapacityEstimate `json:"estimate"`
	Fit         FitResult               `json:"fit"`
}
