package capacity

import (
	"github.com/vmsizer/vmsizer/internal/model"
)

// Rule couples a topology feature flag to an advisory annotation and,
// optionally, an explicit adjustment of the overhead profile. Rules are
// evaluated in slice order; every matching rule appends its annotation, so
// the reasoning list order is reproducible.
type Rule struct {
	Name       string
	Applies    func(model.ClusterTopology) bool
	Annotation string

	// Adjust transforms the overhead profile. Nil for annotation-only
	// rules. The adjustment is part of the rule, not hidden in the base
	// calculator, so each numeric coupling is visible here.
	Adjust func(OverheadProfile) OverheadProfile
}

// DefaultRules returns the built-in reasoning rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "schedulable-control-plane",
			Applies: func(t model.ClusterTopology) bool {
				return t.SchedulableControlPlane
			},
			Annotation: "More capacity due to schedulable control plane nodes",
			// No numeric adjustment: the contributing node count already
			// includes schedulable control-plane nodes.
		},
		{
			Name: "hyperconverged-system-consumption",
			Applies: func(t model.ClusterTopology) bool {
				return t.HyperConverged
			},
			Annotation: "HyperConverged clusters have an increased amount of system resource consumption.",
			Adjust: func(p OverheadProfile) OverheadProfile {
				// A measured or configured tax already reflects the
				// cluster's actual consumption; the fallback constants
				// raise only the built-in default.
				if !p.NodeSystemTax.Equal(DefaultOverheadProfile().NodeSystemTax) {
					return p
				}
				// Observed via
				// sum by (resource) (kube_pod_container_resource_requests{namespace=~"openshift-.*",resource=~"cpu|memory"})
				//   / count(kube_node_info)
				p.NodeSystemTax = model.NewResourceVector(20*model.GiB, 8)
				return p
			},
		},
		{
			Name: "odf-buffers",
			Applies: func(t model.ClusterTopology) bool {
				return t.StorageODF
			},
			Annotation: "The use of ODF benefits from larger buffers.",
			Adjust: func(p OverheadProfile) OverheadProfile {
				// A measured buffer already includes reclaimable memory;
				// adding the constant on top would count it twice.
				if !p.ClusterBuffer.IsZero() {
					return p
				}
				// avg(sum by (instance) (node_memory_SReclaimable_bytes + node_memory_KReclaimable_bytes))
				p.ClusterBuffer = model.ResourceVector{model.DimMemory: 5 * model.GiB}
				return p
			},
		},
	}
}
