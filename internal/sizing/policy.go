package sizing

import (
	"github.com/vmsizer/vmsizer/internal/model"
)

// ControlPlanePolicy decides which topology variants the sizing search may
// try, in preference order. The search runs the variants one after another
// and returns the first that satisfies the target, so earlier variants are
// preferred.
//
// The default, ExpandOnlyWhenExhausted, keeps the control plane dedicated
// and only makes it schedulable when the worker-only search exhausts the
// node bound.
type ControlPlanePolicy func(template model.ClusterTopology) []model.ClusterTopology

// ExpandOnlyWhenExhausted tries a dedicated control plane first and falls
// back to a schedulable control plane when the cluster has control-plane
// nodes to offer.
func ExpandOnlyWhenExhausted(template model.ClusterTopology) []model.ClusterTopology {
	dedicated := template
	dedicated.SchedulableControlPlane = false

	if template.ControlPlaneNodeCount == 0 {
		return []model.ClusterTopology{dedicated}
	}

	shared := template
	shared.SchedulableControlPlane = true
	return []model.ClusterTopology{dedicated, shared}
}

// NeverSchedulable keeps the control plane dedicated regardless of demand.
func NeverSchedulable(template model.ClusterTopology) []model.ClusterTopology {
	dedicated := template
	dedicated.SchedulableControlPlane = false
	return []model.ClusterTopology{dedicated}
}

// KeepTemplate sizes with the template's control-plane setting as given.
func KeepTemplate(template model.ClusterTopology) []model.ClusterTopology {
	return []model.ClusterTopology{template}
}

// PolicyByName resolves a policy from its configuration name. Unknown names
// fall back to the default.
func PolicyByName(name string) ControlPlanePolicy {
	switch name {
	case "never":
		return NeverSchedulable
	case "keep":
		return KeepTemplate
	default:
		return ExpandOnlyWhenExhausted
	}
}
