package capacity

import (
	"github.com/vmsizer/vmsizer/internal/model"
)

// OverheadProfile holds the numeric constants of the overhead model: the
// fixed system tax every contributing node pays and the fixed buffer
// reserved once per cluster. Profiles come from the built-in defaults, from
// configuration, or from live measurement (internal/metrics).
type OverheadProfile struct {
	// Resources consumed by platform components on each contributing node.
	NodeSystemTax model.ResourceVector `json:"node_system_tax"`

	// Headroom reserved once per cluster, independent of node count.
	ClusterBuffer model.ResourceVector `json:"cluster_buffer"`
}

// DefaultOverheadProfile returns the base overhead model for a plain
// (non-hyperconverged) cluster. Reasoning rules adjust it for topology
// features; see DefaultRules.
func DefaultOverheadProfile() OverheadProfile {
	return OverheadProfile{
		NodeSystemTax: model.NewResourceVector(5*model.GiB, 2),
		ClusterBuffer: model.ResourceVector{},
	}
}

// Calculator computes per-cluster resource deductions and inflations for a
// topology under a given overhead profile.
type Calculator struct {
	Profile OverheadProfile
}

// RawCapacity returns the total capacity of all contributing nodes with the
// CPU over-commit inflation applied. Over-commit scales apparent CPU supply
// by (1 + ratio), flooring the result; it never applies to memory.
func (c Calculator) RawCapacity(t model.ClusterTopology) model.ResourceVector {
	raw := t.WorkerNode.Resources.ScaleCount(t.ContributingNodeCount())
	if t.CPUOverCommitRatio != 0 {
		raw = raw.ScaleDimension(model.DimCPUs, 1+t.CPUOverCommitRatio)
	}
	return raw
}

// ConsumedBySystem returns the cluster-wide platform tax: the per-node
// system tax scaled by the number of contributing nodes.
func (c Calculator) ConsumedBySystem(t model.ClusterTopology) model.ResourceVector {
	return c.Profile.NodeSystemTax.ScaleCount(t.ContributingNodeCount())
}

// ReservedForOverhead returns the per-cluster reserved buffer.
func (c Calculator) ReservedForOverhead(t model.ClusterTopology) model.ResourceVector {
	return c.Profile.ClusterBuffer.Clone()
}
