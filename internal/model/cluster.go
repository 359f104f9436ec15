package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTopology is returned when a topology violates its invariants
// (non-positive worker count, negative counts or ratios, empty worker
// template).
var ErrInvalidTopology = errors.New("invalid cluster topology")

// NodeTemplate describes the raw (total) resources of one physical or
// virtual node of a given role.
type NodeTemplate struct {
	Description string         `json:"description"`
	Resources   ResourceVector `json:"resources"`
}

// ClusterTopology describes a homogeneous on-premises cluster: a single
// worker pool plus a control plane that may or may not accept workloads.
type ClusterTopology struct {
	Description string `json:"description"`

	// Whether control-plane nodes also accept workloads. When true they
	// contribute capacity and incur the per-node system tax like workers.
	SchedulableControlPlane bool `json:"schedulable_control_plane"`

	ControlPlaneNodeCount int64        `json:"control_plane_node_count"`
	WorkerNodeCount       int64        `json:"worker_node_count"`
	WorkerNode            NodeTemplate `json:"worker_node"`

	// Dimensionless fraction of allowed logical CPU oversubscription.
	// Applied only to the CPU dimension of raw capacity; never to memory.
	CPUOverCommitRatio float64 `json:"cpu_over_commit_ratio"`

	// Feature flags consumed by the reasoning rule set.
	HyperConverged bool `json:"hyperconverged,omitempty"`
	StorageODF     bool `json:"storage_odf,omitempty"`
}

// Validate checks the topology invariants.
func (t ClusterTopology) Validate() error {
	if t.WorkerNodeCount < 1 {
		return fmt.Errorf("%w: worker node count must be >= 1, got %d", ErrInvalidTopology, t.WorkerNodeCount)
	}
	if t.ControlPlaneNodeCount < 0 {
		return fmt.Errorf("%w: control plane node count must be >= 0, got %d", ErrInvalidTopology, t.ControlPlaneNodeCount)
	}
	if t.CPUOverCommitRatio < 0 {
		return fmt.Errorf("%w: cpu over-commit ratio must be >= 0, got %v", ErrInvalidTopology, t.CPUOverCommitRatio)
	}
	if t.WorkerNode.Resources.IsZero() {
		return fmt.Errorf("%w: worker node template has no resources", ErrInvalidTopology)
	}
	if t.SchedulableControlPlane && t.ControlPlaneNodeCount == 0 {
		return fmt.Errorf("%w: schedulable control plane with zero control plane nodes", ErrInvalidTopology)
	}
	return nil
}

// ContributingNodeCount returns the number of nodes that contribute workload
// capacity and incur the per-node system tax: workers, plus control-plane
// nodes when they are schedulable.
func (t ClusterTopology) ContributingNodeCount() int64 {
	if t.SchedulableControlPlane {
		return t.WorkerNodeCount + t.ControlPlaneNodeCount
	}
	return t.WorkerNodeCount
}

// WithWorkerCount returns a copy of the topology with a different worker node
// count. Used by the inverse sizing search.
func (t ClusterTopology) WithWorkerCount(n int64) ClusterTopology {
	t.WorkerNodeCount = n
	return t
}
