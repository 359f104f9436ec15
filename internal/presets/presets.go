// Package presets provides built-in example topologies and workload instance
// types for quick estimates without input files.
package presets

import (
	"fmt"
	"sort"

	"github.com/vmsizer/vmsizer/internal/model"
)

// StandardWorkerNode is a typical virtualization worker: 256 GiB of memory
// and 128 logical cores.
func StandardWorkerNode() model.NodeTemplate {
	return model.NodeTemplate{
		Description: "Standard worker node",
		Resources:   model.NewResourceVector(256*model.GiB, 128),
	}
}

// Topologies returns the built-in example topologies by name.
func Topologies() map[string]model.ClusterTopology {
	return map[string]model.ClusterTopology{
		"3-node-compact": {
			Description:             "Compact cluster, workloads share the control plane",
			SchedulableControlPlane: true,
			ControlPlaneNodeCount:   3,
			WorkerNodeCount:         3,
			WorkerNode:              StandardWorkerNode(),
			CPUOverCommitRatio:      0.1,
		},
		"3-worker": {
			Description:           "Dedicated control plane with three workers",
			ControlPlaneNodeCount: 3,
			WorkerNodeCount:       3,
			WorkerNode:            StandardWorkerNode(),
			CPUOverCommitRatio:    0.1,
		},
		"3-worker-hci": {
			Description:           "Hyperconverged three-worker cluster with ODF storage",
			ControlPlaneNodeCount: 3,
			WorkerNodeCount:       3,
			WorkerNode:            StandardWorkerNode(),
			CPUOverCommitRatio:    0.1,
			HyperConverged:        true,
			StorageODF:            true,
		},
	}
}

// TopologyByName looks up a built-in topology.
func TopologyByName(name string) (model.ClusterTopology, error) {
	t, ok := Topologies()[name]
	if !ok {
		return model.ClusterTopology{}, fmt.Errorf("unknown topology preset %q (available: %v)", name, TopologyNames())
	}
	return t, nil
}

// TopologyNames returns the preset topology names, sorted.
func TopologyNames() []string {
	var names []string
	for n := range Topologies() {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// u1Instance builds one member of the u1 general-purpose series. Every
// instance pays the same fixed system tax for its management agent.
func u1Instance(size string, memoryBytes, cpus int64) model.InstanceType {
	return model.InstanceType{
		Name:                "u1." + size,
		Guest:               model.NewResourceVector(memoryBytes, cpus),
		ConsumedBySystem:    model.NewResourceVector(200*model.MiB, 1),
		ReservedForOverhead: model.ResourceVector{},
	}
}

// InstanceTypes returns the built-in u1 series.
func InstanceTypes() []model.InstanceType {
	return []model.InstanceType{
		u1Instance("small", 2*model.GiB, 4),
		u1Instance("medium", 4*model.GiB, 8),
		u1Instance("large", 8*model.GiB, 16),
		u1Instance("xlarge", 16*model.GiB, 32),
	}
}

// InstanceTypeByName looks up a built-in instance type.
func InstanceTypeByName(name string) (model.InstanceType, error) {
	for _, it := range InstanceTypes() {
		if it.Name == name {
			return it, nil
		}
	}
	var names []string
	for _, it := range InstanceTypes() {
		names = append(names, it.Name)
	}
	return model.InstanceType{}, fmt.Errorf("unknown instance type preset %q (available: %v)", name, names)
}
