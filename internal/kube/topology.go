package kube

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/vmsizer/vmsizer/internal/model"
)

// Node role and storage labels used to classify discovered nodes.
const (
	labelControlPlane = "node-role.kubernetes.io/control-plane"
	labelMaster       = "node-role.kubernetes.io/master"
	labelODFStorage   = "cluster.ocs.openshift.io/openshift-storage"
)

// TopologyOptions configures live topology discovery.
type TopologyOptions struct {
	// CPU over-commit ratio is not discoverable from the API; callers
	// supply the intended value for the resulting topology.
	CPUOverCommitRatio float64
}

// DiscoverTopology builds a ClusterTopology from a live cluster: it counts
// control-plane and worker nodes from node-role labels, detects whether the
// control plane is schedulable from taints, and derives the homogeneous
// worker template from node capacity. With heterogeneous workers the
// smallest node is used, keeping the estimate conservative.
func DiscoverTopology(ctx context.Context, client kubernetes.Interface, opts TopologyOptions) (model.ClusterTopology, error) {
	nodes, err := client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return model.ClusterTopology{}, fmt.Errorf("listing nodes: %w", err)
	}
	if len(nodes.Items) == 0 {
		return model.ClusterTopology{}, fmt.Errorf("cluster has no nodes")
	}

	topology := model.ClusterTopology{
		Description:        "Discovered cluster topology",
		CPUOverCommitRatio: opts.CPUOverCommitRatio,
	}

	var worker *model.NodeTemplate
	schedulableControlPlane := false

	for i := range nodes.Items {
		node := &nodes.Items[i]

		if node.Labels[labelODFStorage] != "" {
			topology.StorageODF = true
			topology.HyperConverged = true
		}

		if isControlPlane(node) {
			topology.ControlPlaneNodeCount++
			if !hasControlPlaneTaint(node) {
				schedulableControlPlane = true
			}
			continue
		}

		topology.WorkerNodeCount++
		capacity := nodeCapacity(node)
		if worker == nil || capacity.Resources.Get(model.DimMemory) < worker.Resources.Get(model.DimMemory) {
			worker = &capacity
		}
	}

	if worker == nil {
		if !schedulableControlPlane {
			return model.ClusterTopology{}, fmt.Errorf("cluster has no worker nodes and no schedulable control plane")
		}
		// Compact cluster: the control plane is the worker pool.
		cp := nodeCapacity(&nodes.Items[0])
		worker = &cp
		topology.WorkerNodeCount = topology.ControlPlaneNodeCount
		topology.ControlPlaneNodeCount = 0
	}

	topology.SchedulableControlPlane = schedulableControlPlane && topology.ControlPlaneNodeCount > 0
	topology.WorkerNode = *worker

	return topology, nil
}

func isControlPlane(node *corev1.Node) bool {
	_, cp := node.Labels[labelControlPlane]
	_, master := node.Labels[labelMaster]
	return cp || master
}

func hasControlPlaneTaint(node *corev1.Node) bool {
	for _, taint := range node.Spec.Taints {
		if taint.Key == labelControlPlane || taint.Key == labelMaster {
			if taint.Effect == corev1.TaintEffectNoSchedule || taint.Effect == corev1.TaintEffectNoExecute {
				return true
			}
		}
	}
	return false
}

func nodeCapacity(node *corev1.Node) model.NodeTemplate {
	memory := node.Status.Capacity.Memory().Value()
	cpus := node.Status.Capacity.Cpu().Value()
	return model.NodeTemplate{
		Description: node.Name,
		Resources:   model.NewResourceVector(memory, cpus),
	}
}
