package capacity

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vmsizer/vmsizer/internal/model"
)

func plainTopology() model.ClusterTopology {
	return model.ClusterTopology{
		Description:           "3 workers, dedicated control plane",
		ControlPlaneNodeCount: 3,
		WorkerNodeCount:       3,
		WorkerNode: model.NodeTemplate{
			Description: "standard worker",
			Resources:   model.NewResourceVector(256*model.GiB, 128),
		},
		CPUOverCommitRatio: 0.1,
	}
}

func TestEstimate_PlainCluster(t *testing.T) {
	est, err := NewEstimator().Estimate(plainTopology())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// raw cpus: 3 * 128 * 1.1 = 422 (floored), minus 3 * 2 tax
	if got := est.AvailableToWorkloads.Get(model.DimCPUs); got != 416 {
		t.Errorf("available cpus: got %d, want 416", got)
	}
	// raw memory: 768 GiB minus 3 * 5 GiB tax
	if got := est.AvailableToWorkloads.Get(model.DimMemory); got != 753*model.GiB {
		t.Errorf("available memory: got %d, want %d", got, 753*model.GiB)
	}
	if got := est.ConsumedBySystem.Get(model.DimMemory); got != 15*model.GiB {
		t.Errorf("consumed memory: got %d, want %d", got, 15*model.GiB)
	}
	if len(est.Reasoning) != 0 {
		t.Errorf("plain cluster must produce no reasoning, got %v", est.Reasoning)
	}
}

func TestEstimate_HyperConvergedODF(t *testing.T) {
	topo := plainTopology()
	topo.HyperConverged = true
	topo.StorageODF = true

	est, err := NewEstimator().Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// hyperconverged tax is 20 GiB / 8 cpus per node, ODF adds a 5 GiB buffer
	if got := est.ConsumedBySystem.Get(model.DimMemory); got != 60*model.GiB {
		t.Errorf("consumed memory: got %d, want %d", got, 60*model.GiB)
	}
	if got := est.ConsumedBySystem.Get(model.DimCPUs); got != 24 {
		t.Errorf("consumed cpus: got %d, want 24", got)
	}
	if got := est.ReservedForOverhead.Get(model.DimMemory); got != 5*model.GiB {
		t.Errorf("reserved memory: got %d, want %d", got, 5*model.GiB)
	}
	if got := est.AvailableToWorkloads.Get(model.DimMemory); got != 703*model.GiB {
		t.Errorf("available memory: got %d, want %d", got, 703*model.GiB)
	}
	if got := est.AvailableToWorkloads.Get(model.DimCPUs); got != 398 {
		t.Errorf("available cpus: got %d, want 398", got)
	}

	wantReasoning := []string{
		"HyperConverged clusters have an increased amount of system resource consumption.",
		"The use of ODF benefits from larger buffers.",
	}
	if !reflect.DeepEqual(est.Reasoning, wantReasoning) {
		t.Errorf("reasoning:\n got %v\nwant %v", est.Reasoning, wantReasoning)
	}
}

func TestEstimate_SchedulableControlPlane(t *testing.T) {
	topo := plainTopology()
	topo.SchedulableControlPlane = true

	est, err := NewEstimator().Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 6 contributing nodes: raw cpus 6 * 128 * 1.1 = 844, tax 6 * 2
	if got := est.AvailableToWorkloads.Get(model.DimCPUs); got != 832 {
		t.Errorf("available cpus: got %d, want 832", got)
	}
	if got := est.ConsumedBySystem.Get(model.DimMemory); got != 30*model.GiB {
		t.Errorf("consumed memory: got %d, want %d", got, 30*model.GiB)
	}
	if len(est.Reasoning) != 1 || est.Reasoning[0] != "More capacity due to schedulable control plane nodes" {
		t.Errorf("unexpected reasoning: %v", est.Reasoning)
	}
}

func TestEstimate_Idempotent(t *testing.T) {
	e := NewEstimator()
	topo := plainTopology()
	topo.HyperConverged = true
	topo.StorageODF = true

	first, err := e.Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := e.Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated estimates differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestEstimate_OverheadExceedsCapacity(t *testing.T) {
	topo := model.ClusterTopology{
		WorkerNodeCount: 1,
		WorkerNode: model.NodeTemplate{
			Resources: model.NewResourceVector(1*model.GiB, 1),
		},
		HyperConverged: true,
	}

	est, err := NewEstimator().Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the tax dwarfs the node; available must clamp at zero, not go negative
	if got := est.AvailableToWorkloads.Get(model.DimMemory); got != 0 {
		t.Errorf("available memory: got %d, want 0", got)
	}
	if got := est.AvailableToWorkloads.Get(model.DimCPUs); got != 0 {
		t.Errorf("available cpus: got %d, want 0", got)
	}
}

func TestEstimate_ZeroOverCommitIsIdentity(t *testing.T) {
	topo := plainTopology()
	topo.CPUOverCommitRatio = 0

	est, err := NewEstimator().Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 3 * 128 - 3 * 2, no inflation
	if got := est.AvailableToWorkloads.Get(model.DimCPUs); got != 378 {
		t.Errorf("available cpus: got %d, want 378", got)
	}
}

func TestEstimate_InvalidTopology(t *testing.T) {
	topo := plainTopology()
	topo.WorkerNodeCount = 0

	_, err := NewEstimator().Estimate(topo)
	if !errors.Is(err, model.ErrInvalidTopology) {
		t.Errorf("got %v, want ErrInvalidTopology", err)
	}
}

func TestEstimate_MeasuredProfile(t *testing.T) {
	measured := OverheadProfile{
		NodeSystemTax: model.NewResourceVector(2*model.GiB, 1),
		ClusterBuffer: model.ResourceVector{model.DimMemory: 1 * model.GiB},
	}

	topo := plainTopology()
	topo.CPUOverCommitRatio = 0

	est, err := NewEstimatorWithProfile(measured).Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 768 - 3*2 - 1
	if got := est.AvailableToWorkloads.Get(model.DimMemory); got != 761*model.GiB {
		t.Errorf("available memory: got %d, want %d", got, 761*model.GiB)
	}
	if got := est.AvailableToWorkloads.Get(model.DimCPUs); got != 381 {
		t.Errorf("available cpus: got %d, want 381", got)
	}
}

func TestEstimate_MeasuredProfileSurvivesRules(t *testing.T) {
	measured := OverheadProfile{
		NodeSystemTax: model.NewResourceVector(2*model.GiB, 1),
		ClusterBuffer: model.ResourceVector{model.DimMemory: 1 * model.GiB},
	}

	topo := plainTopology()
	topo.CPUOverCommitRatio = 0
	topo.HyperConverged = true
	topo.StorageODF = true

	est, err := NewEstimatorWithProfile(measured).Estimate(topo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the rules annotate but keep the measured values: tax stays 2 GiB / 1
	// cpu per node and the buffer is not raised on top of the measurement
	if got := est.ConsumedBySystem.Get(model.DimMemory); got != 6*model.GiB {
		t.Errorf("consumed memory: got %d, want %d", got, 6*model.GiB)
	}
	if got := est.ConsumedBySystem.Get(model.DimCPUs); got != 3 {
		t.Errorf("consumed cpus: got %d, want 3", got)
	}
	if got := est.ReservedForOverhead.Get(model.DimMemory); got != 1*model.GiB {
		t.Errorf("reserved memory: got %d, want %d", got, 1*model.GiB)
	}
	if got := est.AvailableToWorkloads.Get(model.DimMemory); got != 761*model.GiB {
		t.Errorf("available memory: got %d, want %d", got, 761*model.GiB)
	}
	if len(est.Reasoning) != 2 {
		t.Errorf("annotations must still apply, got %v", est.Reasoning)
	}
}
