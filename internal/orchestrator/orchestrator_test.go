package orchestrator

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vmsizer/vmsizer/internal/config"
	"github.com/vmsizer/vmsizer/internal/model"
	"github.com/vmsizer/vmsizer/internal/presets"
)

func newTestOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o, err := New(config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	o.Writer = &bytes.Buffer{}
	return o
}

func TestEstimate_HCIPreset(t *testing.T) {
	o := newTestOrchestrator(t)
	topo, err := presets.TopologyByName("3-worker-hci")
	if err != nil {
		t.Fatal(err)
	}

	rep, err := o.Estimate(context.Background(), topo)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}

	if got := rep.Estimate.AvailableToWorkloads.Get(model.DimMemory); got != 703*model.GiB {
		t.Errorf("available memory: got %d, want %d", got, 703*model.GiB)
	}
	if got := rep.Estimate.AvailableToWorkloads.Get(model.DimCPUs); got != 398 {
		t.Errorf("available cpus: got %d, want 398", got)
	}
	if len(rep.Estimate.Reasoning) != 2 {
		t.Errorf("expected hyperconverged and ODF reasoning, got %v", rep.Estimate.Reasoning)
	}
	if rep.Fit != nil || rep.Sizing != nil {
		t.Error("estimate-only report must not carry fit or sizing sections")
	}
}

func TestFit_MediumInstances(t *testing.T) {
	o := newTestOrchestrator(t)
	topo, err := presets.TopologyByName("3-worker-hci")
	if err != nil {
		t.Fatal(err)
	}
	it, err := presets.InstanceTypeByName("u1.medium")
	if err != nil {
		t.Fatal(err)
	}

	rep, err := o.Fit(context.Background(), topo, model.Workload{InstanceType: it, VMCount: 10})
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if rep.Fit == nil {
		t.Fatal("fit section missing")
	}
	// 398 available cpus / 9 per instance
	if rep.Fit.Count != 44 {
		t.Errorf("fit count: got %d, want 44", rep.Fit.Count)
	}
	if rep.Fit.BindingDimension != model.DimCPUs {
		t.Errorf("binding dimension: got %q, want cpus", rep.Fit.BindingDimension)
	}
	if rep.Required.Get(model.DimMemory) != 40*model.GiB {
		t.Errorf("required memory: got %d, want %d", rep.Required.Get(model.DimMemory), 40*model.GiB)
	}
	if rep.Headroom[model.DimCPUs] != 398-80 {
		t.Errorf("cpu headroom: got %d, want %d", rep.Headroom[model.DimCPUs], 398-80)
	}
	if rep.Leftover == nil {
		t.Error("leftover section missing")
	}
}

func TestSize_FindsMinimalTopology(t *testing.T) {
	o := newTestOrchestrator(t)
	template, err := presets.TopologyByName("3-worker")
	if err != nil {
		t.Fatal(err)
	}
	it, err := presets.InstanceTypeByName("u1.medium")
	if err != nil {
		t.Fatal(err)
	}

	rep, err := o.Size(context.Background(), 40, it, template)
	if err != nil {
		t.Fatalf("Size: %v", err)
	}

	if rep.Sizing == nil {
		t.Fatal("sizing section missing")
	}
	// per worker: floor(128 * 1.1) cpus raw minus 2 tax leaves ~138/9 ≈ 15
	// instances; 3 workers give 46, 2 workers only 30.
	if rep.Sizing.Topology.WorkerNodeCount != 3 {
		t.Errorf("workers: got %d, want 3", rep.Sizing.Topology.WorkerNodeCount)
	}
	if rep.Sizing.Fit.Count < 40 {
		t.Errorf("fit on result %d does not cover target", rep.Sizing.Fit.Count)
	}

	progress := o.Writer.(*bytes.Buffer).String()
	if !strings.Contains(progress, "u1.medium") {
		t.Errorf("progress output missing instance type: %q", progress)
	}
}

func TestNew_MeasuredProfileOverridesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measured.json")
	content := `{"node_system_tax": {"memory": "1Gi", "cpus": 1}, "cluster_buffer": {}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Overhead.ProfileFile = path

	o, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if got := o.Estimator.Profile.NodeSystemTax.Get(model.DimMemory); got != model.GiB {
		t.Errorf("tax memory: got %d, want %d", got, model.GiB)
	}
	if got := o.Estimator.Profile.NodeSystemTax.Get(model.DimCPUs); got != 1 {
		t.Errorf("tax cpus: got %d, want 1", got)
	}
}

func TestNew_ProgressGoesToStderr(t *testing.T) {
	o, err := New(config.Default())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// stdout carries reports, possibly machine-readable JSON
	if o.Writer != os.Stderr {
		t.Error("progress output must default to stderr")
	}
}

func TestNew_MissingProfileFile(t *testing.T) {
	cfg := config.Default()
	cfg.Overhead.ProfileFile = filepath.Join(t.TempDir(), "nope.json")

	if _, err := New(cfg); err == nil {
		t.Error("expected error for missing profile file")
	}
}
