package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vmsizer/vmsizer/internal/model"
	"github.com/vmsizer/vmsizer/internal/presets"
)

// resolveTopology loads the cluster topology from --topology (a JSON file,
// e.g. one written by 'vmsizer inspect --output json') or from --preset,
// then applies flag overrides.
func resolveTopology(cmd *cobra.Command) (model.ClusterTopology, error) {
	var topology model.ClusterTopology

	path, _ := cmd.Flags().GetString("topology")
	preset, _ := cmd.Flags().GetString("preset")

	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return model.ClusterTopology{}, fmt.Errorf("reading topology file: %w", err)
		}
		if err := json.Unmarshal(data, &topology); err != nil {
			return model.ClusterTopology{}, fmt.Errorf("parsing topology file: %w", err)
		}
	default:
		if preset == "" {
			preset = "3-worker-hci"
		}
		t, err := presets.TopologyByName(preset)
		if err != nil {
			return model.ClusterTopology{}, err
		}
		topology = t
	}

	if cmd.Flags().Changed("workers") {
		n, _ := cmd.Flags().GetInt64("workers")
		topology.WorkerNodeCount = n
	}
	if cmd.Flags().Changed("over-commit") {
		r, _ := cmd.Flags().GetFloat64("over-commit")
		topology.CPUOverCommitRatio = r
	}
	if cmd.Flags().Changed("schedulable-control-plane") {
		s, _ := cmd.Flags().GetBool("schedulable-control-plane")
		topology.SchedulableControlPlane = s
	}

	return topology, topology.Validate()
}

// resolveInstanceType loads the instance type from --instance-file (JSON) or
// looks up the --instance-type preset.
func resolveInstanceType(cmd *cobra.Command) (model.InstanceType, error) {
	if path, _ := cmd.Flags().GetString("instance-file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return model.InstanceType{}, fmt.Errorf("reading instance type file: %w", err)
		}
		var it model.InstanceType
		if err := json.Unmarshal(data, &it); err != nil {
			return model.InstanceType{}, fmt.Errorf("parsing instance type file: %w", err)
		}
		return it, nil
	}

	name, _ := cmd.Flags().GetString("instance-type")
	if name == "" {
		name = "u1.medium"
	}
	return presets.InstanceTypeByName(name)
}

// addTopologyFlags registers the topology input flags shared by the
// estimate, fit and size commands.
func addTopologyFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("topology", "", "path to a topology JSON file")
	f.String("preset", "", "built-in topology preset (default: 3-worker-hci)")
	f.Int64("workers", 0, "override the worker node count")
	f.Float64("over-commit", 0, "override the CPU over-commit ratio")
	f.Bool("schedulable-control-plane", false, "override control plane schedulability")
}

// outputWriter resolves the report destination from --output-file.
func outputWriter(cmd *cobra.Command) (*os.File, func(), error) {
	path, _ := cmd.Flags().GetString("output-file")
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
