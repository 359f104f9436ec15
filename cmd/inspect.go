package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmsizer/vmsizer/internal/kube"
	"github.com/vmsizer/vmsizer/internal/model"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Discover the topology of a live Kubernetes cluster",
	Long: `Connects to the cluster, classifies nodes into control plane and workers,
detects control plane schedulability and ODF storage, and prints the
resulting topology. The JSON output can be fed to the other commands via
--topology.`,
	RunE: runInspect,
}

func init() {
	f := inspectCmd.Flags()
	f.Float64("over-commit", 0, "CPU over-commit ratio to record in the topology")
	f.String("output-file", "", "write output to file")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	client, _, kubeContext, _, err := kube.NewClient(cfg.Kubernetes.Kubeconfig, cfg.Kubernetes.Context)
	if err != nil {
		return fmt.Errorf("connecting to Kubernetes: %w", err)
	}

	if cfg.Cluster.Name == "" && kubeContext != "" {
		cfg.Cluster.Name = kubeContext
	}

	ratio, _ := cmd.Flags().GetFloat64("over-commit")
	topology, err := kube.DiscoverTopology(ctx, client, kube.TopologyOptions{
		CPUOverCommitRatio: ratio,
	})
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if cfg.Output.Format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(topology)
	}

	fmt.Fprintf(w, "Cluster: %s\n", cfg.Cluster.Name)
	fmt.Fprintf(w, "Control plane nodes:       %d (schedulable: %v)\n",
		topology.ControlPlaneNodeCount, topology.SchedulableControlPlane)
	fmt.Fprintf(w, "Worker nodes:              %d\n", topology.WorkerNodeCount)
	fmt.Fprintf(w, "Worker template:           %s\n", topology.WorkerNode.Description)
	fmt.Fprintf(w, "  memory: %d bytes\n", topology.WorkerNode.Resources.Get(model.DimMemory))
	fmt.Fprintf(w, "  cpus:   %d\n", topology.WorkerNode.Resources.Get(model.DimCPUs))
	fmt.Fprintf(w, "Hyperconverged / ODF:      %v / %v\n", topology.HyperConverged, topology.StorageODF)

	return nil
}
