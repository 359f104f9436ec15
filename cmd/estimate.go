package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vmsizer/vmsizer/internal/orchestrator"
	"github.com/vmsizer/vmsizer/internal/report"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the workload-available capacity of a topology",
	Long: `Computes the cluster-wide capacity available to workloads for a topology,
deducting system consumption and reserved overhead and applying CPU
over-commit, together with the reasoning behind the numbers.`,
	RunE: runEstimate,
}

func init() {
	addTopologyFlags(estimateCmd)
	estimateCmd.Flags().String("output-file", "", "write output to file")
	rootCmd.AddCommand(estimateCmd)
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	topology, err := resolveTopology(cmd)
	if err != nil {
		return err
	}

	orch, err := orchestrator.New(cfg)
	if err != nil {
		return err
	}

	rep, err := orch.Estimate(ctx, topology)
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	return report.NewReporter(cfg.Output.Format, w).Report(ctx, rep)
}
