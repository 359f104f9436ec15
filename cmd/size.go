package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vmsizer/vmsizer/internal/orchestrator"
	"github.com/vmsizer/vmsizer/internal/report"
)

var sizeCmd = &cobra.Command{
	Use:   "size",
	Short: "Derive the minimal topology for a target instance count",
	Long: `Searches for the smallest worker node count whose capacity estimate fits
the target number of instances. The topology flags supply the template:
node resources, control plane count and over-commit ratio. The search is
bounded; a target that cannot be met within the bound is reported as
infeasible.`,
	RunE: runSize,
}

func init() {
	addTopologyFlags(sizeCmd)
	f := sizeCmd.Flags()
	f.Int64("count", 0, "target instance count (required)")
	f.String("instance-type", "", "built-in instance type preset (default: u1.medium)")
	f.String("instance-file", "", "path to an instance type JSON file")
	f.Int64("max-workers", 0, "override the worker node search bound")
	f.String("policy", "", "control plane policy: expand-when-exhausted, never, keep")
	f.String("output-file", "", "write output to file")

	_ = sizeCmd.MarkFlagRequired("count")
	rootCmd.AddCommand(sizeCmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	template, err := resolveTopology(cmd)
	if err != nil {
		return err
	}
	instanceType, err := resolveInstanceType(cmd)
	if err != nil {
		return err
	}
	count, _ := cmd.Flags().GetInt64("count")

	if n, _ := cmd.Flags().GetInt64("max-workers"); cmd.Flags().Changed("max-workers") {
		cfg.Sizing.MaxWorkerNodes = n
	}
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		cfg.Sizing.ControlPlanePolicy = p
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	orch, err := orchestrator.New(cfg)
	if err != nil {
		return err
	}

	rep, err := orch.Size(ctx, count, instanceType, template)
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
