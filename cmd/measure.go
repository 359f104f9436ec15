package cmd

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/vmsizer/vmsizer/internal/metrics"
)

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Measure the overhead profile of a running cluster",
	Long: `Queries Prometheus for the observed system consumption of platform
namespaces and the reclaimable kernel memory, and emits an overhead
profile JSON. The profile can be fed to the other commands via
--overhead-profile so estimates use measured values instead of the
built-in defaults.`,
	RunE: runMeasure,
}

func init() {
	f := measureCmd.Flags()
	f.String("system-namespaces", metrics.DefaultSystemNamespacePattern,
		"regex matching platform namespaces")
	f.BoolP("discover", "d", false, "auto-discover Prometheus in the Kubernetes cluster")
	f.String("output-file", "", "write output to file")
	rootCmd.AddCommand(measureCmd)
}

func runMeasure(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	discover, _ := cmd.Flags().GetBool("discover")
	collector, cleanup, err := resolveCollector(ctx, discover)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if err := collector.Ping(ctx); err != nil {
		return err
	}

	pattern, _ := cmd.Flags().GetString("system-namespaces")
	profile, err := collector.Measure(ctx, metrics.MeasureOptions{
		SystemNamespacePattern: pattern,
	})
	if err != nil {
		return err
	}

	w, closeFn, err := outputWriter(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}
