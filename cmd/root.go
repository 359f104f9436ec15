package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vmsizer/vmsizer/internal/config"
)

var (
	cfgFile string
	cfg     config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vmsizer",
	Short: "Capacity estimation and sizing for on-premises clusters",
	Long: `vmsizer estimates how much resource capacity an on-premises cluster
topology offers to user workloads, accounting for system consumption,
reserved overhead and CPU over-commit.

It answers both planning directions: how many instances of a workload fit
into a given topology, and what minimal topology a target instance count
requires.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: vmsizer.yaml)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	// Global flags that map to config
	rootCmd.PersistentFlags().String("prometheus-url", "", "Prometheus/Thanos endpoint URL")
	rootCmd.PersistentFlags().String("kubeconfig", "", "path to kubeconfig file")
	rootCmd.PersistentFlags().String("kube-context", "", "Kubernetes context name")
	rootCmd.PersistentFlags().String("overhead-profile", "", "path to a measured overhead profile JSON")
	rootCmd.PersistentFlags().String("output", "", "output format: table, json, markdown")

	// Only flags whose zero value matches the config default may be bound;
	// an unset bound flag still contributes its default to viper, clobbering
	// the struct default during Unmarshal. --output defaults to "table" in
	// config, so it is applied separately in loadConfig.
	_ = viper.BindPFlag("prometheus.url", rootCmd.PersistentFlags().Lookup("prometheus-url"))
	_ = viper.BindPFlag("kubernetes.kubeconfig", rootCmd.PersistentFlags().Lookup("kubeconfig"))
	_ = viper.BindPFlag("kubernetes.context", rootCmd.PersistentFlags().Lookup("kube-context"))
	_ = viper.BindPFlag("overhead.profile_file", rootCmd.PersistentFlags().Lookup("overhead-profile"))
}

func loadConfig() error {
	// Start with defaults
	cfg = config.Default()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("vmsizer")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.vmsizer")
	}

	// Environment variable overrides
	viper.SetEnvPrefix("VMSIZER")
	viper.AutomaticEnv()

	// Read config file (not an error if missing)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	if f := rootCmd.PersistentFlags(); f.Changed("output") {
		cfg.Output.Format, _ = f.GetString("output")
	}

	return cfg.Validate()
}
