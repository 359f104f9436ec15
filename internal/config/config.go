package config

import (
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/resource"

	"github.com/vmsizer/vmsizer/internal/capacity"
	"github.com/vmsizer/vmsizer/internal/model"
	"github.com/vmsizer/vmsizer/internal/sizing"
)

// Config is the top-level configuration for vmsizer. Fields carry both yaml
// tags (direct file decoding) and mapstructure tags (viper.Unmarshal).
type Config struct {
	Cluster    ClusterConfig    `yaml:"cluster" mapstructure:"cluster"`
	Overhead   OverheadConfig   `yaml:"overhead" mapstructure:"overhead"`
	Sizing     SizingConfig     `yaml:"sizing" mapstructure:"sizing"`
	Prometheus PrometheusConfig `yaml:"prometheus" mapstructure:"prometheus"`
	Kubernetes KubernetesConfig `yaml:"kubernetes" mapstructure:"kubernetes"`
	Output     OutputConfig     `yaml:"output" mapstructure:"output"`
}

type ClusterConfig struct {
	Name string `yaml:"name" mapstructure:"name"`
}

// OverheadConfig configures the base overhead profile. Memory values are
// humane quantity strings ("5Gi", "512Mi").
type OverheadConfig struct {
	NodeTaxMemory       string `yaml:"node_tax_memory" mapstructure:"node_tax_memory"`
	NodeTaxCPUs         int64  `yaml:"node_tax_cpus" mapstructure:"node_tax_cpus"`
	ClusterBufferMemory string `yaml:"cluster_buffer_memory" mapstructure:"cluster_buffer_memory"`

	// Path to a measured overhead profile JSON (from 'vmsizer measure').
	// When set it overrides the values above.
	ProfileFile string `yaml:"profile_file" mapstructure:"profile_file"`
}

type SizingConfig struct {
	MaxWorkerNodes     int64  `yaml:"max_worker_nodes" mapstructure:"max_worker_nodes"`
	ControlPlanePolicy string `yaml:"control_plane_policy" mapstructure:"control_plane_policy"` // expand-when-exhausted, never, keep
}

type PrometheusConfig struct {
	URL     string        `yaml:"url" mapstructure:"url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

type KubernetesConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	Kubeconfig string `yaml:"kubeconfig" mapstructure:"kubeconfig"`
	Context    string `yaml:"context" mapstructure:"context"`
}

type OutputConfig struct {
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Overhead: OverheadConfig{
			NodeTaxMemory:       "5Gi",
			NodeTaxCPUs:         2,
			ClusterBufferMemory: "0",
		},
		Sizing: SizingConfig{
			MaxWorkerNodes:     sizing.DefaultMaxWorkerNodes,
			ControlPlanePolicy: "expand-when-exhausted",
		},
		Prometheus: PrometheusConfig{
			Timeout: 60 * time.Second,
		},
		Output: OutputConfig{
			Format: "table",
		},
	}
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if c.Sizing.MaxWorkerNodes < 1 {
		return fmt.Errorf("max_worker_nodes must be >= 1, got %d", c.Sizing.MaxWorkerNodes)
	}
	validPolicies := map[string]bool{"expand-when-exhausted": true, "never": true, "keep": true}
	if !validPolicies[c.Sizing.ControlPlanePolicy] {
		return fmt.Errorf("control_plane_policy must be expand-when-exhausted, never, or keep, got %q", c.Sizing.ControlPlanePolicy)
	}
	validFormats := map[string]bool{"table": true, "json": true, "markdown": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output format must be table, json, or markdown, got %q", c.Output.Format)
	}
	if _, err := c.Overhead.Profile(); err != nil {
		return err
	}
	return nil
}

// Profile builds the base overhead profile from the configured quantities.
func (o OverheadConfig) Profile() (capacity.OverheadProfile, error) {
	tax, err := parseQuantity(o.NodeTaxMemory, "overhead.node_tax_memory")
	if err != nil {
		return capacity.OverheadProfile{}, err
	}
	buffer, err := parseQuantity(o.ClusterBufferMemory, "overhead.cluster_buffer_memory")
	if err != nil {
		return capacity.OverheadProfile{}, err
	}
	if o.NodeTaxCPUs < 0 {
		return capacity.OverheadProfile{}, fmt.Errorf("overhead.node_tax_cpus must be >= 0, got %d", o.NodeTaxCPUs)
	}

	profile := capacity.OverheadProfile{
		NodeSystemTax: model.NewResourceVector(tax, o.NodeTaxCPUs),
		ClusterBuffer: model.ResourceVector{},
	}
	if buffer > 0 {
		profile.ClusterBuffer = model.ResourceVector{model.DimMemory: buffer}
	}
	return profile, nil
}

func parseQuantity(s, field string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	q, err := resource.ParseQuantity(s)
	if err != nil {
		return 0, fmt.Errorf("%s: parsing %q: %w", field, s, err)
	}
	if q.Sign() < 0 {
		return 0, fmt.Errorf("%s must be non-negative, got %s", field, s)
	}
	return q.Value(), nil
}
