package config

import (
	"strings"
	"testing"

	"github.com/vmsizer/vmsizer/internal/model"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero max workers", func(c *Config) { c.Sizing.MaxWorkerNodes = 0 }, "max_worker_nodes"},
		{"unknown policy", func(c *Config) { c.Sizing.ControlPlanePolicy = "maybe" }, "control_plane_policy"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output format"},
		{"bad tax quantity", func(c *Config) { c.Overhead.NodeTaxMemory = "five gigs" }, "node_tax_memory"},
		{"negative buffer", func(c *Config) { c.Overhead.ClusterBufferMemory = "-1Gi" }, "cluster_buffer_memory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestOverheadConfig_Profile(t *testing.T) {
	o := OverheadConfig{
		NodeTaxMemory:       "5Gi",
		NodeTaxCPUs:         2,
		ClusterBufferMemory: "512Mi",
	}

	profile, err := o.Profile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := profile.NodeSystemTax.Get(model.DimMemory); got != 5*model.GiB {
		t.Errorf("tax memory: got %d, want %d", got, 5*model.GiB)
	}
	if got := profile.NodeSystemTax.Get(model.DimCPUs); got != 2 {
		t.Errorf("tax cpus: got %d, want 2", got)
	}
	if got := profile.ClusterBuffer.Get(model.DimMemory); got != 512*model.MiB {
		t.Errorf("buffer memory: got %d, want %d", got, 512*model.MiB)
	}
}

func TestOverheadConfig_Profile_EmptyValues(t *testing.T) {
	profile, err := OverheadConfig{}.Profile()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !profile.ClusterBuffer.IsZero() {
		t.Error("empty config must yield an empty buffer")
	}
	if got := profile.NodeSystemTax.Get(model.DimMemory); got != 0 {
		t.Errorf("tax memory: got %d, want 0", got)
	}
}

func TestOverheadConfig_Profile_NegativeCPUs(t *testing.T) {
	o := OverheadConfig{NodeTaxMemory: "5Gi", NodeTaxCPUs: -1}
	if _, err := o.Profile(); err == nil {
		t.Error("expected error for negative cpu tax")
	}
}
