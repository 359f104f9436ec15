package metrics

import (
	"math"
	"strings"
	"testing"

	prommodel "github.com/prometheus/common/model"
)

func TestQuerySystemRequestsPerNode(t *testing.T) {
	q := querySystemRequestsPerNode("memory", DefaultSystemNamespacePattern)

	for _, want := range []string{
		`resource="memory"`,
		`namespace=~"(openshift|kube)-.*"`,
		"kube_pod_container_resource_requests",
		"count(kube_node_info)",
	} {
		if !strings.Contains(q, want) {
			t.Errorf("query %q missing %q", q, want)
		}
	}
}

func TestExtractScalar(t *testing.T) {
	tests := []struct {
		name      string
		value     prommodel.Value
		want      float64
		wantFound bool
	}{
		{
			"scalar",
			&prommodel.Scalar{Value: 42},
			42, true,
		},
		{
			"vector with one sample",
			prommodel.Vector{&prommodel.Sample{Value: 3.5}},
			3.5, true,
		},
		{
			"empty vector",
			prommodel.Vector{},
			0, false,
		},
		{
			"NaN sample",
			prommodel.Vector{&prommodel.Sample{Value: prommodel.SampleValue(math.NaN())}},
			0, false,
		},
		{
			"infinite sample",
			prommodel.Vector{&prommodel.Sample{Value: prommodel.SampleValue(math.Inf(1))}},
			0, false,
		},
		{
			"matrix is not scalar",
			prommodel.Matrix{},
			0, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := extractScalar(tt.value)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && got != tt.want {
				t.Errorf("value = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewPrometheusCollector_BadEndpoint(t *testing.T) {
	if _, err := NewPrometheusCollector("://not-a-url"); err == nil {
		t.Error("expected error for malformed endpoint")
	}
}
