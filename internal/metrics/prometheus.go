package metrics

import (
	"context"
	"fmt"
	"math"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	prommodel "github.com/prometheus/common/model"

	"github.com/vmsizer/vmsizer/internal/capacity"
	"github.com/vmsizer/vmsizer/internal/model"
)

// PrometheusCollector measures cluster overhead from a Prometheus-compatible
// endpoint. The per-node system tax comes from the aggregate resource
// requests of platform namespaces divided by node count; the cluster buffer
// comes from reclaimable kernel memory.
type PrometheusCollector struct {
	api      promv1.API
	endpoint string
	timeout  time.Duration
}

// PrometheusOption configures the Prometheus collector.
type PrometheusOption func(*PrometheusCollector)

// WithTimeout sets the query timeout.
func WithTimeout(d time.Duration) PrometheusOption {
	return func(c *PrometheusCollector) { c.timeout = d }
}

// NewPrometheusCollector creates a collector connected to the given endpoint.
func NewPrometheusCollector(endpoint string, opts ...PrometheusOption) (*PrometheusCollector, error) {
	client, err := promapi.NewClient(promapi.Config{
		Address: endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("creating prometheus client: %w", err)
	}

	c := &PrometheusCollector{
		api:      promv1.NewAPI(client),
		endpoint: endpoint,
		timeout:  60 * time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Ping checks connectivity with a trivial query.
func (c *PrometheusCollector) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, _, err := c.api.Query(ctx, "up", time.Now()); err != nil {
		return fmt.Errorf("%w: %v", ErrPrometheusUnreachable, err)
	}
	return nil
}

// Source returns "prometheus".
func (c *PrometheusCollector) Source() string {
	return "prometheus"
}

// Measure runs the overhead queries and assembles a profile.
func (c *PrometheusCollector) Measure(ctx context.Context, opts MeasureOptions) (capacity.OverheadProfile, error) {
	pattern := opts.SystemNamespacePattern
	if pattern == "" {
		pattern = DefaultSystemNamespacePattern
	}

	queries := map[string]string{
		"node_tax_memory": querySystemRequestsPerNode("memory", pattern),
		"node_tax_cpu":    querySystemRequestsPerNode("cpu", pattern),
		"buffer_memory":   queryReclaimableMemory(),
	}

	type queryResult struct {
		name  string
		value float64
		found bool
		err   error
	}

	queryCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make(chan queryResult, len(queries))
	for name, q := range queries {
		go func(n, query string) {
			data, _, err := c.api.Query(queryCtx, query, time.Now())
			if err != nil {
				results <- queryResult{name: n, err: err}
				return
			}
			v, ok := extractScalar(data)
			results <- queryResult{name: n, value: v, found: ok}
		}(name, q)
	}

	collected := make(map[string]float64)
	for i := 0; i < len(queries); i++ {
		r := <-results
		if r.err != nil {
			return capacity.OverheadProfile{}, fmt.Errorf("querying %s: %w", r.name, r.err)
		}
		if r.found {
			collected[r.name] = r.value
		}
	}

	memTax, okMem := collected["node_tax_memory"]
	cpuTax, okCPU := collected["node_tax_cpu"]
	if !okMem && !okCPU {
		return capacity.OverheadProfile{}, ErrNoOverheadData
	}

	profile := capacity.OverheadProfile{
		// Requests arrive in bytes and cores; cores round up so the tax
		// never understates consumption.
		NodeSystemTax: model.NewResourceVector(int64(memTax), int64(math.Ceil(cpuTax))),
		ClusterBuffer: model.ResourceVector{},
	}
	if buffer, ok := collected["buffer_memory"]; ok && buffer > 0 {
		profile.ClusterBuffer = model.ResourceVector{model.DimMemory: int64(buffer)}
	}
	return profile, nil
}

// querySystemRequestsPerNode returns the PromQL for the average per-node
// resource requests of platform namespaces.
func querySystemRequestsPerNode(res, nsPattern string) string {
	return fmt.Sprintf(
		`sum(kube_pod_container_resource_requests{namespace=~"%s",resource="%s"}) / count(kube_node_info)`,
		nsPattern, res)
}

// queryReclaimableMemory returns the PromQL for the average reclaimable
// kernel memory per node, used as the cluster buffer.
func queryReclaimableMemory() string {
	return `avg(sum by (instance) (node_memory_SReclaimable_bytes + node_memory_KReclaimable_bytes))`
}

// extractScalar pulls a single numeric value from a query result, accepting
// scalars and single-sample vectors.
func extractScalar(v prommodel.Value) (float64, bool) {
	switch val := v.(type) {
	case *prommodel.Scalar:
		return float64(val.Value), true
	case prommodel.Vector:
		if len(val) == 0 {
			return 0, false
		}
		f := float64(val[0].Value)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
