package metrics

import (
	"context"
	"errors"

	"github.com/vmsizer/vmsizer/internal/capacity"
)

var (
	ErrPrometheusUnreachable = errors.New("prometheus endpoint unreachable")
	ErrNoOverheadData        = errors.New("no overhead metrics found")
)

// OverheadCollector measures the overhead profile of a running cluster so
// the estimator can use observed values instead of the built-in defaults.
type OverheadCollector interface {
	// Measure produces an overhead profile from observed consumption.
	Measure(ctx context.Context, opts MeasureOptions) (capacity.OverheadProfile, error)

	// Ping validates connectivity to the backend.
	Ping(ctx context.Context) error

	// Source identifies the backend ("prometheus", "static").
	Source() string
}

// MeasureOptions configures overhead measurement.
type MeasureOptions struct {
	// Regex matching the namespaces that hold platform components. Their
	// aggregate resource requests divided by node count form the per-node
	// system tax.
	SystemNamespacePattern string
}

// DefaultSystemNamespacePattern covers the platform namespaces of OpenShift
// and vanilla Kubernetes installations.
const DefaultSystemNamespacePattern = "(openshift|kube)-.*"
