package cmd

import (
	"context"
	"fmt"

	"github.com/vmsizer/vmsizer/internal/kube"
	"github.com/vmsizer/vmsizer/internal/metrics"
)

// resolveCollector creates an overhead collector from the explicit
// --prometheus-url or, when discovery is requested, by locating a
// Prometheus-compatible service in the Kubernetes cluster.
//
// When running outside the cluster, discovery automatically sets up a
// port-forward tunnel to the discovered service. The returned cleanup
// function must be called to close the tunnel (nil when no tunnel was
// created).
func resolveCollector(ctx context.Context, discover bool) (*metrics.PrometheusCollector, func(), error) {
	// Explicit URL takes precedence
	if cfg.Prometheus.URL != "" {
		c, err := metrics.NewPrometheusCollector(cfg.Prometheus.URL,
			metrics.WithTimeout(cfg.Prometheus.Timeout))
		return c, nil, err
	}

	if !discover {
		return nil, nil, fmt.Errorf("provide --prometheus-url or use --discover to auto-detect the metrics endpoint")
	}

	client, restConfig, kubeContext, inCluster, err := kube.NewClient(cfg.Kubernetes.Kubeconfig, cfg.Kubernetes.Context)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to Kubernetes: %w", err)
	}

	result, err := kube.DiscoverPrometheus(ctx, client, kube.DiscoveryOptions{})
	if err != nil {
		return nil, nil, err
	}

	if verbose {
		fmt.Printf("Discovered %s at %s (service: %s/%s)\n",
			result.Type, result.URL, result.Namespace, result.ServiceName)
	}

	if cfg.Cluster.Name == "" && kubeContext != "" {
		cfg.Cluster.Name = kubeContext
	}

	promURL := result.URL
	var cleanup func()

	if !inCluster {
		// Outside the cluster the service DNS name won't resolve;
		// tunnel to a backing pod instead.
		session, err := kube.PortForwardToService(ctx, restConfig, client,
			result.ServiceName, result.Namespace, result.Port)
		if err != nil {
			return nil, nil, fmt.Errorf("starting port-forward: %w", err)
		}

		promURL = fmt.Sprintf("http://127.0.0.1:%d", session.LocalPort)
		cleanup = session.Close

		if verbose {
			fmt.Printf("Port-forwarding %s/%s (pod %s) → %s\n",
				result.Namespace, result.ServiceName, session.PodName, promURL)
		}
	}

	c, err := metrics.NewPrometheusCollector(promURL,
		metrics.WithTimeout(cfg.Prometheus.Timeout))
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, err
	}
	return c, cleanup, nil
}
