package kube

import (
	"context"
	"testing"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"
)

func makeService(name, namespace string, labels map[string]string, ports ...corev1.ServicePort) *corev1.Service {
	return &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{Ports: ports},
	}
}

func TestDiscoverPrometheus_FindsPrometheusServer(t *testing.T) {
	client := fake.NewSimpleClientset(
		makeService("prometheus-server", "monitoring",
			map[string]string{"app": "prometheus-server"},
			corev1.ServicePort{Name: "http", Port: 9090, Protocol: corev1.ProtocolTCP},
		),
	)

	result, err := DiscoverPrometheus(context.Background(), client, DiscoveryOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Type != "prometheus" {
		t.Errorf("type: got %q, want prometheus", result.Type)
	}
	if result.URL != "http://prometheus-server.monitoring.svc:9090" {
		t.Errorf("url: got %q", result.URL)
	}
	if result.Port != 9090 {
		t.Errorf("port: got %d, want 9090", result.Port)
	}
}

func TestDiscoverPrometheus_PrefersThanos(t *testing.T) {
	client := fake.NewSimpleClientset(
		makeService("prometheus-server", "monitoring",
			map[string]string{"app": "prometheus-server"},
			corev1.ServicePort{Name: "http", Port: 9090, Protocol: corev1.ProtocolTCP},
		),
		makeService("thanos-querier", "openshift-monitoring",
			map[string]string{"app": "thanos-querier"},
			corev1.ServicePort{Name: "web", Port: 9091, Protocol: corev1.ProtocolTCP},
		),
	)

	result, err := DiscoverPrometheus(context.Background(), client, DiscoveryOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the aggregated view wins over a single Prometheus
	if result.Type != "thanos" {
		t.Errorf("type: got %q, want thanos", result.Type)
	}
	if result.ServiceName != "thanos-querier" {
		t.Errorf("service: got %q, want thanos-querier", result.ServiceName)
	}
}

func TestDiscoverPrometheus_NothingFound(t *testing.T) {
	client := fake.NewSimpleClientset(
		makeService("unrelated", "default", map[string]string{"app": "web-shop"},
			corev1.ServicePort{Name: "http", Port: 80, Protocol: corev1.ProtocolTCP},
		),
	)

	if _, err := DiscoverPrometheus(context.Background(), client, DiscoveryOptions{}); err == nil {
		t.Error("expected error when no metrics service exists")
	}
}

func TestExtractPort(t *testing.T) {
	tests := []struct {
		name  string
		ports []corev1.ServicePort
		want  int32
	}{
		{
			"prefers named http port",
			[]corev1.ServicePort{
				{Name: "grpc", Port: 10901, Protocol: corev1.ProtocolTCP},
				{Name: "http", Port: 9090, Protocol: corev1.ProtocolTCP},
			},
			9090,
		},
		{
			"falls back to first tcp port",
			[]corev1.ServicePort{
				{Name: "metrics", Port: 9100, Protocol: corev1.ProtocolTCP},
			},
			9100,
		},
		{
			"no usable port",
			[]corev1.ServicePort{
				{Name: "dns", Port: 53, Protocol: corev1.ProtocolUDP},
			},
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := makeService("svc", "ns", nil, tt.ports...)
			if got := extractPort(*svc); got != tt.want {
				t.Errorf("extractPort() = %d, want %d", got, tt.want)
			}
		})
	}
}
