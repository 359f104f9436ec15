package kube

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
)

func TestResolveTargetPort(t *testing.T) {
	promPod := &corev1.Pod{
		Spec: corev1.PodSpec{
			Containers: []corev1.Container{{
				Ports: []corev1.ContainerPort{
					{Name: "grpc", ContainerPort: 10901},
					{Name: "web", ContainerPort: 9090},
				},
			}},
		},
	}

	tests := []struct {
		name string
		sp   corev1.ServicePort
		pod  *corev1.Pod
		want int32
	}{
		{
			"integer target port",
			corev1.ServicePort{Port: 9091, TargetPort: intstr.FromInt32(9090)},
			&corev1.Pod{},
			9090,
		},
		{
			"named target port",
			corev1.ServicePort{Port: 9091, TargetPort: intstr.FromString("web")},
			promPod,
			9090,
		},
		{
			"unknown name falls back to service port",
			corev1.ServicePort{Port: 9091, TargetPort: intstr.FromString("metrics")},
			promPod,
			9091,
		},
		{
			"unset target port defaults to service port",
			corev1.ServicePort{Port: 9091},
			&corev1.Pod{},
			9091,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveTargetPort(tt.sp, tt.pod); got != tt.want {
				t.Errorf("resolveTargetPort() = %d, want %d", got, tt.want)
			}
		})
	}
}
