package kube

import (
	"context"
	"fmt"
	"io"
	"net/http"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/portforward"
	"k8s.io/client-go/transport/spdy"
)

// PortForwardSession is an open tunnel to a pod. Close stops forwarding.
type PortForwardSession struct {
	LocalPort int32
	PodName   string
	stop      chan struct{}
}

func (s *PortForwardSession) Close() {
	close(s.stop)
}

// PortForwardToService tunnels to a running pod behind the given service so
// discovered in-cluster endpoints are reachable from outside. The local port
// is chosen by the kernel; read it from the returned session.
func PortForwardToService(ctx context.Context, restConfig *rest.Config, client kubernetes.Interface, svcName, namespace string, svcPort int32) (*PortForwardSession, error) {
	svc, err := client.CoreV1().Services(namespace).Get(ctx, svcName, metav1.GetOptions{})
	if err != nil {
		return nil, fmt.Errorf("getting service %s/%s: %w", namespace, svcName, err)
	}

	sp, err := servicePort(svc, svcPort)
	if err != nil {
		return nil, err
	}

	pod, err := backingPod(ctx, client, svc)
	if err != nil {
		return nil, err
	}

	session, err := openTunnel(restConfig, client, pod.Name, namespace, resolveTargetPort(sp, pod))
	if err != nil {
		return nil, err
	}
	session.PodName = pod.Name
	return session, nil
}

func servicePort(svc *corev1.Service, port int32) (corev1.ServicePort, error) {
	for _, sp := range svc.Spec.Ports {
		if sp.Port == port {
			return sp, nil
		}
	}
	return corev1.ServicePort{}, fmt.Errorf("service %s/%s has no port %d", svc.Namespace, svc.Name, port)
}

// backingPod picks a running pod matching the service selector.
func backingPod(ctx context.Context, client kubernetes.Interface, svc *corev1.Service) (*corev1.Pod, error) {
	if len(svc.Spec.Selector) == 0 {
		return nil, fmt.Errorf("service %s/%s has no pod selector", svc.Namespace, svc.Name)
	}

	selector := metav1.FormatLabelSelector(&metav1.LabelSelector{MatchLabels: svc.Spec.Selector})
	pods, err := client.CoreV1().Pods(svc.Namespace).List(ctx, metav1.ListOptions{LabelSelector: selector})
	if err != nil {
		return nil, fmt.Errorf("listing pods for service %s/%s: %w", svc.Namespace, svc.Name, err)
	}

	for i := range pods.Items {
		if pods.Items[i].Status.Phase == corev1.PodRunning {
			return &pods.Items[i], nil
		}
	}
	return nil, fmt.Errorf("no running pod found for service %s/%s", svc.Namespace, svc.Name)
}

// resolveTargetPort turns a ServicePort's targetPort into a numeric container
// port: numeric values pass through, named ports are looked up in the pod's
// containers, and an unset or unresolvable targetPort falls back to the
// service port.
func resolveTargetPort(sp corev1.ServicePort, pod *corev1.Pod) int32 {
	if n := sp.TargetPort.IntValue(); n != 0 {
		return int32(n)
	}

	if name := sp.TargetPort.String(); name != "" && name != "0" {
		for _, c := range pod.Spec.Containers {
			for _, cp := range c.Ports {
				if cp.Name == name {
					return cp.ContainerPort
				}
			}
		}
	}

	return sp.Port
}

func openTunnel(restConfig *rest.Config, client kubernetes.Interface, podName, namespace string, podPort int32) (*PortForwardSession, error) {
	transport, upgrader, err := spdy.RoundTripperFor(restConfig)
	if err != nil {
		return nil, fmt.Errorf("creating SPDY round-tripper: %w", err)
	}

	reqURL := client.CoreV1().RESTClient().Post().
		Resource("pods").
		Namespace(namespace).
		Name(podName).
		SubResource("portforward").
		URL()
	dialer := spdy.NewDialer(upgrader, &http.Client{Transport: transport}, http.MethodPost, reqURL)

	stop := make(chan struct{}, 1)
	ready := make(chan struct{})

	fw, err := portforward.New(dialer, []string{fmt.Sprintf("0:%d", podPort)}, stop, ready, io.Discard, io.Discard)
	if err != nil {
		return nil, fmt.Errorf("creating port-forwarder: %w", err)
	}

	errs := make(chan error, 1)
	go func() {
		errs <- fw.ForwardPorts()
	}()

	select {
	case <-ready:
	case err := <-errs:
		return nil, fmt.Errorf("port-forward failed: %w", err)
	}

	ports, err := fw.GetPorts()
	if err != nil {
		close(stop)
		return nil, fmt.Errorf("getting forwarded ports: %w", err)
	}

	return &PortForwardSession{
		LocalPort: int32(ports[0].Local),
		stop:      stop,
	}, nil
}
