// Package k8s provides a small Kubernetes client for post-install checks.
package k8s

import (
	"context"
	"fmt"
	"time"

	storagev1 "k8s.io/api/storage/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

const storageClassPollInterval = 2 * time.Second

// Client reads cluster objects.
type Client struct {
	client client.Client
}

// NewClientFromBytes creates a client from kubeconfig bytes.
func NewClientFromBytes(kubeconfig []byte) (*Client, error) {
	restConfig, err := restConfigFromKubeconfig(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create rest config: %w", err)
	}
	c, err := client.New(restConfig, client.Options{Scheme: Scheme()})
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return &Client{client: c}, nil
}

// NewClient wraps an existing controller-runtime client.
func NewClient(c client.Client) *Client {
	return &Client{client: c}
}

// Scheme returns a scheme with the types this package reads.
func Scheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	_ = storagev1.AddToScheme(scheme)
	return scheme
}

// StorageClass returns the named storage class.
func (c *Client) StorageClass(ctx context.Context, name string) (*storagev1.StorageClass, error) {
	sc := &storagev1.StorageClass{}
	if err := c.client.Get(ctx, types.NamespacedName{Name: name}, sc); err != nil {
		return nil, fmt.Errorf("failed to get storage class %s: %w", name, err)
	}
	return sc, nil
}

// WaitForStorageClass waits until the named storage class exists and is
// served by provisioner. An empty provisioner accepts any.
func (c *Client) WaitForStorageClass(ctx context.Context, name, provisioner string, timeout time.Duration) error {
	var last *storagev1.StorageClass
	err := wait.PollUntilContextTimeout(ctx, storageClassPollInterval, timeout, true, func(ctx context.Context) (bool, error) {
		sc := &storagev1.StorageClass{}
		if err := c.client.Get(ctx, types.NamespacedName{Name: name}, sc); err != nil {
			if apierrors.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		last = sc
		return provisioner == "" || sc.Provisioner == provisioner, nil
	})
	if err == nil {
		return nil
	}
	if last != nil {
		return fmt.Errorf("storage class %s uses provisioner %q, want %q: %w", name, last.Provisioner, provisioner, err)
	}
	return fmt.Errorf("storage class %s did not appear: %w", name, err)
}

func restConfigFromKubeconfig(kubeconfig []byte) (*rest.Config, error) {
	clientConfig, err := clientcmd.NewClientConfigFromBytes(kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client config: %w", err)
	}
	return clientConfig.ClientConfig()
}
