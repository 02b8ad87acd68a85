package helm

import (
	"sync"

	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/discovery/cached/memory"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/restmapper"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// kubeconfigGetter implements genericclioptions.RESTClientGetter on top of
// raw kubeconfig bytes. The namespace overrides the one in the kubeconfig.
type kubeconfigGetter struct {
	kubeconfig []byte
	namespace  string

	once       sync.Once
	restConfig *rest.Config
	err        error
}

func newKubeconfigGetter(kubeconfig []byte, namespace string) *kubeconfigGetter {
	return &kubeconfigGetter{kubeconfig: kubeconfig, namespace: namespace}
}

func (g *kubeconfigGetter) ToRawKubeConfigLoader() clientcmd.ClientConfig {
	raw, err := clientcmd.Load(g.kubeconfig)
	if err != nil {
		// an empty config makes every later call fail with a clear error
		return clientcmd.NewDefaultClientConfig(*clientcmdapi.NewConfig(), &clientcmd.ConfigOverrides{})
	}
	overrides := &clientcmd.ConfigOverrides{}
	overrides.Context.Namespace = g.namespace
	return clientcmd.NewNonInteractiveClientConfig(*raw, raw.CurrentContext, overrides, nil)
}

func (g *kubeconfigGetter) ToRESTConfig() (*rest.Config, error) {
	g.once.Do(func() {
		if _, err := clientcmd.Load(g.kubeconfig); err != nil {
			g.err = err
			return
		}
		g.restConfig, g.err = g.ToRawKubeConfigLoader().ClientConfig()
	})
	return g.restConfig, g.err
}

func (g *kubeconfigGetter) ToDiscoveryClient() (discovery.CachedDiscoveryInterface, error) {
	restConfig, err := g.ToRESTConfig()
	if err != nil {
		return nil, err
	}
	dc, err := discovery.NewDiscoveryClientForConfig(restConfig)
	if err != nil {
		return nil, err
	}
	return memory.NewMemCacheClient(dc), nil
}

func (g *kubeconfigGetter) ToRESTMapper() (meta.RESTMapper, error) {
	dc, err := g.ToDiscoveryClient()
	if err != nil {
		return nil, err
	}
	return restmapper.NewDeferredDiscoveryRESTMapper(dc), nil
}
