// Package cluster defines the provider-neutral view of an OpenShift cluster
// and the process-wide registry of provider factories.
//
// Provider packages register a Factory once from their init function:
//
//	func init() {
//	    cluster.MustRegister(ProviderTag, factory{})
//	}
//
// Callers import the provider packages for their side effect and then build
// clusters through Create, without knowing the concrete types.
package cluster
