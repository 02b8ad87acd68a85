// Package openshift logs in to OpenShift API servers.
//
// Password logins use the OAuth challenging-client flow that the oc CLI
// uses: the OAuth server is discovered from the API server, the token is
// requested with basic auth and read from the redirect Location fragment.
// Every login is verified against the API server before the kubeconfig of
// the user is updated.
package openshift
