// Package helm installs charts into a cluster using kubeconfig bytes held in
// memory, so a fresh login session can be used without touching the user's
// kubeconfig file.
package helm
