// Package ssh runs commands on cluster nodes over SSH.
//
// Connections are established with retry and authenticate with a password
// or a private key. Host key verification is disabled unless a
// HostKeyCallback is configured, because cluster farm nodes are reinstalled
// with fresh host keys.
package ssh
