// Package retry retries connection setup with exponential backoff.
//
// It is meant for establishing transports (SSH dials) only. Remote API
// submissions are never retried.
package retry
