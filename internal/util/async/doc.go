// Package async runs work in goroutines that outlive the caller's wait.
package async
