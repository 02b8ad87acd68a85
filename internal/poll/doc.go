// Package poll provides the bounded wait-for-condition primitive used by
// every long-running operation of the CLI.
//
// A Poller calls a predicate, sleeps for the budget interval, and repeats
// until the predicate reports completion or the total timeout elapses.
// Predicate errors end the wait immediately and are returned to the caller
// unchanged in type. Progress is written to a status line that is
// overwritten in place on terminals; it is never part of the return value.
//
// The wait is a blocking sleep loop. Context cancellation is only observed
// between sleeps.
package poll
