// Package poolstat reports the live thread pool status of a running
// multi-worker application server over its control channel.
//
// A server that supports phased (zero downtime) restarts exposes an
// administrative socket separate from its request-serving listeners.
// poolstat connects to that socket, asks for one status snapshot, and
// renders one line per worker plus an aggregate line, so an operator can
// confirm that a restart drained and refilled the pool without dropping
// work. It can also issue the server's lifecycle commands (phased-restart,
// halt) over the same channel.
//
// The reporter is strictly read-only with respect to the server's request
// handling and performs exactly one query per invocation. It does not
// retry; retry policy, if any, belongs to whoever invokes it.
package poolstat
