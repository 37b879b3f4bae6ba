// Package combined benchmarks the sampler's hot path as a whole: the
// per-trial cancel check, the progress heartbeat and the hand-off of a
// timed sample to the collector.
//
// The isolated benchmarks in cancel, tick and queue price each piece on
// its own. These put them together so the harness overhead charged to
// every trial can be compared with the cost of the workloads it times.
package combined
