// Package batch fans a subsetting backend out over a list of discovered
// fonts with a fixed-size worker pool.
//
// The orchestrator validates the range tokens once before any work starts,
// reports progress through a Reporter, isolates per-file failures and stops
// dispatching new files as soon as one call reports a fatal outcome. Calls
// already in flight are allowed to finish so no output is left half written.
package batch
