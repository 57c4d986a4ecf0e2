// Package stats computes aggregate metrics over a parsed ledger: DAG
// depth, branching, reference density, validity ratio and throughput.
//
// Because every reference points to an earlier position, the metrics need
// no general graph traversal: depth is memoized in one forward scan and
// the remaining figures are simple folds over the node sequence. Compute
// is a pure function of the ledger; it holds no state between calls.
package stats
