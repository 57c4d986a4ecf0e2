// Package ledger defines the in-memory model of a tip-referencing
// transaction ledger and the parser that builds it from its line-oriented
// text serialization.
//
// A ledger is a flat, append-only sequence of records. Each record approves
// up to two earlier records by position and carries a timestamp that must
// not precede the timestamps of the records it approves. The graph is never
// stored as linked nodes: references are plain indices into one owned
// slice, so there is no pointer cycle to manage and every edge points
// strictly backwards.
//
// Parsing is a single forward pass. Records that break a structural or
// temporal rule are kept in place but downgraded to invalid; only
// whole-stream faults (a bad header, a truncated stream, trailing garbage)
// abort the parse.
package ledger
