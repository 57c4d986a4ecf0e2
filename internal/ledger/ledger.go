package ledger

// Ref is an optional 0-indexed position into the origin-rooted node
// sequence. NoRef marks an absent reference, which arises when the
// referenced record was itself invalid.
type Ref int

// NoRef is the absent-reference sentinel.
const NoRef Ref = -1

// Node is one ledger record after validation. It is a two-case tagged
// variant: a valid node carries its resolved references and timestamp,
// an invalid node carries nothing. Consumers branch on the Valid flag.
type Node struct {
	Valid     bool
	Left      Ref
	Right     Ref
	Timestamp uint64
}

// ValidNode builds a valid record with the given resolved references.
func ValidNode(left, right Ref, timestamp uint64) Node {
	return Node{Valid: true, Left: left, Right: right, Timestamp: timestamp}
}

// InvalidNode builds a record that failed validation.
func InvalidNode() Node {
	return Node{Left: NoRef, Right: NoRef}
}

// Ledger is the parsed, immutable record sequence under analysis.
//
// Nodes holds only the records read from input; the synthetic origin that
// anchors the graph at internal position 0 is stripped after parsing.
// Ref values inside the nodes remain expressed in the origin-rooted index
// space, so Ref(0) always means the origin and Ref(k) means the k-th slot
// of the sequence that still included it.
type Ledger struct {
	Nodes []Node
}
