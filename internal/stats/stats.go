package stats

import (
	"fmt"

	"github.com/vk/tanglestat/internal/ledger"
)

// Stats holds the five report metrics for one ledger.
type Stats struct {
	AvgDagDepth    float64
	AvgTxsPerDepth float64
	AvgRefs        float64
	PctValid       float64
	AvgTxRate      float64
}

// String renders the fixed five-line report.
func (s Stats) String() string {
	return fmt.Sprintf(
		"AVG DAG DEPTH: %.3f\nAVG TXS PER DEPTH: %.3f\nAVG REFS: %.3f\nPCT VALID: %.1f%%\nAVG TX RATE: %.3f",
		s.AvgDagDepth, s.AvgTxsPerDepth, s.AvgRefs, s.PctValid, s.AvgTxRate)
}

// Metrics returns the report figures keyed by the names used in analysis
// profile threshold blocks.
func (s Stats) Metrics() map[string]float64 {
	return map[string]float64{
		"dag_depth":     s.AvgDagDepth,
		"txs_per_depth": s.AvgTxsPerDepth,
		"refs":          s.AvgRefs,
		"pct_valid":     s.PctValid,
		"tx_rate":       s.AvgTxRate,
	}
}

// unreachable marks a node with no valid reference chain back to the
// origin. Such nodes are dropped from the depth figures entirely.
const unreachable = -1

// Compute derives the report metrics from a parsed ledger. It reads the
// ledger only; calling it twice yields identical results.
func Compute(l *ledger.Ledger) Stats {
	valid := validNodes(l)

	// The origin counts in every per-node denominator even though it is
	// not part of the external sequence.
	totalNodes := len(valid) + 1

	depths := reachableDepths(l)
	depthSum := 0
	depthMax := 0
	for _, d := range depths {
		depthSum += d
		if d > depthMax {
			depthMax = d
		}
	}
	avgDagDepth := float64(depthSum) / float64(totalNodes)

	// Every reachable node lands in exactly one depth bucket, so the mean
	// bucket size is the reachable count over the deepest bucket index.
	avgTxsPerDepth := 0.0
	if depthMax > 0 {
		avgTxsPerDepth = float64(len(depths)) / float64(depthMax)
	}

	avgRefs := float64(countRefs(l)) / float64(totalNodes)

	pctValid := 100.0
	if len(l.Nodes) > 0 {
		pctValid = 100.0 * float64(len(valid)) / float64(len(l.Nodes))
	}

	avgTxRate := 0.0
	if len(valid) > 1 {
		first := valid[0].Timestamp
		last := valid[len(valid)-1].Timestamp
		elapsed := last - first + 1 // the window is inclusive
		avgTxRate = float64(len(valid)) / float64(elapsed)
	}

	return Stats{
		AvgDagDepth:    avgDagDepth,
		AvgTxsPerDepth: avgTxsPerDepth,
		AvgRefs:        avgRefs,
		PctValid:       pctValid,
		AvgTxRate:      avgTxRate,
	}
}

// validNodes returns the valid records in sequence order.
func validNodes(l *ledger.Ledger) []ledger.Node {
	var valid []ledger.Node
	for _, n := range l.Nodes {
		if n.Valid {
			valid = append(valid, n)
		}
	}
	return valid
}

// reachableDepths returns the finite depths of all nodes reachable from
// the origin, origin excluded. Depth is the shortest valid-reference chain
// back to the origin; it is memoized in one forward scan because each
// node's ancestors occupy earlier slots (a not-yet-materialized forward
// slot simply reads as unreachable here).
func reachableDepths(l *ledger.Ledger) []int {
	memo := make([]int, 1, len(l.Nodes)+1)
	memo[0] = 0 // origin
	for _, n := range l.Nodes {
		depth := unreachable
		if n.Valid {
			depth = minDepth(pathDepth(n.Left, memo), pathDepth(n.Right, memo))
		}
		memo = append(memo, depth)
	}

	depths := make([]int, 0, len(memo))
	for _, d := range memo {
		if d != unreachable && d != 0 {
			depths = append(depths, d)
		}
	}
	return depths
}

// pathDepth returns the depth reached by following ref, or unreachable
// when the reference is absent, beyond the memoized sequence, or points at
// an unreachable node.
func pathDepth(ref ledger.Ref, memo []int) int {
	if ref == ledger.NoRef || int(ref) >= len(memo) || memo[ref] == unreachable {
		return unreachable
	}
	return memo[ref] + 1
}

func minDepth(a, b int) int {
	if a == unreachable {
		return b
	}
	if b == unreachable {
		return a
	}
	return min(a, b)
}

// countRefs counts the resolved references across all nodes. Invalid
// nodes contribute nothing; a resolved reference counts only while it
// lands inside the external sequence bound.
func countRefs(l *ledger.Ledger) int {
	count := 0
	for _, n := range l.Nodes {
		if !n.Valid {
			continue
		}
		if n.Left != ledger.NoRef && int(n.Left) < len(l.Nodes) {
			count++
		}
		if n.Right != ledger.NoRef && int(n.Right) < len(l.Nodes) {
			count++
		}
	}
	return count
}
