package stats

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tanglestat/internal/ledger"
)

func computeFrom(t *testing.T, input string) Stats {
	t.Helper()
	led, err := ledger.Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	return Compute(led)
}

func TestCompute(t *testing.T) {
	t.Parallel()

	input := `5
	1 1 0
	1 2 0
	2 2 1
	3 3 2
	3 4 3`

	assert.Equal(t, Stats{
		AvgDagDepth:    4.0 / 3.0,
		AvgTxsPerDepth: 2.5,
		AvgRefs:        5.0 / 3.0,
		PctValid:       100.0,
		AvgTxRate:      1.25,
	}, computeFrom(t, input))
}

func TestCompute_InvalidNodes(t *testing.T) {
	t.Parallel()

	input := `5
	1 1 1
	1 2 0
	2 2 1
	3 3 2
	3 4 3`

	assert.Equal(t, Stats{
		AvgDagDepth:    1.5,
		AvgTxsPerDepth: 1.0,
		AvgRefs:        1.25,
		PctValid:       60.0,
		AvgTxRate:      1.0,
	}, computeFrom(t, input))
}

func TestCompute_HighRate(t *testing.T) {
	t.Parallel()

	input := `5
	1 1 1
	2 1 1
	3 1 1
	4 1 1
	5 1 1`

	assert.Equal(t, Stats{
		AvgDagDepth:    5.0 / 6.0,
		AvgTxsPerDepth: 5.0,
		AvgRefs:        5.0 / 3.0,
		PctValid:       100.0,
		AvgTxRate:      5.0,
	}, computeFrom(t, input))
}

func TestCompute_ForwardRef(t *testing.T) {
	t.Parallel()

	input := `3
	1 4 1
	1 2 2
	1 3 3`

	assert.Equal(t, Stats{
		AvgDagDepth:    2.0 / 3.0,
		AvgTxsPerDepth: 2.0,
		AvgRefs:        1.0,
		PctValid:       100.0 * 2.0 / 3.0,
		AvgTxRate:      1.0,
	}, computeFrom(t, input))
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Stats{
		AvgDagDepth:    0.0,
		AvgTxsPerDepth: 0.0,
		AvgRefs:        0.0,
		PctValid:       100.0,
		AvgTxRate:      0.0,
	}, Compute(&ledger.Ledger{}))
}

func TestCompute_NoneValid(t *testing.T) {
	t.Parallel()

	led := &ledger.Ledger{Nodes: []ledger.Node{ledger.InvalidNode()}}
	assert.Equal(t, Stats{
		AvgDagDepth:    0.0,
		AvgTxsPerDepth: 0.0,
		AvgRefs:        0.0,
		PctValid:       0.0,
		AvgTxRate:      0.0,
	}, Compute(led))
}

func TestCompute_Idempotent(t *testing.T) {
	t.Parallel()

	input := `5
	1 1 1
	1 2 0
	2 2 1
	3 3 2
	3 4 3`

	led, err := ledger.Parse(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	first := Compute(led)
	second := Compute(led)
	assert.Equal(t, first, second)
}

func TestString(t *testing.T) {
	t.Parallel()

	s := Stats{
		AvgDagDepth:    4.0 / 3.0,
		AvgTxsPerDepth: 2.5,
		AvgRefs:        5.0 / 3.0,
		PctValid:       100.0,
		AvgTxRate:      1.25,
	}
	want := "AVG DAG DEPTH: 1.333\n" +
		"AVG TXS PER DEPTH: 2.500\n" +
		"AVG REFS: 1.667\n" +
		"PCT VALID: 100.0%\n" +
		"AVG TX RATE: 1.250"
	assert.Equal(t, want, s.String())
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	s := Stats{
		AvgDagDepth:    1,
		AvgTxsPerDepth: 2,
		AvgRefs:        3,
		PctValid:       4,
		AvgTxRate:      5,
	}
	assert.Equal(t, map[string]float64{
		"dag_depth":     1,
		"txs_per_depth": 2,
		"refs":          3,
		"pct_valid":     4,
		"tx_rate":       5,
	}, s.Metrics())
}
