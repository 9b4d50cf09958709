// SPDX-License-Identifier: MIT
// Internal tests for event selection, random streams and the resting test.

package solver

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
)

func TestSelectTransition_Boundaries(t *testing.T) {
	props := []float64{1, 2, 3}

	assert.Equal(t, 0, selectTransition(props, 6, 0))
	assert.Equal(t, 0, selectTransition(props, 6, 0.1666))
	assert.Equal(t, 1, selectTransition(props, 6, 0.25))
	assert.Equal(t, 2, selectTransition(props, 6, 0.5), "cumulative must be strictly greater")
	assert.Equal(t, 2, selectTransition(props, 6, 0.9999))
	assert.Equal(t, 2, selectTransition(props, 6, 1), "falls back to the last positive propensity")
	assert.Equal(t, 1, selectTransition([]float64{0, 5, 0}, 5, 0))
}

// TestSelectTransition_ChiSquare checks that transitions fire in proportion to
// their propensity. 13.82 is the 0.999 quantile of χ² with 2 degrees of freedom.
func TestSelectTransition_ChiSquare(t *testing.T) {
	const draws = 12000
	props := []float64{1, 2, 3}
	rng := rand.New(rand.NewSource(42))

	observed := make([]int, len(props))
	for i := 0; i < draws; i++ {
		observed[selectTransition(props, 6, rng.Float64())]++
	}

	var chi2 float64
	for i, p := range props {
		expected := draws * p / 6
		d := float64(observed[i]) - expected
		chi2 += d * d / expected
	}
	assert.Less(t, chi2, 13.82, "observed=%v", observed)
}

func TestStreams_Deterministic(t *testing.T) {
	a := streamRNG(7, domainRun, 3)
	b := streamRNG(7, domainRun, 3)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Int63(), b.Int63())
	}

	assert.NotEqual(t, streamRNG(7, domainRun, 0).Int63(), streamRNG(7, domainRun, 1).Int63())
	assert.NotEqual(t, streamRNG(7, domainRun, 1).Int63(), streamRNG(7, domainResting, 1).Int63())
	assert.Equal(t, streamRNG(0, domainRun, 1).Int63(), streamRNG(defaultRNGSeed, domainRun, 1).Int63())

	r := rngFromSeed(1)
	for i := 0; i < 1000; i++ {
		u := openUnit(r)
		require.Greater(t, u, 0.0)
		require.LessOrEqual(t, u, 1.0)
	}
}

func tableOf(rows ...[]int) *Table {
	names := make([]string, len(rows[0]))
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	tab := newTable(names, nil)
	for i, r := range rows {
		tab.Rows = append(tab.Rows, Row{Time: roundTime(float64(i) * 0.01), States: r, Transitions: []int{}})
	}

	return tab
}

func TestRollingMeans(t *testing.T) {
	tab := tableOf([]int{10, 0}, []int{8, 2}, []int{6, 4})
	means := rollingMeans(tab, 2)

	assert.Nil(t, means[0])
	assert.Equal(t, []float64{9, 1}, means[1])
	assert.Equal(t, []float64{7, 3}, means[2])
}

func TestRestingTest_AcceptsMinimumBelowTolerance(t *testing.T) {
	tab := tableOf(
		[]int{10, 0}, []int{10, 0}, []int{8, 2},
		[]int{8, 2}, []int{8, 2}, []int{8, 2},
	)
	rng := rand.New(rand.NewSource(1))

	point, ok := restingTest(tab, 10, 2, 25, rng)
	require.True(t, ok)
	assert.Equal(t, []int{8, 2}, point.counts)
	assert.InDelta(t, 20, point.change, 1e-12)
	assert.InDelta(t, 0.04, point.time, 1e-12)

	_, ok = restingTest(tab, 10, 2, 5, rng)
	assert.False(t, ok)
}

func TestRestingTest_RoundsHalfToEven(t *testing.T) {
	tab := tableOf(
		[]int{5, 5}, []int{6, 4}, []int{5, 5},
		[]int{6, 4}, []int{5, 5}, []int{6, 4},
	)

	point, ok := restingTest(tab, 10, 2, 0.5, rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.Equal(t, []int{6, 4}, point.counts)
	assert.Zero(t, point.change)
}

func TestRestingTest_RemainderKeepsTotal(t *testing.T) {
	tab := tableOf(
		[]int{2, 3, 5}, []int{3, 2, 5}, []int{2, 3, 5},
		[]int{3, 2, 5}, []int{2, 3, 5}, []int{3, 2, 5},
	)

	point, ok := restingTest(tab, 10, 2, 0.5, rand.New(rand.NewSource(3)))
	require.True(t, ok)
	sum := 0
	for _, c := range point.counts {
		require.GreaterOrEqual(t, c, 2)
		sum += c
	}
	assert.Equal(t, 10, sum)
}

func TestAbsorber_AvoidsNegativeCounts(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for i := 0; i < 50; i++ {
		assert.Equal(t, 1, absorber([]int{0, 10}, -1, rng))
	}
	assert.Equal(t, 1, absorber([]int{0, 1}, -3, rng))
}

func TestTable_MeanAndColumns(t *testing.T) {
	tab := newTable([]string{"A", "B"}, []string{"T"})
	tab.Rows = []Row{
		{Run: 0, Time: 0, States: []int{10, 0}, Transitions: []int{0}},
		{Run: 0, Time: 0.5, States: []int{8, 2}, Transitions: []int{2}},
		{Run: 1, Time: 0, States: []int{10, 0}, Transitions: []int{0}},
		{Run: 1, Time: 0.5, States: []int{6, 4}, Transitions: []int{5}},
	}
	assert.Equal(t, 2, tab.Runs())
	assert.Equal(t, []float64{0, 0.5}, tab.Times())

	col, err := tab.Column("B")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 0, 4}, col)
	_, err = tab.Column("missing")
	require.ErrorIs(t, err, ErrColumnNotFound)

	mt, err := tab.Mean()
	require.NoError(t, err)
	assert.Equal(t, 2, mt.Runs)
	require.Len(t, mt.Rows, 2)
	assert.Equal(t, []float64{7, 3}, mt.Rows[1].States)
	assert.Equal(t, []float64{3.5}, mt.Rows[1].Transitions)

	tcol, err := mt.Column("T")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 3.5}, tcol)
}

func TestTable_MeanErrors(t *testing.T) {
	_, err := newTable([]string{"A"}, nil).Mean()
	require.ErrorIs(t, err, ErrEmptyTable)

	tab := newTable([]string{"A"}, nil)
	tab.Rows = []Row{
		{Run: 0, Time: 0, States: []int{1}},
		{Run: 0, Time: 1, States: []int{1}},
		{Run: 1, Time: 0, States: []int{1}},
		{Run: 1, Time: 2, States: []int{1}},
	}
	_, err = tab.Mean()
	require.ErrorIs(t, err, ErrGridMismatch)

	tab.Rows = tab.Rows[:3]
	_, err = tab.Mean()
	require.ErrorIs(t, err, ErrGridMismatch)
}

func TestRoundTime(t *testing.T) {
	assert.Equal(t, 0.3, roundTime(3*0.1))
	assert.Equal(t, 1.0, roundTime(10000*0.0001))
	assert.False(t, math.Signbit(roundTime(0)))
}

// batchNetwork is A -> B moving 3 vesicles and B -> A moving 2.
func batchNetwork() *kinetic.Network {
	return &kinetic.Network{
		States: []string{"A", "B"},
		Transitions: []kinetic.NetworkTransition{
			{Name: "A->B", Rate: 1, Origin: 0, Destination: 1, Quantity: 3},
			{Name: "B->A", Rate: 2, Origin: 1, Destination: 0, Quantity: 2},
		},
		Vesicles: 7,
	}
}

func TestPropensities_TransferQuantityGate(t *testing.T) {
	s := &Solver{logger: discardLogger()}
	net := batchNetwork()
	props := make([]float64, 2)

	a0 := s.propensities(net, []int{2, 5}, 0, false, props)
	assert.Equal(t, []float64{0, 10}, props, "origin below quantity gets zero propensity")
	assert.Equal(t, 10.0, a0)

	a0 = s.propensities(net, []int{6, 1}, 0, false, props)
	assert.Equal(t, []float64{6, 0}, props)
	assert.Equal(t, 6.0, a0)
}

func TestFeasible_RejectsStrandedRestPoint(t *testing.T) {
	s := &Solver{logger: discardLogger()}
	net := batchNetwork()

	assert.False(t, s.feasible(net, []int{2, 1}), "A<3 and B<2 strands both transitions")
	assert.True(t, s.feasible(net, []int{3, 0}))
	assert.True(t, s.feasible(net, []int{0, 3}))
}
