// SPDX-License-Identifier: MIT

package kinetic_test

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
)

func TestModel_Edges(t *testing.T) {
	m := twoState(t)

	assert.Equal(t, []kinetic.Edge{
		{Origin: StateDocked, Destination: StateFusion, Label: "alpha*"},
		{Origin: StateFusion, Destination: StateDocked, Label: "beta"},
	}, m.Edges())
}

func TestModel_WriteDOT(t *testing.T) {
	m := twoState(t)

	var buf bytes.Buffer
	require.NoError(t, m.WriteDOT(&buf))

	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "two_state.dot", buf.Bytes())
}

func TestModel_WriteDOTWithoutTransitions(t *testing.T) {
	m := kinetic.NewModel(1, kinetic.WithName("lonely"))
	require.NoError(t, m.AddTransitionStates(kinetic.NewTransitionState(StateDocked)))

	var buf bytes.Buffer
	require.NoError(t, m.WriteDOT(&buf))
	assert.Equal(t, "digraph \"lonely\" {\n"+
		"  rankdir=LR;\n"+
		"  size=\"8,5\";\n"+
		"  node [shape=doublecircle, color=lightblue2, style=filled];\n\n"+
		"  \"Docked\";\n"+
		"}\n", buf.String())
}
