// SPDX-License-Identifier: MIT
// Package kinetic_test contains shared fixtures for the kinetic package tests.

package kinetic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexini-mv/kinetic-neurotransmission/kinetic"
)

// State and rate identifiers shared across tests.
const (
	StateDocked = "Docked"
	StateFusion = "Fusion"
	StatePrimed = "Primed"

	RateAlpha = "alpha"
	RateBeta  = "beta"

	TransitionForward  = "Transition 1"
	TransitionBackward = "Transition 2"
)

// twoState builds the Docked ⇄ Fusion model with 100 vesicles, not yet initialized.
func twoState(t *testing.T) *kinetic.Model {
	t.Helper()

	alpha, err := kinetic.NewRateConstant(RateAlpha, 0.3, true)
	require.NoError(t, err)
	beta, err := kinetic.NewRateConstant(RateBeta, 15, false)
	require.NoError(t, err)

	forward, err := kinetic.NewTransition(TransitionForward, alpha, StateDocked, StateFusion)
	require.NoError(t, err)
	backward, err := kinetic.NewTransition(TransitionBackward, beta, StateFusion, StateDocked)
	require.NoError(t, err)

	m := kinetic.NewModel(100, kinetic.WithName("two-state"))
	require.NoError(t, m.AddTransitionStates(kinetic.NewTransitionState(StateDocked), kinetic.NewTransitionState(StateFusion)))
	require.NoError(t, m.AddRateConstants(alpha, beta))
	require.NoError(t, m.AddTransitions(forward, backward))

	return m
}
