// SPDX-License-Identifier: MIT
// File: graph.go
// Role: read-only graph export of the model (triples and Graphviz DOT).
//
// Determinism:
//   - Nodes follow state declaration order, edges follow transition declaration order,
//     so the rendered DOT is stable and golden-friendly.

package kinetic

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// calciumMarker is appended to the label of calcium-dependent rate constants.
const calciumMarker = "*"

// Edge is one exported transition: origin → destination labelled by its rate constant.
type Edge struct {
	Origin      string
	Destination string
	Label       string
}

// Edges returns one Edge per transition in declaration order.
func (m *Model) Edges() []Edge {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Edge, len(m.transitions))
	for i, t := range m.transitions {
		label := t.rate.name
		if t.rate.calciumDependent {
			label += calciumMarker
		}
		out[i] = Edge{Origin: t.origin, Destination: t.destination, Label: label}
	}

	return out
}

// WriteDOT renders the model as a left-to-right Graphviz digraph.
func (m *Model) WriteDOT(w io.Writer) error {
	edges := m.Edges()
	names := m.StateNames()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %q {\n", m.Name())
	bw.WriteString("  rankdir=LR;\n")
	bw.WriteString("  size=\"8,5\";\n")
	bw.WriteString("  node [shape=doublecircle, color=lightblue2, style=filled];\n\n")
	for _, name := range names {
		fmt.Fprintf(bw, "  %q;\n", name)
	}
	if len(edges) > 0 {
		bw.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(bw, "  %q -> %q [label=%q];\n", e.Origin, e.Destination, e.Label)
	}
	bw.WriteString("}\n")

	return bw.Flush()
}

// String renders the model information block.
func (m *Model) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	const width = 50
	lines := []string{
		"",
		center("  MODEL INFORMATION  ", width, '='),
		padRight("MODEL NAME:", infoLeft) + m.name,
		padRight("TOTAL VESICLES:", infoLeft) + fmt.Sprint(m.vesicles),
		padRight("RESTING STATE:", infoLeft) + fmt.Sprint(m.restingSet),
		"",
		padRight("TRANSITION STATES", infoLeft) + "VESICLES",
	}
	for _, s := range m.states {
		lines = append(lines, s.String())
	}
	for _, t := range m.transitions {
		lines = append(lines, t.String())
	}
	lines = append(lines, strings.Repeat("=", width))

	return strings.Join(lines, "\n")
}

// center pads s on both sides with fill up to width runes (extra padding goes right).
func center(s string, width int, fill rune) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left

	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), right)
}
