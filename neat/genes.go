package neat

import (
	"fmt"
	"math"
)

// --------------------------- Node ---------------------------

// Node is a vertex of a genome's computational graph.
type Node struct {
	ID    NodeID
	Value float64 // Scratch state for phenotype evaluation, meaningless between generations.
	Layer LayerID
}

// String returns a string representation of the Node.
func (n Node) String() string {
	return fmt.Sprintf("Node(ID: %d, Layer: %s)", n.ID, n.Layer)
}

// --------------------------- Connection ---------------------------

// ConnectionKey is the structural identity of a connection gene: the
// (in_node_id, out_node_id) pair. The InnovationTracker maps each key to an
// innovation number.
type ConnectionKey struct {
	In  NodeID
	Out NodeID
}

// Connection is a weighted directed edge between two nodes.
// A disabled connection stays in the genome so alignment history is kept.
type Connection struct {
	Innovation int // Gene identity used for alignment between genomes.
	In         NodeID
	Out        NodeID
	Weight     float64
	Enabled    bool
}

// Key returns the structural key of the connection.
func (c Connection) Key() ConnectionKey {
	return ConnectionKey{In: c.In, Out: c.Out}
}

// String returns a string representation of the Connection.
func (c Connection) String() string {
	return fmt.Sprintf("Conn(#%d %d->%d, Weight: %.3f, Enabled: %t)",
		c.Innovation, c.In, c.Out, c.Weight, c.Enabled)
}

// --------------------------- Weight Helpers ---------------------------

// initWeight draws a fresh connection weight.
func initWeight(rng Random) float64 {
	return rng.UniformReal(0, 1)
}

// mutateWeight either perturbs the weight with Gaussian jitter or replaces it
// with a fresh draw, then clamps it to the configured range.
func mutateWeight(w float64, rng Random, s *Settings) float64 {
	if rng.Bernoulli(s.Mutation.ProbMutationWeightPerturbation) {
		w += gaussian(rng) * s.WeightPerturbationPower
	} else {
		w = initWeight(rng)
	}
	return clamp(w, s.WeightMinValue, s.WeightMaxValue)
}

// clamp restricts a value to a given range [minVal, maxVal].
func clamp(value, minVal, maxVal float64) float64 {
	return math.Max(minVal, math.Min(value, maxVal))
}
