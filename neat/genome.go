package neat

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
)

// ErrInvalidGenome is wrapped by every structural validation failure.
var ErrInvalidGenome = errors.New("invalid genome")

// Shape is the input/output interface shared by every genome of a population.
// It is fixed when the population is built.
type Shape struct {
	Inputs  int
	Outputs int
	Bias    bool
}

// Validate rejects interfaces without inputs or outputs.
func (s Shape) Validate() error {
	if s.Inputs <= 0 {
		return fmt.Errorf("%w: inputs must be positive, got %d", ErrInvalidShape, s.Inputs)
	}
	if s.Outputs <= 0 {
		return fmt.Errorf("%w: outputs must be positive, got %d", ErrInvalidShape, s.Outputs)
	}
	return nil
}

// InputCount returns the number of nodes in the input layer, bias included.
func (s Shape) InputCount() int {
	if s.Bias {
		return s.Inputs + 1
	}
	return s.Inputs
}

// NodeCount returns the number of input, bias and output nodes.
func (s Shape) NodeCount() int {
	return s.InputCount() + s.Outputs
}

// BiasNode returns the ID of the bias node, if the shape has one.
func (s Shape) BiasNode() (NodeID, bool) {
	return NodeID(s.Inputs), s.Bias
}

// OutputNodes returns the IDs of the output nodes in order.
func (s Shape) OutputNodes() []NodeID {
	ids := make([]NodeID, s.Outputs)
	for i := range ids {
		ids[i] = NodeID(s.InputCount() + i)
	}
	return ids
}

// Genome represents one candidate network topology in the population.
type Genome struct {
	ID              GenomeID
	Connections     []Connection // Sorted by ascending innovation number.
	Layers          []LayerID    // Sorted ascending; Layers[i] is the layer of Nodes[i].
	Nodes           [][]Node     // Nodes grouped by layer.
	Fitness         float64      // Written by the caller's evaluator.
	AdjustedFitness float64      // Fitness shared among the species members.
	Species         SpeciesID
}

// NewRandomGenome builds the minimal topology for shape: one input layer, one
// output layer and every input connected to every output with a uniform
// weight in [0, 1).
func NewRandomGenome(rng Random, id GenomeID, shape Shape, tracker *InnovationTracker) *Genome {
	g := &Genome{
		ID:     id,
		Layers: []LayerID{InputLayer, OutputLayer},
		Nodes:  make([][]Node, 2),
	}

	inputs := make([]Node, shape.InputCount())
	for i := range inputs {
		inputs[i] = Node{ID: NodeID(i), Layer: InputLayer}
	}
	outputs := make([]Node, shape.Outputs)
	for i, id := range shape.OutputNodes() {
		outputs[i] = Node{ID: id, Layer: OutputLayer}
	}
	g.Nodes[0], g.Nodes[1] = inputs, outputs

	g.Connections = make([]Connection, 0, len(inputs)*len(outputs))
	for _, in := range inputs {
		for _, out := range outputs {
			key := ConnectionKey{In: in.ID, Out: out.ID}
			g.Connections = append(g.Connections, Connection{
				Innovation: tracker.Innovation(key),
				In:         in.ID,
				Out:        out.ID,
				Weight:     initWeight(rng),
				Enabled:    true,
			})
		}
	}
	g.sortConnections()
	return g
}

// Copy creates a deep copy of the Genome.
func (g *Genome) Copy() *Genome {
	c := *g
	c.Connections = slices.Clone(g.Connections)
	c.Layers = slices.Clone(g.Layers)
	c.Nodes = make([][]Node, len(g.Nodes))
	for i, group := range g.Nodes {
		c.Nodes[i] = slices.Clone(group)
	}
	return &c
}

// String returns a short summary of the Genome.
func (g *Genome) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Genome(ID: %d, Species: %d, Fitness: %.4f, Nodes: %d, Layers: %d)",
		g.ID, g.Species, g.Fitness, g.NodeCount(), len(g.Layers))
	for _, c := range g.Connections {
		sb.WriteString("\n  ")
		sb.WriteString(c.String())
	}
	return sb.String()
}

// NodeCount returns the number of nodes across all layers.
func (g *Genome) NodeCount() int {
	n := 0
	for _, group := range g.Nodes {
		n += len(group)
	}
	return n
}

// Node looks up a node by ID.
func (g *Genome) Node(id NodeID) (Node, bool) {
	for _, group := range g.Nodes {
		for _, n := range group {
			if n.ID == id {
				return n, true
			}
		}
	}
	return Node{}, false
}

// HasNode reports whether the genome hosts node id.
func (g *Genome) HasNode(id NodeID) bool {
	_, ok := g.Node(id)
	return ok
}

// EnabledConnections returns the active genes in innovation order.
func (g *Genome) EnabledConnections() []Connection {
	active := make([]Connection, 0, len(g.Connections))
	for _, c := range g.Connections {
		if c.Enabled {
			active = append(active, c)
		}
	}
	return active
}

// MaxInnovation returns the highest innovation number in the genome, or -1
// for a genome without genes.
func (g *Genome) MaxInnovation() int {
	if len(g.Connections) == 0 {
		return -1
	}
	return g.Connections[len(g.Connections)-1].Innovation
}

// connectionIndex returns the position of the gene with the given key.
func (g *Genome) connectionIndex(key ConnectionKey) (int, bool) {
	for i, c := range g.Connections {
		if c.In == key.In && c.Out == key.Out {
			return i, true
		}
	}
	return -1, false
}

// addNode places n in its layer group, creating the layer if needed.
func (g *Genome) addNode(n Node) {
	i := sort.Search(len(g.Layers), func(i int) bool { return g.Layers[i] >= n.Layer })
	if i < len(g.Layers) && g.Layers[i] == n.Layer {
		g.Nodes[i] = append(g.Nodes[i], n)
		return
	}
	g.Layers = slices.Insert(g.Layers, i, n.Layer)
	g.Nodes = slices.Insert(g.Nodes, i, []Node{n})
}

// addConnection inserts c keeping the innovation order.
func (g *Genome) addConnection(c Connection) {
	i := sort.Search(len(g.Connections), func(i int) bool {
		return g.Connections[i].Innovation >= c.Innovation
	})
	g.Connections = slices.Insert(g.Connections, i, c)
}

func (g *Genome) sortConnections() {
	slices.SortFunc(g.Connections, func(a, b Connection) int {
		return a.Innovation - b.Innovation
	})
}

// Similarity returns the compatibility distance between g and other. Genes are
// aligned by innovation number: matching genes contribute their weight
// difference, the others count as excess when they lie beyond the other
// genome's highest innovation and as disjoint otherwise.
//
// d = (c_excess*E + c_disjoint*D) / N + c_weight * W/matching
//
// N is the larger gene count, or 1 when both genomes are smaller than
// NormalizedGeneSize. Neither genome is modified.
func (g *Genome) Similarity(other *Genome, s *Settings) float64 {
	a, b := g.Connections, other.Connections
	maxA, maxB := g.MaxInnovation(), other.MaxInnovation()

	excess, disjoint, matching := 0, 0, 0
	weightDifference := 0.0

	unmatched := func(innovation, otherMax int) {
		if innovation > otherMax {
			excess++
		} else {
			disjoint++
		}
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].Innovation == b[j].Innovation:
			d := a[i].Weight - b[j].Weight
			if d < 0 {
				d = -d
			}
			weightDifference += d
			matching++
			i++
			j++
		case a[i].Innovation < b[j].Innovation:
			unmatched(a[i].Innovation, maxB)
			i++
		default:
			unmatched(b[j].Innovation, maxA)
			j++
		}
	}
	for ; i < len(a); i++ {
		unmatched(a[i].Innovation, maxB)
	}
	for ; j < len(b); j++ {
		unmatched(b[j].Innovation, maxA)
	}

	n := max(len(a), len(b), 1)
	if len(a) < s.NormalizedGeneSize && len(b) < s.NormalizedGeneSize {
		n = 1
	}

	distance := (s.Similarity.Excess*float64(excess) + s.Similarity.Disjoint*float64(disjoint)) / float64(n)
	if matching > 0 {
		distance += s.Similarity.Weight * (weightDifference / float64(matching))
	}
	return distance
}

// Validate checks the structural invariants: layers ascending and matching
// their node groups, unique node IDs, unique gene identities, connection
// endpoints present and every connection pointing to a strictly higher layer.
func (g *Genome) Validate() error {
	if len(g.Layers) != len(g.Nodes) {
		return fmt.Errorf("%w: genome %d has %d layers but %d node groups", ErrInvalidGenome, g.ID, len(g.Layers), len(g.Nodes))
	}
	layerOf := make(map[NodeID]LayerID, g.NodeCount())
	for i, layer := range g.Layers {
		if i > 0 && g.Layers[i-1] >= layer {
			return fmt.Errorf("%w: genome %d layers out of order at %d", ErrInvalidGenome, g.ID, i)
		}
		for _, n := range g.Nodes[i] {
			if n.Layer != layer {
				return fmt.Errorf("%w: genome %d node %d filed under layer %s but has layer %s", ErrInvalidGenome, g.ID, n.ID, layer, n.Layer)
			}
			if _, dup := layerOf[n.ID]; dup {
				return fmt.Errorf("%w: genome %d has duplicate node %d", ErrInvalidGenome, g.ID, n.ID)
			}
			layerOf[n.ID] = layer
		}
	}

	keys := make(map[ConnectionKey]bool, len(g.Connections))
	for i, c := range g.Connections {
		if i > 0 && g.Connections[i-1].Innovation >= c.Innovation {
			return fmt.Errorf("%w: genome %d gene identity %d duplicated or out of order", ErrInvalidGenome, g.ID, c.Innovation)
		}
		if keys[c.Key()] {
			return fmt.Errorf("%w: genome %d has duplicate connection %d->%d", ErrInvalidGenome, g.ID, c.In, c.Out)
		}
		keys[c.Key()] = true

		from, ok := layerOf[c.In]
		if !ok {
			return fmt.Errorf("%w: genome %d connection %d->%d has unknown source", ErrInvalidGenome, g.ID, c.In, c.Out)
		}
		to, ok := layerOf[c.Out]
		if !ok {
			return fmt.Errorf("%w: genome %d connection %d->%d has unknown destination", ErrInvalidGenome, g.ID, c.In, c.Out)
		}
		if from >= to {
			return fmt.Errorf("%w: genome %d connection %d->%d goes from layer %s to %s", ErrInvalidGenome, g.ID, c.In, c.Out, from, to)
		}
	}
	return nil
}
