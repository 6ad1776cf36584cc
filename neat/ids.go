package neat

import "fmt"

// NodeID identifies a node. Input nodes come first, then the bias node (if
// any), then the outputs; hidden nodes are handed out by the InnovationTracker.
type NodeID int

// GenomeID identifies a genome. It doubles as the genome's slot index in
// Population.Genomes and is stable across generations.
type GenomeID int

// SpeciesID identifies a species. It is the species' index in
// Population.Species and is renumbered when empty species are pruned.
type SpeciesID int

// LayerID orders nodes for feed-forward evaluation. Every connection goes
// from a lower layer to a strictly higher one.
type LayerID uint64

const (
	// InputLayer holds input and bias nodes.
	InputLayer LayerID = 0
	// OutputLayer is the reserved maximum layer holding output nodes.
	OutputLayer LayerID = 1 << 62
)

// Between returns the layer halfway between l and upper. ok is false when
// there is no integer layer strictly between them.
func (l LayerID) Between(upper LayerID) (mid LayerID, ok bool) {
	if upper <= l || upper-l < 2 {
		return 0, false
	}
	return l + (upper-l)/2, true
}

func (l LayerID) String() string {
	switch l {
	case InputLayer:
		return "input"
	case OutputLayer:
		return "output"
	}
	return fmt.Sprintf("hidden(%d)", uint64(l))
}
