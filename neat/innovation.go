package neat

// InnovationTracker hands out gene identities and hidden node IDs. It is owned
// by a Population and passed to every operation that creates structure, so
// the same structural change in two lineages gets the same identity.
//
// Fields are exported for checkpointing only.
type InnovationTracker struct {
	NextInnovation int
	NextNode       NodeID
	Genes          map[ConnectionKey]int      // connection key -> innovation number
	Splits         map[ConnectionKey][]NodeID // split connection key -> node ID per version
}

// NewInnovationTracker creates a tracker whose hidden node IDs start after the
// input, bias and output nodes of shape.
func NewInnovationTracker(shape Shape) *InnovationTracker {
	return &InnovationTracker{
		NextNode: NodeID(shape.NodeCount()),
		Genes:    make(map[ConnectionKey]int),
		Splits:   make(map[ConnectionKey][]NodeID),
	}
}

// Innovation returns the innovation number of key, assigning the next one if
// the key has never been seen.
func (t *InnovationTracker) Innovation(key ConnectionKey) int {
	if inno, ok := t.Genes[key]; ok {
		return inno
	}
	inno := t.NextInnovation
	t.NextInnovation++
	t.Genes[key] = inno
	return inno
}

// SplitNode returns the hidden node that splits the connection key. Every
// lineage splitting the same connection gets the same node, unless the genome
// already hosts it (the split happened before in this lineage and the gene was
// re-enabled); then the next version is used, allocated on first need.
func (t *InnovationTracker) SplitNode(key ConnectionKey, hosts func(NodeID) bool) NodeID {
	versions := t.Splits[key]
	for _, id := range versions {
		if !hosts(id) {
			return id
		}
	}
	id := t.NextNode
	t.NextNode++
	t.Splits[key] = append(versions, id)
	return id
}
