package neat

import "fmt"

// Crossover creates a new genome with the given id by combining the genes of
// two parents. The fitter parent (parent1 on a tie) is the primary one:
//
//   - matching genes come from the primary parent with probability
//     ProbInheritOnFitterGenome, otherwise from the other parent;
//   - a matching gene disabled in either parent is inherited disabled with
//     probability ProbInheritDisabledGene;
//   - disjoint and excess genes come from the primary parent only.
//
// The child hosts the input and output nodes plus every node its genes
// reference. The result is validated before it is returned.
func Crossover(parent1, parent2 *Genome, id GenomeID, rng Random, s *Settings) (*Genome, error) {
	primary, secondary := parent1, parent2
	if parent2.Fitness > parent1.Fitness {
		primary, secondary = parent2, parent1
	}

	matches := make(map[int]Connection, len(secondary.Connections))
	for _, c := range secondary.Connections {
		matches[c.Innovation] = c
	}

	child := &Genome{ID: id}
	child.Connections = make([]Connection, 0, len(primary.Connections))
	for _, c := range primary.Connections {
		gene := c
		if other, ok := matches[c.Innovation]; ok {
			if !rng.Bernoulli(s.Mutation.ProbInheritOnFitterGenome) {
				gene = other
			}
			if !c.Enabled || !other.Enabled {
				gene.Enabled = !rng.Bernoulli(s.Mutation.ProbInheritDisabledGene)
			}
		}
		child.Connections = append(child.Connections, gene)
	}

	// Node records from both parents; the primary wins when both host a node.
	nodes := make(map[NodeID]Node, primary.NodeCount())
	for _, parent := range []*Genome{secondary, primary} {
		for _, group := range parent.Nodes {
			for _, n := range group {
				nodes[n.ID] = Node{ID: n.ID, Layer: n.Layer}
			}
		}
	}

	hosted := make(map[NodeID]bool, len(nodes))
	host := func(id NodeID) error {
		if hosted[id] {
			return nil
		}
		n, ok := nodes[id]
		if !ok {
			return fmt.Errorf("%w: node %d is hosted by neither parent", ErrInvalidGenome, id)
		}
		hosted[id] = true
		child.addNode(n)
		return nil
	}

	// The interface nodes are always present, in the primary's order.
	for i, layer := range primary.Layers {
		if layer != InputLayer && layer != OutputLayer {
			continue
		}
		for _, n := range primary.Nodes[i] {
			if err := host(n.ID); err != nil {
				return nil, fmt.Errorf("crossover of genomes %d and %d: %w", parent1.ID, parent2.ID, err)
			}
		}
	}
	for _, c := range child.Connections {
		if err := host(c.In); err != nil {
			return nil, fmt.Errorf("crossover of genomes %d and %d: %w", parent1.ID, parent2.ID, err)
		}
		if err := host(c.Out); err != nil {
			return nil, fmt.Errorf("crossover of genomes %d and %d: %w", parent1.ID, parent2.ID, err)
		}
	}

	if err := child.Validate(); err != nil {
		return nil, fmt.Errorf("crossover of genomes %d and %d: %w", parent1.ID, parent2.ID, err)
	}
	return child, nil
}
