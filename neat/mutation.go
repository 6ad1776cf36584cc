package neat

// Mutate applies weight and structural mutations to the genome in place, each
// with its own probability. Mutation never removes a gene and never creates a
// connection that does not point to a higher layer.
func (g *Genome) Mutate(rng Random, s *Settings, tracker *InnovationTracker) {
	if rng.Bernoulli(s.Mutation.ProbMutationWeight) {
		g.mutateWeights(rng, s)
	}
	if rng.Bernoulli(s.Mutation.ProbMutationNewConnection) {
		g.mutateAddConnection(rng, s, tracker)
	}
	if rng.Bernoulli(s.Mutation.ProbMutationNewNode) {
		g.mutateAddNode(rng, tracker)
	}
}

// mutateWeights perturbs or replaces the weight of every enabled connection.
func (g *Genome) mutateWeights(rng Random, s *Settings) {
	for i := range g.Connections {
		if g.Connections[i].Enabled {
			g.Connections[i].Weight = mutateWeight(g.Connections[i].Weight, rng, s)
		}
	}
}

// mutateAddConnection attempts to connect two nodes of different layers that
// have no gene between them yet. The connection always runs from the lower
// layer to the higher one.
func (g *Genome) mutateAddConnection(rng Random, s *Settings, tracker *InnovationTracker) bool {
	if len(g.Layers) < 2 {
		return false
	}
	nodes := make([]Node, 0, g.NodeCount())
	for _, group := range g.Nodes {
		nodes = append(nodes, group...)
	}

	// Limit attempts to prevent long loops in densely connected genomes.
	for attempt := 0; attempt < s.AddConnectionAttempts; attempt++ {
		from := nodes[rng.UniformInt(len(nodes))]
		to := nodes[rng.UniformInt(len(nodes))]
		if from.Layer == to.Layer {
			continue
		}
		if from.Layer > to.Layer {
			from, to = to, from
		}

		key := ConnectionKey{In: from.ID, Out: to.ID}
		if _, exists := g.connectionIndex(key); exists {
			continue
		}

		g.addConnection(Connection{
			Innovation: tracker.Innovation(key),
			In:         from.ID,
			Out:        to.ID,
			Weight:     initWeight(rng),
			Enabled:    true,
		})
		return true
	}
	return false
}

// mutateAddNode splits an enabled connection: the connection is disabled and a
// new node is placed on the layer halfway between its endpoints. The incoming
// leg gets weight 1.0 and the outgoing leg the original weight, so the split
// starts out close to the original behaviour.
func (g *Genome) mutateAddNode(rng Random, tracker *InnovationTracker) bool {
	layerOf := make(map[NodeID]LayerID, g.NodeCount())
	for _, group := range g.Nodes {
		for _, n := range group {
			layerOf[n.ID] = n.Layer
		}
	}

	// Only connections with room for an intermediate layer can be split.
	candidates := make([]int, 0, len(g.Connections))
	for i, c := range g.Connections {
		if !c.Enabled {
			continue
		}
		if _, ok := layerOf[c.In].Between(layerOf[c.Out]); ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return false
	}

	idx := candidates[rng.UniformInt(len(candidates))]
	split := g.Connections[idx]
	g.Connections[idx].Enabled = false

	layer, _ := layerOf[split.In].Between(layerOf[split.Out])
	newNode := Node{ID: tracker.SplitNode(split.Key(), g.HasNode), Layer: layer}
	g.addNode(newNode)

	inKey := ConnectionKey{In: split.In, Out: newNode.ID}
	g.addConnection(Connection{
		Innovation: tracker.Innovation(inKey),
		In:         split.In,
		Out:        newNode.ID,
		Weight:     1.0,
		Enabled:    true,
	})
	outKey := ConnectionKey{In: newNode.ID, Out: split.Out}
	g.addConnection(Connection{
		Innovation: tracker.Innovation(outKey),
		In:         newNode.ID,
		Out:        split.Out,
		Weight:     split.Weight,
		Enabled:    true,
	})
	return true
}
