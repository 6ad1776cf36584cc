package nn

import (
	"fmt"

	"github.com/baldhumanity/layered-neat/neat"
)

// neuralNode is a non-input node during network activation.
type neuralNode struct {
	ID       neat.NodeID
	Incoming []neat.Connection // Enabled connections ending at this node.
}

// FeedForwardNetwork is a phenotype built from a genome. Nodes are evaluated
// layer by layer, which is a valid topological order because every
// connection points to a higher layer.
type FeedForwardNetwork struct {
	InputNodes    []neat.NodeID
	BiasNode      neat.NodeID
	HasBias       bool
	OutputNodes   []neat.NodeID
	NodeEvalOrder []neuralNode
	Activation    ActivationType
	index         map[neat.NodeID]int // node ID -> position in the value buffer
}

// CreateFeedForwardNetwork builds a runnable network from a genome of the
// given shape, applying the named activation function to every non-input node.
func CreateFeedForwardNetwork(g *neat.Genome, shape neat.Shape, activation string) (*FeedForwardNetwork, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("cannot create network: %w", err)
	}
	actFn, err := GetActivation(activation)
	if err != nil {
		return nil, fmt.Errorf("cannot create network: %w", err)
	}

	net := &FeedForwardNetwork{
		OutputNodes: shape.OutputNodes(),
		Activation:  actFn,
		index:       make(map[neat.NodeID]int, g.NodeCount()),
	}
	net.BiasNode, net.HasBias = shape.BiasNode()
	for i := 0; i < shape.Inputs; i++ {
		net.InputNodes = append(net.InputNodes, neat.NodeID(i))
	}

	incoming := make(map[neat.NodeID][]neat.Connection)
	for _, c := range g.EnabledConnections() {
		incoming[c.Out] = append(incoming[c.Out], c)
	}

	for i, layer := range g.Layers {
		for _, n := range g.Nodes[i] {
			net.index[n.ID] = len(net.index)
			if layer == neat.InputLayer {
				continue
			}
			net.NodeEvalOrder = append(net.NodeEvalOrder, neuralNode{ID: n.ID, Incoming: incoming[n.ID]})
		}
	}
	for _, id := range append(append([]neat.NodeID{}, net.InputNodes...), net.OutputNodes...) {
		if _, ok := net.index[id]; !ok {
			return nil, fmt.Errorf("cannot create network: genome %d lacks interface node %d", g.ID, id)
		}
	}
	return net, nil
}

// Activate computes the network's output for a given slice of input values.
// The input slice must match the number of input nodes; the bias node, if
// any, always emits 1.
func (net *FeedForwardNetwork) Activate(inputs []float64) ([]float64, error) {
	if len(inputs) != len(net.InputNodes) {
		return nil, fmt.Errorf("mismatch between input count (%d) and network input nodes (%d)", len(inputs), len(net.InputNodes))
	}

	values := make([]float64, len(net.index))
	for i, id := range net.InputNodes {
		values[net.index[id]] = inputs[i]
	}
	if net.HasBias {
		values[net.index[net.BiasNode]] = 1.0
	}

	for _, node := range net.NodeEvalOrder {
		sum := 0.0
		for _, c := range node.Incoming {
			sum += values[net.index[c.In]] * c.Weight
		}
		values[net.index[node.ID]] = net.Activation(sum)
	}

	outputs := make([]float64, len(net.OutputNodes))
	for i, id := range net.OutputNodes {
		outputs[i] = values[net.index[id]]
	}
	return outputs, nil
}
