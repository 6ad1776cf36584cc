package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/layered-neat/neat"
)

func genomeWithWeights(shape neat.Shape, weights ...float64) *neat.Genome {
	g := neat.NewRandomGenome(neat.NewRandom(1), 0, shape, neat.NewInnovationTracker(shape))
	for i := range g.Connections {
		g.Connections[i].Weight = weights[i]
	}
	return g
}

func TestActivateWeightedSum(t *testing.T) {
	shape := neat.Shape{Inputs: 2, Outputs: 1}
	net, err := CreateFeedForwardNetwork(genomeWithWeights(shape, 0.5, -2), shape, "identity")
	require.NoError(t, err)

	out, err := net.Activate([]float64{4, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out)

	out, err = net.Activate([]float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{-1.5}, out)
}

func TestActivateBias(t *testing.T) {
	shape := neat.Shape{Inputs: 1, Outputs: 2, Bias: true}
	// Genes: input->out0, input->out1, bias->out0, bias->out1.
	net, err := CreateFeedForwardNetwork(genomeWithWeights(shape, 1, 2, 0.5, -1), shape, "identity")
	require.NoError(t, err)

	out, err := net.Activate([]float64{3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3.5, 5}, out, 1e-12)
}

func TestActivateThroughHiddenNode(t *testing.T) {
	shape := neat.Shape{Inputs: 2, Outputs: 1}
	g := genomeWithWeights(shape, 0.3, 0.7)
	before, err := CreateFeedForwardNetwork(g, shape, "identity")
	require.NoError(t, err)

	tracker := neat.NewInnovationTracker(shape)
	tracker.Innovation(neat.ConnectionKey{In: 0, Out: 2})
	tracker.Innovation(neat.ConnectionKey{In: 1, Out: 2})
	s := neat.DefaultSettings()
	s.Mutation = neat.MutationProbabilities{ProbMutationNewNode: 1}
	g.Mutate(neat.NewRandom(2), &s, tracker)
	require.Len(t, g.Layers, 3)

	after, err := CreateFeedForwardNetwork(g, shape, "identity")
	require.NoError(t, err)
	assert.Len(t, after.NodeEvalOrder, 2)

	// With the identity activation a split leaves the output unchanged.
	for _, in := range [][]float64{{1, 0}, {0, 1}, {2, -3}} {
		want, err := before.Activate(in)
		require.NoError(t, err)
		got, err := after.Activate(in)
		require.NoError(t, err)
		assert.InDeltaSlice(t, want, got, 1e-12)
	}
}

func TestActivateSigmoid(t *testing.T) {
	shape := neat.Shape{Inputs: 1, Outputs: 1}
	net, err := CreateFeedForwardNetwork(genomeWithWeights(shape, 1), shape, "sigmoid")
	require.NoError(t, err)

	out, err := net.Activate([]float64{0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[0], 1e-12)
}

func TestActivateInputMismatch(t *testing.T) {
	shape := neat.Shape{Inputs: 2, Outputs: 1}
	net, err := CreateFeedForwardNetwork(genomeWithWeights(shape, 1, 1), shape, "identity")
	require.NoError(t, err)

	_, err = net.Activate([]float64{1})
	assert.Error(t, err)
}

func TestCreateFeedForwardNetworkErrors(t *testing.T) {
	shape := neat.Shape{Inputs: 2, Outputs: 1}
	_, err := CreateFeedForwardNetwork(genomeWithWeights(shape, 1, 1), shape, "nope")
	assert.Error(t, err)

	bad := genomeWithWeights(shape, 1, 1)
	bad.Connections = append(bad.Connections, neat.Connection{Innovation: 5, In: 2, Out: 0, Enabled: true})
	_, err = CreateFeedForwardNetwork(bad, shape, "identity")
	assert.ErrorIs(t, err, neat.ErrInvalidGenome)
}

func TestGetActivation(t *testing.T) {
	for name := range ActivationFunctions {
		fn, err := GetActivation(name)
		require.NoError(t, err, name)
		assert.NotNil(t, fn)
	}
	relu, err := GetActivation("relu")
	require.NoError(t, err)
	assert.Equal(t, 0.0, relu(-1))
	assert.Equal(t, 2.0, relu(2))

	_, err = GetActivation("unknown")
	assert.Error(t, err)
}
