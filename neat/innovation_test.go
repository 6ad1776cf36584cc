package neat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInnovationIsStablePerKey(t *testing.T) {
	tracker := NewInnovationTracker(Shape{Inputs: 2, Outputs: 1})

	a := tracker.Innovation(ConnectionKey{In: 0, Out: 2})
	b := tracker.Innovation(ConnectionKey{In: 1, Out: 2})
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, a, tracker.Innovation(ConnectionKey{In: 0, Out: 2}))
	assert.Equal(t, 2, tracker.Innovation(ConnectionKey{In: 2, Out: 0}))
	assert.Equal(t, 3, tracker.NextInnovation)
}

func TestSplitNodeVersions(t *testing.T) {
	tracker := NewInnovationTracker(Shape{Inputs: 2, Outputs: 1, Bias: true})
	key := ConnectionKey{In: 0, Out: 3}
	none := func(NodeID) bool { return false }

	first := tracker.SplitNode(key, none)
	assert.Equal(t, NodeID(4), first)
	assert.Equal(t, first, tracker.SplitNode(key, none))

	// A genome that already hosts the first version gets a second one.
	hostsFirst := func(id NodeID) bool { return id == first }
	second := tracker.SplitNode(key, hostsFirst)
	assert.Equal(t, NodeID(5), second)
	assert.Equal(t, second, tracker.SplitNode(key, hostsFirst))
	assert.Equal(t, first, tracker.SplitNode(key, none))

	other := tracker.SplitNode(ConnectionKey{In: 1, Out: 3}, none)
	assert.Equal(t, NodeID(6), other)
	assert.Equal(t, []NodeID{first, second}, tracker.Splits[key])
}

func TestBetween(t *testing.T) {
	mid, ok := InputLayer.Between(OutputLayer)
	assert.True(t, ok)
	assert.Equal(t, OutputLayer/2, mid)

	mid, ok = LayerID(10).Between(14)
	assert.True(t, ok)
	assert.Equal(t, LayerID(12), mid)

	_, ok = LayerID(10).Between(11)
	assert.False(t, ok)
	_, ok = LayerID(10).Between(10)
	assert.False(t, ok)
	_, ok = OutputLayer.Between(InputLayer)
	assert.False(t, ok)
}

func TestLayerString(t *testing.T) {
	assert.Equal(t, "input", InputLayer.String())
	assert.Equal(t, "output", OutputLayer.String())
	assert.Equal(t, "hidden(7)", LayerID(7).String())
}
