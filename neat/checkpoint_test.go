package neat

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evolvedPopulation(t *testing.T, generations int) *Population {
	t.Helper()
	settings := structuralSettings()
	settings.SpeciesSimilarityThreshold = 2
	p := newTestPopulation(t, 15, Shape{Inputs: 2, Outputs: 2, Bias: true}, settings, 50)
	rng := NewRandom(51)
	for gen := 0; gen < generations; gen++ {
		_, err := p.RunGeneration(rng, func(genomes []*Genome) error {
			for _, g := range genomes {
				g.Fitness = float64(len(g.Connections)) + rng.UniformReal(0, 1)
			}
			return nil
		})
		require.NoError(t, err)
	}
	return p
}

func TestCheckpointRoundTrip(t *testing.T) {
	p := evolvedPopulation(t, 5)
	path := filepath.Join(t.TempDir(), "population.gz")
	require.NoError(t, p.SaveCheckpoint(path))

	loaded, err := LoadCheckpoint(path, WithLogger(discardLogger()))
	require.NoError(t, err)

	assert.Equal(t, p.Shape, loaded.Shape)
	assert.Equal(t, p.Settings, loaded.Settings)
	assert.Equal(t, p.Generation, loaded.Generation)
	assert.Equal(t, p.Genomes, loaded.Genomes)
	assert.Equal(t, p.Best, loaded.Best)
	assert.Equal(t, p.Innovations.NextInnovation, loaded.Innovations.NextInnovation)
	assert.Equal(t, p.Innovations.NextNode, loaded.Innovations.NextNode)
	assert.Equal(t, p.Innovations.Genes, loaded.Innovations.Genes)

	require.Len(t, loaded.Species, len(p.Species))
	for i, s := range p.Species {
		assert.Equal(t, s.ID, loaded.Species[i].ID)
		assert.Equal(t, s.Representative, loaded.Species[i].Representative)
		assert.Equal(t, s.StagnantGenerations, loaded.Species[i].StagnantGenerations)
		assert.ElementsMatch(t, s.Genomes, loaded.Species[i].Genomes)
	}

	// The loaded population keeps evolving.
	rng := NewRandom(52)
	for _, g := range loaded.Genomes {
		g.Fitness = 1
	}
	loaded.NextGeneration(rng)
	checkPopulation(t, loaded, len(p.Genomes))
}

func TestLoadCheckpointMissingFile(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "missing.gz"))
	assert.Error(t, err)
}

func TestEncodeDecodeGenome(t *testing.T) {
	shape := Shape{Inputs: 3, Outputs: 1, Bias: true}
	tracker := NewInnovationTracker(shape)
	rng := NewRandom(53)
	s := DefaultSettings()
	g := evolvedGenome(rng, 4, shape, tracker, 30)
	g.Fitness = 2.5
	other := evolvedGenome(rng, 5, shape, tracker, 30)

	var buf bytes.Buffer
	require.NoError(t, EncodeGenome(&buf, g))
	decoded, err := DecodeGenome(&buf)
	require.NoError(t, err)

	assert.Equal(t, g, decoded)
	assert.Equal(t, g.Similarity(other, &s), decoded.Similarity(other, &s))
	assert.Zero(t, decoded.Similarity(g, &s))
}

func TestDecodeGenomeRejectsGarbage(t *testing.T) {
	_, err := DecodeGenome(bytes.NewBufferString("not a genome"))
	assert.Error(t, err)
}
