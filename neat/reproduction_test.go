package neat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func TestComputeSpawnAmounts(t *testing.T) {
	tests := []struct {
		name    string
		shares  []float64
		popSize int
		want    []int
	}{
		{"even split with remainder", []float64{1, 1, 1}, 10, []int{4, 3, 3}},
		{"largest remainder wins", []float64{0.5, 0, 0.25}, 7, []int{5, 0, 2}},
		{"single share", []float64{0, 3, 0}, 9, []int{0, 9, 0}},
		{"no fitness", []float64{0, 0}, 10, []int{0, 0}},
		{"no species", nil, 10, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeSpawnAmounts(tt.shares, tt.popSize))
		})
	}
}

func TestComputeSpawnAmountsSumsToPopulationSize(t *testing.T) {
	rng := NewRandom(31)
	for i := 0; i < 200; i++ {
		shares := make([]float64, 1+rng.UniformInt(12))
		for j := range shares {
			if rng.Bernoulli(0.8) {
				shares[j] = rng.UniformReal(0, 5)
			}
		}
		shares[0] += 0.01
		popSize := 1 + rng.UniformInt(200)

		amounts := computeSpawnAmounts(shares, popSize)
		require.Equal(t, popSize, sum(amounts))
		for j, a := range amounts {
			if shares[j] == 0 {
				assert.Zero(t, a)
			}
		}
	}
}

func TestOffspringSpeciesKeepsChampions(t *testing.T) {
	p := newTestPopulation(t, 6, Shape{Inputs: 2, Outputs: 1}, DefaultSettings(), 41)
	for i, g := range p.Genomes {
		g.Fitness = float64(i)
	}
	best := p.Genomes[5].Copy()

	rng := NewRandom(42)
	p.speciate()
	p.computeAdjustedFitness()
	p.sortSpecies()
	p.computeStagnation()
	p.computeSpeciesBounds()
	require.Len(t, p.Species, 1)
	require.Equal(t, 6, p.Species[0].Bounds)

	p.offspringSpecies(rng)
	require.Len(t, p.Genomes, 6)

	// Five champions are copied unchanged, best first.
	champion := p.Genomes[0]
	assert.Equal(t, best.Connections, champion.Connections)
	assert.Equal(t, best.Fitness, champion.Fitness)
	assert.Equal(t, GenomeID(0), champion.ID)
	for i, g := range p.Genomes {
		assert.Equal(t, GenomeID(i), g.ID)
		assert.Equal(t, SpeciesID(0), g.Species)
		require.NoError(t, g.Validate())
	}
	assert.Zero(t, p.Genomes[5].Fitness)
	assert.Equal(t, []GenomeID{0, 1, 2, 3, 4, 5}, p.Species[0].Genomes)
}

func TestOffspringSpeciesReseedsWithoutFitness(t *testing.T) {
	p := newTestPopulation(t, 8, Shape{Inputs: 2, Outputs: 2}, DefaultSettings(), 43)

	p.speciate()
	p.computeAdjustedFitness()
	p.sortSpecies()
	p.computeStagnation()
	p.computeSpeciesBounds()
	for _, s := range p.Species {
		assert.Zero(t, s.Bounds)
	}

	p.offspringSpecies(NewRandom(44))
	require.Len(t, p.Genomes, 8)
	for i, g := range p.Genomes {
		assert.Equal(t, GenomeID(i), g.ID)
		require.NoError(t, g.Validate())
	}
}

func TestComputeSpawnAmountsRejectsNonFiniteShares(t *testing.T) {
	for _, shares := range [][]float64{
		{1, math.Inf(1)},
		{math.NaN(), 1},
		{-1, 2},
	} {
		assert.Panics(t, func() { computeSpawnAmounts(shares, 10) }, "shares %v", shares)
	}
}

func TestComputeSpawnAmountsHugeShares(t *testing.T) {
	assert.Equal(t, []int{5, 5}, computeSpawnAmounts([]float64{math.MaxFloat64, math.MaxFloat64}, 10))
	assert.Equal(t, []int{10, 0}, computeSpawnAmounts([]float64{math.MaxFloat64, 0}, 10))
}

func TestMateLeavesPrimaryChoiceToCrossover(t *testing.T) {
	settings := DefaultSettings()
	settings.Mutation.ProbMatingInterspecies = 1
	p := newTestPopulation(t, 2, Shape{Inputs: 2, Outputs: 1}, settings, 45)
	rng := NewRandom(46)

	split := onlySettings(MutationProbabilities{ProbMutationNewNode: 1})
	p.Genomes[0].Mutate(rng, &split, p.Innovations)
	own := &Species{ID: 0, Genomes: []GenomeID{1}, Bounds: 1}
	other := &Species{ID: 1, Genomes: []GenomeID{0}, Bounds: 1}
	mates := []*Species{own, other}

	// Raw fitness decides even when adjusted fitness disagrees.
	p.Genomes[0].Fitness, p.Genomes[0].AdjustedFitness = 1, 0.1
	p.Genomes[1].Fitness, p.Genomes[1].AdjustedFitness = 0.5, 0.5
	child := p.mate(rng, own, mates, 5)
	assert.Equal(t, innovations(p.Genomes[0]), innovations(child))
	assert.Equal(t, GenomeID(5), child.ID)

	// On a fitness tie the member of the mating species is primary.
	p.Genomes[0].Fitness, p.Genomes[0].AdjustedFitness = 1, 0.5
	p.Genomes[1].Fitness, p.Genomes[1].AdjustedFitness = 1, 0.1
	child = p.mate(rng, own, mates, 5)
	assert.Equal(t, innovations(p.Genomes[1]), innovations(child))
}
