package neat

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// ErrInvalidFitness is returned when an evaluator assigns a NaN or infinite fitness.
var ErrInvalidFitness = errors.New("fitness must be finite")

// FitnessFunc is the type for the function provided by the user to evaluate
// genome fitness. It should set the Fitness field of every genome; fitness
// values are expected to be finite and non-negative.
type FitnessFunc func(genomes []*Genome) error

// Population holds the state of the NEAT evolutionary process. It is the only
// owner of its genomes and species; generations are advanced one call at a
// time and never concurrently.
type Population struct {
	Shape       Shape
	Settings    Settings
	Genomes     []*Genome // Genomes[i].ID == i; slots are reused across generations.
	Species     []*Species
	Innovations *InnovationTracker
	Generation  int
	Best        *Genome // Copy of the fittest genome evaluated so far.

	logger    *slog.Logger
	distances []float64 // Compatibility distances computed by the last speciation.
}

// Option configures a Population.
type Option func(*Population)

// WithLogger sets the logger used to report the progress of the evolution.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Population) {
		p.logger = logger
	}
}

// NewPopulation creates a population of size random minimal genomes of the
// given shape.
func NewPopulation(size int, shape Shape, settings Settings, rng Random, opts ...Option) (*Population, error) {
	if size <= 0 {
		return nil, fmt.Errorf("failed to create population: %w", ErrEmptyPopulation)
	}
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create population: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create population: %w", err)
	}

	p := &Population{
		Shape:       shape,
		Settings:    settings,
		Genomes:     make([]*Genome, size),
		Innovations: NewInnovationTracker(shape),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for i := range p.Genomes {
		p.Genomes[i] = NewRandomGenome(rng, GenomeID(i), shape, p.Innovations)
		p.Genomes[i].Species = NoSpecies
	}
	return p, nil
}

// NewPopulationFromConfig creates a population as described by config.
func NewPopulationFromConfig(config *Config, rng Random, opts ...Option) (*Population, error) {
	return NewPopulation(config.Neat.PopulationSize, config.Neat.Shape(), config.Settings, rng, opts...)
}

// NextGeneration advances the population by one generation. Fitness must have
// been assigned to every genome beforehand and must be finite; it panics
// otherwise.
func (p *Population) NextGeneration(rng Random) {
	if err := p.checkFitness(); err != nil {
		panic(fmt.Sprintf("generation %d: %v", p.Generation, err))
	}
	start := time.Now()

	p.speciate()
	p.computeAdjustedFitness()
	p.sortSpecies()
	p.computeStagnation()
	p.computeSpeciesBounds()
	p.offspringSpecies(rng)
	p.electRepresentatives(rng)
	p.cleanSpecies()

	p.logger.Info("generation finished",
		"generation", p.Generation, "species", len(p.Species), "elapsed", time.Since(start))
	p.Generation++
}

// RunGeneration evaluates the current genomes with fitnessFunc, records the
// best genome and advances to the next generation. It returns the best genome
// of the evaluated generation.
func (p *Population) RunGeneration(rng Random, fitnessFunc FitnessFunc) (*Genome, error) {
	if err := fitnessFunc(p.Genomes); err != nil {
		return nil, fmt.Errorf("fitness evaluation failed in generation %d: %w", p.Generation, err)
	}
	if err := p.checkFitness(); err != nil {
		return nil, fmt.Errorf("fitness evaluation failed in generation %d: %w", p.Generation, err)
	}

	currentBest := p.findBestGenome()
	if p.Best == nil || currentBest.Fitness > p.Best.Fitness {
		p.Best = currentBest.Copy()
		p.logger.Info("new best genome found", "genome", currentBest.ID, "fitness", currentBest.Fitness)
	}
	best := currentBest.Copy()

	stats := p.Statistics()
	p.logger.Info("generation evaluated",
		"generation", p.Generation,
		"mean_fitness", stats.MeanFitness,
		"max_fitness", stats.MaxFitness,
		"stdev_fitness", stats.StdevFitness)

	p.NextGeneration(rng)
	return best, nil
}

// checkFitness rejects NaN and infinite fitness values.
func (p *Population) checkFitness() error {
	for _, g := range p.Genomes {
		if math.IsNaN(g.Fitness) || math.IsInf(g.Fitness, 0) {
			return fmt.Errorf("%w: genome %d has fitness %v", ErrInvalidFitness, g.ID, g.Fitness)
		}
	}
	return nil
}

// findBestGenome finds the genome with the highest fitness in the current population.
func (p *Population) findBestGenome() *Genome {
	best := p.Genomes[0]
	for _, g := range p.Genomes[1:] {
		if g.Fitness > best.Fitness {
			best = g
		}
	}
	return best
}

// Statistics summarizes the population.
type Statistics struct {
	Generation    int
	Species       int
	MeanFitness   float64
	MaxFitness    float64
	StdevFitness  float64
	MeanDistance  float64 // Mean compatibility distance computed by the last speciation.
	StdevDistance float64
}

// Statistics returns fitness statistics of the current genomes and distance
// statistics of the last speciation.
func (p *Population) Statistics() Statistics {
	fitnesses := make([]float64, len(p.Genomes))
	for i, g := range p.Genomes {
		fitnesses[i] = g.Fitness
	}
	return Statistics{
		Generation:    p.Generation,
		Species:       len(p.Species),
		MeanFitness:   Mean(fitnesses),
		MaxFitness:    MaxFloat(fitnesses),
		StdevFitness:  Stdev(fitnesses),
		MeanDistance:  Mean(p.distances),
		StdevDistance: Stdev(p.distances),
	}
}
