package neat

import (
	"fmt"
	"math"
	"sort"
)

// computeSpeciesBounds gives every species with members an offspring quota
// proportional to its share of the total adjusted fitness. Quotas always sum
// to the population size. If no species has positive fitness every quota is
// zero and offspringSpecies falls back to reseeding.
func (p *Population) computeSpeciesBounds() {
	shares := make([]float64, len(p.Species))
	for i, s := range p.Species {
		if len(s.Genomes) > 0 {
			shares[i] = math.Max(0, s.FitnessSum)
		}
	}
	bounds := computeSpawnAmounts(shares, len(p.Genomes))
	for i, s := range p.Species {
		s.Bounds = bounds[i]
	}
}

// computeSpawnAmounts splits popSize proportionally to shares using the
// largest-remainder method, so the amounts sum exactly to popSize. Remainder
// ties go to the earlier share. All amounts are zero when no share is positive.
// Shares must be finite and non-negative.
func computeSpawnAmounts(shares []float64, popSize int) []int {
	amounts := make([]int, len(shares))
	largest := 0.0
	for i, s := range shares {
		if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
			panic(fmt.Sprintf("species share %d is %v, shares must be finite and non-negative", i, s))
		}
		largest = math.Max(largest, s)
	}
	if largest == 0 {
		return amounts
	}

	// Scaled by the largest share so the total cannot overflow.
	total := 0.0
	for _, s := range shares {
		total += s / largest
	}

	remainders := make([]float64, len(shares))
	assigned := 0
	for i, s := range shares {
		exact := s / largest / total * float64(popSize)
		amounts[i] = int(math.Floor(exact))
		remainders[i] = exact - float64(amounts[i])
		assigned += amounts[i]
	}

	order := make([]int, 0, len(shares))
	for i, s := range shares {
		if s > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return remainders[order[a]] > remainders[order[b]]
	})
	for k := 0; assigned < popSize; k++ {
		amounts[order[k%len(order)]]++
		assigned++
	}
	return amounts
}

// offspringSpecies produces the next generation. Every species with a quota
// fills that many slots: its champions are copied unchanged and the remaining
// children are either crossovers (with ProbOffspringCrossover) or copies of
// members, then mutated. Offspring are staged in a separate slice and swapped
// in at the end, so parents are never overwritten while they are still read.
//
// When no species has a quota, half of the population is replaced by fresh
// random genomes and the rest is mutated.
func (p *Population) offspringSpecies(rng Random) {
	quota := 0
	for _, s := range p.Species {
		quota += s.Bounds
	}
	if quota == 0 {
		p.reseed(rng)
		return
	}
	if quota != len(p.Genomes) {
		panic(fmt.Sprintf("species quotas sum to %d, population size is %d", quota, len(p.Genomes)))
	}

	mates := make([]*Species, 0, len(p.Species))
	for _, s := range p.Species {
		if s.Bounds > 0 && len(s.Genomes) > 0 {
			mates = append(mates, s)
		}
	}

	// Member lists are only replaced once every species has reproduced, since
	// interspecies mating still reads them.
	next := make([]*Genome, 0, len(p.Genomes))
	offspring := make([][]GenomeID, len(p.Species))
	for i, s := range p.Species {
		if s.Bounds == 0 {
			continue
		}
		if len(s.Genomes) == 0 {
			panic(fmt.Sprintf("species %d has quota %d but no members", s.ID, s.Bounds))
		}

		members := s.Genomes
		champions := min(p.Settings.SizeSpeciesForChampion, s.Bounds, len(members))
		children := make([]GenomeID, 0, s.Bounds)
		for k := 0; k < s.Bounds; k++ {
			slot := GenomeID(len(next))
			// Members are sorted ascending; walk them best first.
			base := p.Genomes[members[len(members)-1-k%len(members)]]

			var child *Genome
			if k < champions {
				child = base.Copy()
			} else {
				if rng.Bernoulli(p.Settings.Mutation.ProbOffspringCrossover) {
					child = p.mate(rng, s, mates, slot)
				} else {
					child = base.Copy()
				}
				child.Mutate(rng, &p.Settings, p.Innovations)
				child.Fitness = 0
			}
			child.ID = slot
			child.Species = s.ID
			child.AdjustedFitness = 0

			next = append(next, child)
			children = append(children, slot)
		}
		offspring[i] = children
	}

	for i, s := range p.Species {
		s.Genomes = offspring[i]
	}
	p.Genomes = next
}

// mate crosses a random member of s with a second parent: another random
// member of s or, with ProbMatingInterspecies, a random member of a different
// species that reproduces this generation. Crossover decides which parent is
// the primary one by raw fitness.
func (p *Population) mate(rng Random, s *Species, mates []*Species, id GenomeID) *Genome {
	parent1 := p.Genomes[s.Genomes[rng.UniformInt(len(s.Genomes))]]

	pool := s
	if rng.Bernoulli(p.Settings.Mutation.ProbMatingInterspecies) {
		others := make([]*Species, 0, len(mates))
		for _, o := range mates {
			if o != s {
				others = append(others, o)
			}
		}
		if len(others) > 0 {
			pool = others[rng.UniformInt(len(others))]
		}
	}
	parent2 := p.Genomes[pool.Genomes[rng.UniformInt(len(pool.Genomes))]]

	child, err := Crossover(parent1, parent2, id, rng, &p.Settings)
	if err != nil {
		panic(fmt.Sprintf("offspring of species %d: %v", s.ID, err))
	}
	return child
}

// reseed replaces the first half of the population with fresh random genomes
// and mutates the rest.
func (p *Population) reseed(rng Random) {
	p.logger.Warn("no species can reproduce, reseeding half of the population",
		"generation", p.Generation, "population", len(p.Genomes))

	bound := len(p.Genomes) / 2
	for i, g := range p.Genomes {
		if i < bound {
			fresh := NewRandomGenome(rng, g.ID, p.Shape, p.Innovations)
			fresh.Species = g.Species
			p.Genomes[i] = fresh
		} else {
			g.Mutate(rng, &p.Settings, p.Innovations)
		}
	}
}
