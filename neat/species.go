package neat

import (
	"cmp"
	"slices"
)

// NoSpecies marks a genome that belongs to no species, e.g. after its species
// went extinct.
const NoSpecies SpeciesID = -1

// Species represents a group of genetically similar genomes. Membership is
// recomputed every generation against the representative.
type Species struct {
	ID                  SpeciesID
	Genomes             []GenomeID // Members this generation, ascending by adjusted fitness once sorted.
	Representative      GenomeID
	FitnessSum          float64 // Sum of the members' adjusted fitness.
	FitnessMax          float64 // Best adjusted fitness seen; the stagnation baseline.
	StagnantGenerations int
	Bounds              int // Offspring quota for the next generation.
	Population          int // Member count at speciation.
	Created             int // Generation the species was founded in.
}

// newSpecies founds a species represented by genome rep.
func newSpecies(id SpeciesID, rep GenomeID, generation int) *Species {
	return &Species{
		ID:             id,
		Representative: rep,
		Created:        generation,
	}
}

// speciate partitions the genomes into species. Each genome joins the first
// species, in stored order, whose representative is within the similarity
// threshold; otherwise it founds a new species and becomes its representative.
// Search order, not the smallest distance, decides the assignment.
func (p *Population) speciate() {
	for _, s := range p.Species {
		s.FitnessSum = 0
		s.Genomes = s.Genomes[:0]
	}

	representatives := make([]*Genome, len(p.Species))
	for i, s := range p.Species {
		if id := int(s.Representative); id >= 0 && id < len(p.Genomes) {
			representatives[i] = p.Genomes[id]
		}
	}

	p.distances = p.distances[:0]
	for _, g := range p.Genomes {
		match := -1
		for i, rep := range representatives {
			if rep == nil {
				continue
			}
			d := rep.Similarity(g, &p.Settings)
			p.distances = append(p.distances, d)
			if d <= p.Settings.SpeciesSimilarityThreshold {
				match = i
				break
			}
		}

		if match < 0 {
			match = len(p.Species)
			s := newSpecies(SpeciesID(match), g.ID, p.Generation)
			p.Species = append(p.Species, s)
			representatives = append(representatives, g)
			p.logger.Debug("created new species", "species", s.ID, "representative", g.ID, "generation", p.Generation)
		}

		s := p.Species[match]
		s.Genomes = append(s.Genomes, g.ID)
		g.Species = s.ID
	}

	for _, s := range p.Species {
		s.Population = len(s.Genomes)
	}
}

// computeAdjustedFitness shares each genome's fitness among the members of its
// species, so large species are penalized.
func (p *Population) computeAdjustedFitness() {
	for _, s := range p.Species {
		n := float64(len(s.Genomes))
		for _, id := range s.Genomes {
			g := p.Genomes[id]
			g.AdjustedFitness = g.Fitness / n
			s.FitnessSum += g.AdjustedFitness
		}
	}
}

// sortSpecies orders every species' members by ascending adjusted fitness,
// ties broken by genome ID.
func (p *Population) sortSpecies() {
	for _, s := range p.Species {
		slices.SortStableFunc(s.Genomes, func(a, b GenomeID) int {
			if c := cmp.Compare(p.Genomes[a].AdjustedFitness, p.Genomes[b].AdjustedFitness); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
	}
}

// electRepresentatives picks a new random representative among the members of
// every species that reproduced.
func (p *Population) electRepresentatives(rng Random) {
	for _, s := range p.Species {
		if s.Bounds > 0 && len(s.Genomes) > 0 {
			s.Representative = s.Genomes[rng.UniformInt(len(s.Genomes))]
		}
	}
}

// cleanSpecies drops species without members, except those founded this
// generation, renumbers the survivors contiguously and updates the species
// reference of every genome.
func (p *Population) cleanSpecies() {
	kept := p.Species[:0]
	for _, s := range p.Species {
		if len(s.Genomes) > 0 || s.Created == p.Generation {
			kept = append(kept, s)
		} else {
			p.logger.Debug("removed empty species", "species", s.ID, "generation", p.Generation)
		}
	}
	clear(p.Species[len(kept):])
	p.Species = kept

	for _, g := range p.Genomes {
		g.Species = NoSpecies
	}
	for i, s := range p.Species {
		s.ID = SpeciesID(i)
		for _, id := range s.Genomes {
			p.Genomes[id].Species = s.ID
		}
	}
}
