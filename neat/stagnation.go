package neat

// computeStagnation tracks, per species, the best adjusted fitness seen. A
// species that improves (or is checked for the first time) restarts its
// counter at 1; otherwise the counter grows, and once it reaches
// GenerationsForStagnatingSpecies the species' members are cleared, removing
// it from reproduction.
//
// Members must already be sorted by sortSpecies.
func (p *Population) computeStagnation() {
	for _, s := range p.Species {
		if len(s.Genomes) == 0 {
			continue
		}

		current := p.Genomes[s.Genomes[len(s.Genomes)-1]].AdjustedFitness
		if s.StagnantGenerations == 0 || current > s.FitnessMax {
			s.FitnessMax = current
			s.StagnantGenerations = 1
			continue
		}

		s.StagnantGenerations++
		if s.StagnantGenerations >= p.Settings.GenerationsForStagnatingSpecies {
			p.logger.Info("species removed due to stagnation",
				"species", s.ID, "stagnant_generations", s.StagnantGenerations, "fitness_max", s.FitnessMax)
			s.Genomes = s.Genomes[:0]
		}
	}
}
