// Package neat provides a Go implementation of the NeuroEvolution of Augmenting Topologies (NEAT) algorithm.
//
// NEAT evolves both the weights and the structure of small feed-forward
// networks. Genomes keep their nodes on ordered layers, so every connection
// points to a higher layer and the networks stay acyclic by construction.
// Genes are aligned across genomes by innovation numbers handed out by a
// tracker owned by the population.
//
// The library lives in the neat subpackage; neat/nn turns genomes into
// runnable networks.
//
// Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	rng := neat.NewRandom(config.Neat.Seed)
//	pop, err := neat.NewPopulationFromConfig(config, rng)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	// Assign genome fitness and advance, 100 times.
//	for i := 0; i < 100; i++ {
//		best, err := pop.RunGeneration(rng, evalGenomes)
//		if err != nil {
//			log.Fatalf("Error running generation: %v", err)
//		}
//		if best.Fitness >= threshold {
//			fmt.Println("Solution found!")
//			break
//		}
//	}
package neat
