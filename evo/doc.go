// Package evo evolves populations of fixed-topology feedforward networks with a
// generational genetic algorithm.
//
// Each generation the agents are evaluated, ranked by fitness, and bred: the
// top quarter is carried over, the middle half is replaced by crossovers of
// parents drawn from a rank-weighted mating pool, and the bottom quarter is
// mutated at rate 1. Everything but the best agent then receives a background
// mutation. Fitness comes from an Evaluator, either a fixed dataset (lower
// error is better) or rounds of the card game in package game (more chips
// kept is better).
//
// Basic usage:
//
//	// Load configuration
//	config, err := evo.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	// Create a new population
//	pop, err := evo.NewPopulation(config)
//	if err != nil {
//		log.Fatalf("Error creating population: %v", err)
//	}
//
//	// Run for 100 generations against a dataset
//	ev := &evo.DatasetEvaluator{Inputs: inputs, Targets: targets}
//	for i := 0; i < 100; i++ {
//		summary, err := pop.RunGeneration(ctx, ev)
//		if err != nil {
//			log.Fatalf("Error running generation: %v", err)
//		}
//		fmt.Printf("generation %d best error %.4f\n", summary.Generation, summary.Best)
//	}
package evo
