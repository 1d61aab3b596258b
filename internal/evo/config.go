package evo

import "fmt"

const DefaultMaxDuplicateRetries = 10000

type Config struct {
	PopulationSize int
	// Elitism copies the best solution of each generation into the next.
	Elitism      bool
	SurvivalRate float64
	MutationRate float64
	Workers      int
	Seed         int64
	// Generations limits the number of evaluated generations; 0 is unlimited.
	Generations int
	// ScoreGoal stops the run once the best score is at or below it; 0
	// disables the check.
	ScoreGoal float64
	// MaxDuplicateRetries bounds how many duplicates a single population
	// slot may reject before the run fails.
	MaxDuplicateRetries int
}

func (c Config) normalize() (Config, error) {
	if c.PopulationSize <= 0 {
		return c, fmt.Errorf("population size must be > 0")
	}
	if c.SurvivalRate < 0 || c.SurvivalRate > 1 {
		return c, fmt.Errorf("survival rate must be in [0, 1]")
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return c, fmt.Errorf("mutation rate must be in [0, 1]")
	}
	if c.Generations < 0 {
		return c, fmt.Errorf("generations must be >= 0")
	}
	if c.ScoreGoal < 0 {
		return c, fmt.Errorf("score goal must be >= 0")
	}
	if c.MaxDuplicateRetries < 0 {
		return c, fmt.Errorf("max duplicate retries must be >= 0")
	}
	if c.MaxDuplicateRetries == 0 {
		c.MaxDuplicateRetries = DefaultMaxDuplicateRetries
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	return c, nil
}
