package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"tspga/internal/model"
	"tspga/internal/tsp"
)

// runConfig is the file and flag form of a run. Zero values in a file keep
// the defaults only for fields the file omits.
type runConfig struct {
	Graph               string  `yaml:"graph"`
	Nodes               int     `yaml:"nodes"`
	Population          int     `yaml:"population"`
	Elitism             bool    `yaml:"elitism"`
	SurvivalRate        float64 `yaml:"survival_rate"`
	MutationRate        float64 `yaml:"mutation_rate"`
	Workers             int     `yaml:"workers"`
	Seed                int64   `yaml:"seed"`
	Generations         int     `yaml:"generations"`
	ScoreGoal           float64 `yaml:"score_goal"`
	MaxDuplicateRetries int     `yaml:"max_duplicate_retries"`
	Crossover           string  `yaml:"crossover"`
	Mutation            string  `yaml:"mutation"`
	TwoOptPasses        int     `yaml:"two_opt_passes"`
	Output              string  `yaml:"output"`
}

func defaultRunConfig() runConfig {
	return runConfig{
		Nodes:        1024,
		Population:   200,
		Elitism:      true,
		SurvivalRate: 0.2,
		MutationRate: 0.02,
		Crossover:    tsp.CrossoverNeighbors,
		Mutation:     tsp.MutationTwoOpt,
		TwoOptPasses: tsp.DefaultTwoOptPasses,
	}
}

func loadRunConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return runConfig{}, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return runConfig{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

func bindRunFlags(fs *pflag.FlagSet, cfg *runConfig) {
	fs.StringVar(&cfg.Graph, "graph", cfg.Graph, "graph file; a random graph is used when empty")
	fs.IntVar(&cfg.Nodes, "nodes", cfg.Nodes, "random graph size")
	fs.IntVar(&cfg.Population, "pop", cfg.Population, "population size")
	fs.BoolVar(&cfg.Elitism, "elitism", cfg.Elitism, "carry the best tour into every generation")
	fs.Float64Var(&cfg.SurvivalRate, "survival", cfg.SurvivalRate, "probability that a parent is copied instead of crossed")
	fs.Float64Var(&cfg.MutationRate, "mutation-rate", cfg.MutationRate, "probability that a child is mutated")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers; 0 uses GOMAXPROCS")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed; 0 derives one from the clock")
	fs.IntVar(&cfg.Generations, "gens", cfg.Generations, "generation limit; 0 runs until interrupted")
	fs.Float64Var(&cfg.ScoreGoal, "goal", cfg.ScoreGoal, "stop once the best tour is at most this long; 0 disables")
	fs.IntVar(&cfg.MaxDuplicateRetries, "max-duplicate-retries", cfg.MaxDuplicateRetries, "duplicates a slot may reject before failing; 0 uses the default")
	fs.StringVar(&cfg.Crossover, "crossover", cfg.Crossover, "crossover operator")
	fs.StringVar(&cfg.Mutation, "mutation", cfg.Mutation, "mutation operator")
	fs.IntVar(&cfg.TwoOptPasses, "two-opt-passes", cfg.TwoOptPasses, "2-opt pass budget of operators")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "write the best tour to this solution file")
}

// overrideFromFlags copies the flags the user actually set onto cfg.
func overrideFromFlags(cfg *runConfig, fs *pflag.FlagSet, flagValue runConfig) {
	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "graph":
			cfg.Graph = flagValue.Graph
		case "nodes":
			cfg.Nodes = flagValue.Nodes
		case "pop":
			cfg.Population = flagValue.Population
		case "elitism":
			cfg.Elitism = flagValue.Elitism
		case "survival":
			cfg.SurvivalRate = flagValue.SurvivalRate
		case "mutation-rate":
			cfg.MutationRate = flagValue.MutationRate
		case "workers":
			cfg.Workers = flagValue.Workers
		case "seed":
			cfg.Seed = flagValue.Seed
		case "gens":
			cfg.Generations = flagValue.Generations
		case "goal":
			cfg.ScoreGoal = flagValue.ScoreGoal
		case "max-duplicate-retries":
			cfg.MaxDuplicateRetries = flagValue.MaxDuplicateRetries
		case "crossover":
			cfg.Crossover = flagValue.Crossover
		case "mutation":
			cfg.Mutation = flagValue.Mutation
		case "two-opt-passes":
			cfg.TwoOptPasses = flagValue.TwoOptPasses
		case "out":
			cfg.Output = flagValue.Output
		}
	})
}

func (c runConfig) validate() error {
	if c.Graph == "" && c.Nodes <= 0 {
		return fmt.Errorf("nodes must be > 0")
	}
	if c.Population <= 0 {
		return fmt.Errorf("population must be > 0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0")
	}
	if c.TwoOptPasses < 0 {
		return fmt.Errorf("two-opt passes must be >= 0")
	}
	return nil
}

func (c runConfig) toModel() model.RunConfig {
	source := c.Graph
	if source == "" {
		source = fmt.Sprintf("random:%d", c.Nodes)
	}
	return model.RunConfig{
		GraphSource:         source,
		PopulationSize:      c.Population,
		Elitism:             c.Elitism,
		SurvivalRate:        c.SurvivalRate,
		MutationRate:        c.MutationRate,
		Workers:             c.Workers,
		Seed:                c.Seed,
		Generations:         c.Generations,
		ScoreGoal:           c.ScoreGoal,
		MaxDuplicateRetries: c.MaxDuplicateRetries,
		Crossover:           c.Crossover,
		Mutation:            c.Mutation,
		TwoOptPasses:        c.TwoOptPasses,
	}
}
