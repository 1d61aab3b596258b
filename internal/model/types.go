package model

import (
	"time"

	"tspga/internal/graph"
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// RunConfig is the resolved configuration a run was started with.
type RunConfig struct {
	GraphSource         string  `json:"graph_source"`
	PopulationSize      int     `json:"population_size"`
	Elitism             bool    `json:"elitism"`
	SurvivalRate        float64 `json:"survival_rate"`
	MutationRate        float64 `json:"mutation_rate"`
	Workers             int     `json:"workers"`
	Seed                int64   `json:"seed"`
	Generations         int     `json:"generations"`
	ScoreGoal           float64 `json:"score_goal"`
	MaxDuplicateRetries int     `json:"max_duplicate_retries"`
	Crossover           string  `json:"crossover"`
	Mutation            string  `json:"mutation"`
	TwoOptPasses        int     `json:"two_opt_passes"`
}

// GenerationSummary describes the score distribution of one generation.
type GenerationSummary struct {
	Generation int     `json:"generation"`
	Min        float64 `json:"min"`
	Q10        float64 `json:"q10"`
	Q25        float64 `json:"q25"`
	Median     float64 `json:"median"`
	Q75        float64 `json:"q75"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
}

// RunRecord is the final result of a run. Intermediate populations are never
// persisted.
type RunRecord struct {
	VersionedRecord
	ID               string              `json:"id"`
	CreatedAt        time.Time           `json:"created_at"`
	Config           RunConfig           `json:"config"`
	Points           []graph.Point       `json:"points"`
	Tour             []int               `json:"tour"`
	BestScore        float64             `json:"best_score"`
	Generations      int                 `json:"generations"`
	StopReason       string              `json:"stop_reason"`
	Duplicates       int64               `json:"duplicates"`
	ElapsedMillis    int64               `json:"elapsed_ms"`
	BestByGeneration []float64           `json:"best_by_generation"`
	Summaries        []GenerationSummary `json:"summaries,omitempty"`
}

// RunSummary is the listing view of a RunRecord.
type RunSummary struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Nodes       int       `json:"nodes"`
	BestScore   float64   `json:"best_score"`
	Generations int       `json:"generations"`
	StopReason  string    `json:"stop_reason"`
	Crossover   string    `json:"crossover"`
}

func (r RunRecord) Summary() RunSummary {
	return RunSummary{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		Nodes:       len(r.Points),
		BestScore:   r.BestScore,
		Generations: r.Generations,
		StopReason:  r.StopReason,
		Crossover:   r.Config.Crossover,
	}
}
