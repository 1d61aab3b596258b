package evo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"tspga/internal/stats"
)

var ErrDiversityExhausted = errors.New("population diversity exhausted")

type StopReason string

const (
	StopInterrupted     StopReason = "interrupted"
	StopGenerationLimit StopReason = "generation_limit"
	StopScoreGoal       StopReason = "score_goal"
)

type Result[S any] struct {
	Best             S
	BestScore        float64
	Generations      int
	BestByGeneration []float64
	Summaries        []stats.Summary
	StopReason       StopReason
	Duplicates       int64
	Elapsed          time.Duration
}

// Progress is reported to the observer once per evaluated generation.
type Progress struct {
	Generation int
	BestScore  float64
	Improved   bool
	Summary    stats.Summary
	Duplicates int64
	Elapsed    time.Duration
}

type Observer func(Progress)

type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer Observer
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithObserver(observer Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

type Engine[S any] struct {
	problem   Problem[S]
	discarder Discarder[S]
	hasher    Hasher[S]
	cfg       Config
	logger    *slog.Logger
	observer  Observer
	rng       *rand.Rand

	duplicates atomic.Int64
}

func NewEngine[S any](problem Problem[S], cfg Config, opts ...Option) (*Engine[S], error) {
	if problem == nil {
		return nil, fmt.Errorf("problem is required")
	}
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine[S]{
		problem:  problem,
		cfg:      cfg,
		logger:   o.logger,
		observer: o.observer,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
	}
	if d, ok := problem.(Discarder[S]); ok {
		e.discarder = d
	}
	if h, ok := problem.(Hasher[S]); ok {
		e.hasher = h
	}
	return e, nil
}

func (e *Engine[S]) Config() Config {
	return e.cfg
}

// Run evolves populations until the context is cancelled, the generation
// limit is reached or the score goal is met. Cancellation is observed between
// generations and still yields the best solution found.
func (e *Engine[S]) Run(ctx context.Context) (Result[S], error) {
	started := time.Now()
	e.duplicates.Store(0)
	e.logger.Info("starting run",
		slog.Int("population", e.cfg.PopulationSize),
		slog.Int("workers", e.cfg.Workers),
		slog.Int("generations", e.cfg.Generations),
		slog.Int64("seed", e.cfg.Seed),
	)

	population := make([]Individual[S], e.cfg.PopulationSize)
	if err := e.fill(population, 0, e.newUniqueSet(), e.generate); err != nil {
		e.discardAll(population)
		return Result[S]{}, err
	}

	var (
		best      S
		bestScore float64
		haveBest  bool
		history   = make([]float64, 0, e.cfg.Generations)
		summaries = make([]stats.Summary, 0, e.cfg.Generations)
		mark      = started
	)
	for generation := 0; ; generation++ {
		slices.SortStableFunc(population, func(a, b Individual[S]) int {
			return cmp.Compare(a.Score, b.Score)
		})

		improved := !haveBest || population[0].Score < bestScore
		if improved {
			if haveBest {
				e.discard(best)
			}
			best = e.problem.Copy(population[0].Solution)
			bestScore = population[0].Score
			haveBest = true
		}
		history = append(history, bestScore)
		summary := stats.Summarize(generation, scores(population))
		summaries = append(summaries, summary)

		now := time.Now()
		generationsTotal.Inc()
		generationDuration.Observe(now.Sub(mark).Seconds())
		mark = now

		if improved {
			bestScoreGauge.Set(bestScore)
			e.logger.Info("new best solution", slog.Int("generation", generation), slog.Float64("score", bestScore))
		}
		e.logger.Debug("generation",
			slog.Int("generation", generation),
			slog.Float64("min", summary.Min),
			slog.Float64("median", summary.Median),
			slog.Float64("max", summary.Max),
			slog.Float64("mean", summary.Mean),
			slog.Float64("std_dev", summary.StdDev),
		)
		if e.observer != nil {
			e.observer(Progress{
				Generation: generation,
				BestScore:  bestScore,
				Improved:   improved,
				Summary:    summary,
				Duplicates: e.duplicates.Load(),
				Elapsed:    now.Sub(started),
			})
		}

		if reason, stop := e.shouldStop(ctx, generation, bestScore); stop {
			e.discardAll(population)
			result := Result[S]{
				Best:             best,
				BestScore:        bestScore,
				Generations:      generation + 1,
				BestByGeneration: history,
				Summaries:        summaries,
				StopReason:       reason,
				Duplicates:       e.duplicates.Load(),
				Elapsed:          time.Since(started),
			}
			runsTotal.WithLabelValues(string(reason)).Inc()
			e.logger.Info("run finished",
				slog.String("reason", string(reason)),
				slog.Int("generations", result.Generations),
				slog.Float64("best_score", bestScore),
				slog.Int64("duplicates", result.Duplicates),
				slog.Duration("elapsed", result.Elapsed),
			)
			return result, nil
		}

		next, err := e.nextGeneration(population)
		e.discardAll(population)
		if err != nil {
			e.discardAll(next)
			e.discard(best)
			return Result[S]{}, err
		}
		population = next
	}
}

func (e *Engine[S]) shouldStop(ctx context.Context, generation int, best float64) (StopReason, bool) {
	if ctx.Err() != nil {
		return StopInterrupted, true
	}
	if e.cfg.ScoreGoal > 0 && best <= e.cfg.ScoreGoal {
		return StopScoreGoal, true
	}
	if e.cfg.Generations > 0 && generation+1 >= e.cfg.Generations {
		return StopGenerationLimit, true
	}
	return "", false
}

func (e *Engine[S]) newUniqueSet() *uniqueSet[S] {
	var hash func(S) uint64
	if e.hasher != nil {
		hash = e.hasher.Hash
	}
	return newUniqueSet(e.problem.Compare, hash)
}

func (e *Engine[S]) generate(rng *rand.Rand) Individual[S] {
	s := e.problem.Generate(rng)
	e.problem.Regularize(s)
	return Individual[S]{Solution: s, Score: e.problem.Evaluate(s), Scored: true}
}

// nextGeneration builds a population from the sorted previous one.
func (e *Engine[S]) nextGeneration(previous []Individual[S]) ([]Individual[S], error) {
	selection := newRoulette(previous)
	next := make([]Individual[S], len(previous))
	unique := e.newUniqueSet()

	from := 0
	if e.cfg.Elitism {
		elite := previous[0]
		next[0] = Individual[S]{Solution: e.problem.Copy(elite.Solution), Score: elite.Score, Scored: true}
		unique.insert(next[0].Solution)
		from = 1
	}

	err := e.fill(next, from, unique, func(rng *rand.Rand) Individual[S] {
		return e.breed(rng, previous, selection)
	})
	return next, err
}

func (e *Engine[S]) breed(rng *rand.Rand, previous []Individual[S], selection roulette) Individual[S] {
	if rng.Float64() < e.cfg.SurvivalRate {
		parent := previous[selection.pick(rng)]
		return Individual[S]{Solution: e.problem.Copy(parent.Solution), Score: parent.Score, Scored: true}
	}

	a := previous[selection.pick(rng)].Solution
	b := previous[selection.pick(rng)].Solution
	child := e.problem.Cross(rng, a, b)
	e.problem.Regularize(child)
	if rng.Float64() < e.cfg.MutationRate {
		e.problem.Mutate(rng, child)
		e.problem.Regularize(child)
	}
	return Individual[S]{Solution: child, Score: e.problem.Evaluate(child), Scored: true}
}

// fill produces slots [from, len(slots)) in parallel. Each slot owns a random
// source derived from the engine source before any work starts, so a single
// worker reproduces the same run for the same seed.
func (e *Engine[S]) fill(slots []Individual[S], from int, unique *uniqueSet[S], produce func(rng *rand.Rand) Individual[S]) error {
	rngs := make([]*rand.Rand, len(slots))
	for i := from; i < len(slots); i++ {
		rngs[i] = rand.New(rand.NewSource(e.rng.Int63()))
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(e.cfg.Workers)
	for i := from; i < len(slots); i++ {
		g.Go(func() error {
			rejected := 0
			for {
				// A sibling slot already failed the fill.
				if err := ctx.Err(); err != nil {
					return err
				}
				candidate := produce(rngs[i])
				if unique.insert(candidate.Solution) {
					slots[i] = candidate
					return nil
				}
				e.discard(candidate.Solution)
				e.duplicates.Add(1)
				duplicatesTotal.Inc()
				rejected++
				if rejected > e.cfg.MaxDuplicateRetries {
					return fmt.Errorf("%w: slot %d rejected %d duplicates", ErrDiversityExhausted, i, rejected)
				}
			}
		})
	}
	return g.Wait()
}

func (e *Engine[S]) discard(s S) {
	if e.discarder != nil {
		e.discarder.Discard(s)
	}
}

func (e *Engine[S]) discardAll(population []Individual[S]) {
	for i := range population {
		if population[i].Scored {
			e.discard(population[i].Solution)
		}
	}
}
