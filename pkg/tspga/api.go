package tspga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tspga/internal/evo"
	"tspga/internal/graph"
	"tspga/internal/model"
	"tspga/internal/stats"
	"tspga/internal/storage"
	"tspga/internal/tour"
	"tspga/internal/tsp"
)

const (
	defaultExportsDir     = "exports"
	DefaultPopulationSize = 200
	DefaultRandomNodes    = 1024
	randomGraphPrefix     = "random:"
)

var ErrRunNotFound = errors.New("run not found")

type Options struct {
	StoreKind  string
	DBPath     string
	ExportsDir string
	Logger     *slog.Logger
}

type Client struct {
	store      storage.Store
	exportsDir string
	logger     *slog.Logger

	mu          sync.Mutex
	initialized bool
}

type RunRequest struct {
	Config model.RunConfig
	// Graph overrides Config.GraphSource when set.
	Graph    *graph.Graph
	Observer evo.Observer
}

type RunSummary struct {
	Record model.RunRecord
	Graph  *graph.Graph
	Best   *tour.Path
}

type RunsRequest struct {
	Limit int
}

type ExportRequest struct {
	RunID  string
	Latest bool
	OutDir string
}

type ExportSummary struct {
	RunID     string
	Directory string
}

// PlotRequest renders either a solution file or a stored run. HistoryPath is
// only honoured for stored runs.
type PlotRequest struct {
	SolutionPath string
	RunID        string
	Latest       bool
	OutPath      string
	HistoryPath  string
	Title        string
}

func New(opts Options) (*Client, error) {
	exportsDir := opts.ExportsDir
	if exportsDir == "" {
		exportsDir = defaultExportsDir
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	store, err := storage.NewStore(opts.StoreKind, opts.DBPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		exportsDir: exportsDir,
		logger:     logger,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := c.store.Init(ctx); err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	c.initialized = true
	return nil
}

// Run solves one TSP instance and stores its final record. An interrupted run
// is still stored with its best tour.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	cfg := req.Config
	if cfg.PopulationSize == 0 {
		cfg.PopulationSize = DefaultPopulationSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.TwoOptPasses == 0 {
		cfg.TwoOptPasses = tsp.DefaultTwoOptPasses
	}
	if cfg.MaxDuplicateRetries == 0 {
		cfg.MaxDuplicateRetries = evo.DefaultMaxDuplicateRetries
	}

	if err := c.Init(ctx); err != nil {
		return RunSummary{}, err
	}

	g := req.Graph
	if g == nil {
		if cfg.GraphSource == "" {
			cfg.GraphSource = fmt.Sprintf("%s%d", randomGraphPrefix, DefaultRandomNodes)
		}
		var err error
		g, err = ResolveGraph(cfg.GraphSource, cfg.Seed)
		if err != nil {
			return RunSummary{}, err
		}
	}

	problem, err := tsp.NewProblem(g, tsp.Options{
		Crossover:    cfg.Crossover,
		Mutation:     cfg.Mutation,
		TwoOptPasses: cfg.TwoOptPasses,
	})
	if err != nil {
		return RunSummary{}, err
	}
	cfg.Crossover = problem.CrossoverName()
	cfg.Mutation = problem.MutationName()

	engine, err := evo.NewEngine[*tour.Path](problem, evo.Config{
		PopulationSize:      cfg.PopulationSize,
		Elitism:             cfg.Elitism,
		SurvivalRate:        cfg.SurvivalRate,
		MutationRate:        cfg.MutationRate,
		Workers:             cfg.Workers,
		Seed:                cfg.Seed,
		Generations:         cfg.Generations,
		ScoreGoal:           cfg.ScoreGoal,
		MaxDuplicateRetries: cfg.MaxDuplicateRetries,
	}, evo.WithLogger(c.logger), evo.WithObserver(req.Observer))
	if err != nil {
		return RunSummary{}, err
	}

	c.logger.Info("solving",
		slog.Int("nodes", g.Size()),
		slog.String("graph", cfg.GraphSource),
		slog.String("crossover", cfg.Crossover),
		slog.String("mutation", cfg.Mutation),
	)
	result, err := engine.Run(ctx)
	if err != nil {
		return RunSummary{}, err
	}

	record := storage.Stamp(model.RunRecord{
		ID:               uuid.NewString(),
		CreatedAt:        time.Now().UTC(),
		Config:           cfg,
		Points:           g.Points(),
		Tour:             result.Best.Nodes(),
		BestScore:        result.BestScore,
		Generations:      result.Generations,
		StopReason:       string(result.StopReason),
		Duplicates:       result.Duplicates,
		ElapsedMillis:    result.Elapsed.Milliseconds(),
		BestByGeneration: result.BestByGeneration,
		Summaries:        result.Summaries,
	})
	// The run context may already be cancelled by an interrupt.
	if err := c.store.SaveRun(context.WithoutCancel(ctx), record); err != nil {
		return RunSummary{}, fmt.Errorf("save run %s: %w", record.ID, err)
	}

	return RunSummary{Record: record, Graph: g, Best: result.Best}, nil
}

func (c *Client) Runs(ctx context.Context, req RunsRequest) ([]model.RunSummary, error) {
	if req.Limit < 0 {
		return nil, errors.New("limit must be >= 0")
	}
	if err := c.Init(ctx); err != nil {
		return nil, err
	}

	runs, err := c.store.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	if req.Limit > 0 && len(runs) > req.Limit {
		runs = runs[:req.Limit]
	}
	return runs, nil
}

func (c *Client) GetRun(ctx context.Context, id string) (model.RunRecord, error) {
	if err := c.Init(ctx); err != nil {
		return model.RunRecord{}, err
	}
	record, ok, err := c.store.GetRun(ctx, id)
	if err != nil {
		return model.RunRecord{}, err
	}
	if !ok {
		return model.RunRecord{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return record, nil
}

func (c *Client) DeleteRun(ctx context.Context, id string) error {
	if err := c.Init(ctx); err != nil {
		return err
	}
	deleted, err := c.store.DeleteRun(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

func (c *Client) Export(ctx context.Context, req ExportRequest) (ExportSummary, error) {
	if req.OutDir == "" {
		req.OutDir = c.exportsDir
	}
	record, err := c.selectRun(ctx, req.RunID, req.Latest)
	if err != nil {
		return ExportSummary{}, err
	}

	dir, err := stats.WriteRunArtifacts(req.OutDir, record)
	if err != nil {
		return ExportSummary{}, err
	}
	return ExportSummary{RunID: record.ID, Directory: filepath.Clean(dir)}, nil
}

func (c *Client) Plot(ctx context.Context, req PlotRequest) error {
	if req.OutPath == "" {
		return errors.New("plot requires an output path")
	}

	if req.SolutionPath != "" {
		if req.RunID != "" || req.Latest {
			return errors.New("use either a solution file or a stored run")
		}
		g, p, err := tour.LoadSolution(req.SolutionPath)
		if err != nil {
			return err
		}
		title := req.Title
		if title == "" {
			title = fmt.Sprintf("%s (%.2f)", filepath.Base(req.SolutionPath), p.Length(g))
		}
		return stats.PlotTour(g, p, title, req.OutPath)
	}

	record, err := c.selectRun(ctx, req.RunID, req.Latest)
	if err != nil {
		return err
	}
	title := req.Title
	if title == "" {
		title = fmt.Sprintf("run %s (%.2f)", shortID(record.ID), record.BestScore)
	}
	g := graph.New(record.Points)
	if err := stats.PlotTour(g, tour.Of(record.Tour), title, req.OutPath); err != nil {
		return err
	}
	if req.HistoryPath != "" {
		return stats.PlotHistory(record.BestByGeneration, record.Summaries, title, req.HistoryPath)
	}
	return nil
}

func (c *Client) selectRun(ctx context.Context, runID string, latest bool) (model.RunRecord, error) {
	if runID != "" && latest {
		return model.RunRecord{}, errors.New("use either run id or latest")
	}
	if runID == "" && !latest {
		return model.RunRecord{}, errors.New("run id or latest is required")
	}
	if latest {
		runs, err := c.Runs(ctx, RunsRequest{Limit: 1})
		if err != nil {
			return model.RunRecord{}, err
		}
		if len(runs) == 0 {
			return model.RunRecord{}, errors.New("no runs available")
		}
		runID = runs[0].ID
	}
	return c.GetRun(ctx, runID)
}

// ResolveGraph loads a graph file, or builds a seeded random graph for
// sources of the form "random:<nodes>".
func ResolveGraph(source string, seed int64) (*graph.Graph, error) {
	if rest, ok := strings.CutPrefix(source, randomGraphPrefix); ok {
		nodes, err := strconv.Atoi(rest)
		if err != nil || nodes <= 0 {
			return nil, fmt.Errorf("random graph size must be > 0: %q", rest)
		}
		return graph.Random(nodes, rand.New(rand.NewSource(seed))), nil
	}
	if source == "" {
		return nil, errors.New("graph source is required")
	}
	return graph.Load(source)
}

// GenerateGraph writes a random graph of the given size in the input format.
func GenerateGraph(path string, nodes int, seed int64) (*graph.Graph, error) {
	if nodes <= 0 {
		return nil, fmt.Errorf("nodes must be > 0")
	}
	g := graph.Random(nodes, rand.New(rand.NewSource(seed)))
	if err := graph.Save(path, g); err != nil {
		return nil, err
	}
	return g, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
