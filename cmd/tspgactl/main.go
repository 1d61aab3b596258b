package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"tspga/internal/tour"
	"tspga/internal/tsp"
	"tspga/pkg/tspga"
)

const exportsDir = "exports"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	logLevel  string
	logFormat string
	storeKind string
	dbPath    string
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "tspgactl",
		Short:         "Solve Euclidean travelling salesman instances with a genetic algorithm",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&g.logLevel, "log-level", "info", "log level: debug|info|warn|error")
	pf.StringVar(&g.logFormat, "log-format", "auto", "log format: auto|text|json")
	pf.StringVar(&g.storeKind, "store", "sqlite", "store backend: memory|sqlite")
	pf.StringVar(&g.dbPath, "db-path", "tspga.db", "sqlite database path")

	root.AddCommand(
		newRunCmd(g, stdout, stderr),
		newGenerateCmd(stdout),
		newRunsCmd(g, stdout, stderr),
		newExportCmd(g, stdout, stderr),
		newPlotCmd(g, stdout, stderr),
		newDeleteCmd(g, stdout, stderr),
	)
	return root
}

func (g *globalFlags) client(stderr io.Writer) (*tspga.Client, *slog.Logger, error) {
	logger, err := newLogger(stderr, g.logLevel, g.logFormat)
	if err != nil {
		return nil, nil, err
	}
	client, err := tspga.New(tspga.Options{
		StoreKind:  g.storeKind,
		DBPath:     g.dbPath,
		ExportsDir: exportsDir,
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return client, logger, nil
}

func newRunCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var (
		configPath       string
		metricsAddr      string
		progressInterval time.Duration
		quiet            bool
		flagValue        = defaultRunConfig()
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evolve a tour until the generation limit, the score goal or an interrupt",
		Long:  "Evolve a tour and store the final run.\n\nRegistered " + operatorsHelp(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadRunConfig(configPath)
			if err != nil {
				return err
			}
			overrideFromFlags(&cfg, cmd.Flags(), flagValue)
			if err := cfg.validate(); err != nil {
				return err
			}
			if cfg.Seed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}

			client, logger, err := g.client(stderr)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx := cmd.Context()
			if metricsAddr != "" {
				shutdown, err := serveMetrics(metricsAddr, logger)
				if err != nil {
					return err
				}
				defer shutdown()
			}

			req := tspga.RunRequest{Config: cfg.toModel()}
			if !quiet {
				req.Observer = newProgressPrinter(stderr, progressInterval).observe
			}
			summary, err := client.Run(ctx, req)
			if err != nil {
				return err
			}

			record := summary.Record
			if cfg.Output != "" {
				if err := tour.SaveSolution(cfg.Output, summary.Graph, summary.Best); err != nil {
					return err
				}
			}
			fmt.Fprintf(stdout, "run_id=%s nodes=%d best=%.4f generations=%s stop=%s duplicates=%s elapsed=%s\n",
				record.ID,
				len(record.Points),
				record.BestScore,
				humanize.Comma(int64(record.Generations)),
				record.StopReason,
				humanize.Comma(record.Duplicates),
				time.Duration(record.ElapsedMillis)*time.Millisecond,
			)
			return nil
		},
	}
	fs := cmd.Flags()
	bindRunFlags(fs, &flagValue)
	fs.StringVar(&configPath, "config", "", "yaml run configuration; flags override it")
	fs.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	fs.DurationVar(&progressInterval, "progress-interval", time.Second, "minimum interval between progress lines")
	fs.BoolVar(&quiet, "quiet", false, "suppress progress lines")
	return cmd
}

func serveMetrics(addr string, logger *slog.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen metrics %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	}()
	logger.Info("serving metrics", slog.String("addr", ln.Addr().String()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

func newGenerateCmd(stdout io.Writer) *cobra.Command {
	var (
		nodes int
		seed  int64
		out   string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a random graph in the input format",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("generate requires --out")
			}
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			g, err := tspga.GenerateGraph(out, nodes, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "generated nodes=%d seed=%d path=%s\n", g.Size(), seed, out)
			return nil
		},
	}
	cmd.Flags().IntVar(&nodes, "nodes", 1024, "number of nodes")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed; 0 derives one from the clock")
	cmd.Flags().StringVar(&out, "out", "", "output graph file")
	return cmd
}

func newRunsCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := g.client(stderr)
			if err != nil {
				return err
			}
			defer client.Close()

			runs, err := client.Runs(cmd.Context(), tspga.RunsRequest{Limit: limit})
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tCREATED\tNODES\tBEST\tGENERATIONS\tSTOP\tCROSSOVER")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%.4f\t%d\t%s\t%s\n",
					r.ID,
					humanize.Time(r.CreatedAt),
					r.Nodes,
					r.BestScore,
					r.Generations,
					r.StopReason,
					r.Crossover,
				)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list; 0 lists all")
	return cmd
}

func newExportCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var req tspga.ExportRequest
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored run's configuration, history and solution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := g.client(stderr)
			if err != nil {
				return err
			}
			defer client.Close()

			exported, err := client.Export(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "exported run_id=%s dir=%s\n", exported.RunID, exported.Directory)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.RunID, "run-id", "", "run id to export")
	cmd.Flags().BoolVar(&req.Latest, "latest", false, "export the newest run")
	cmd.Flags().StringVar(&req.OutDir, "out-dir", exportsDir, "export directory")
	return cmd
}

func newPlotCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	var req tspga.PlotRequest
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render a solution file or a stored run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := g.client(stderr)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Plot(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "plotted %s\n", req.OutPath)
			if req.HistoryPath != "" && req.SolutionPath == "" {
				fmt.Fprintf(stdout, "plotted %s\n", req.HistoryPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&req.SolutionPath, "solution", "", "solution file to render")
	cmd.Flags().StringVar(&req.RunID, "run-id", "", "stored run to render")
	cmd.Flags().BoolVar(&req.Latest, "latest", false, "render the newest stored run")
	cmd.Flags().StringVar(&req.OutPath, "out", "tour.png", "tour image; the extension selects the format")
	cmd.Flags().StringVar(&req.HistoryPath, "history", "", "best-score history image for stored runs")
	cmd.Flags().StringVar(&req.Title, "title", "", "plot title")
	return cmd
}

func newDeleteCmd(g *globalFlags, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := g.client(stderr)
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "deleted run_id=%s\n", args[0])
			return nil
		},
	}
	return cmd
}

// operatorsHelp lists the registered operators for the run command help.
func operatorsHelp() string {
	return fmt.Sprintf("crossovers: %v; mutations: %v", tsp.ListCrossovers(), tsp.ListMutations())
}
