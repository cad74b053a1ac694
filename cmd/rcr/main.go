package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gorcr/adapters/render"
	"gorcr/app"
	"gorcr/internal"
	"gorcr/internal/config"
	"gorcr/internal/container"
	"gorcr/internal/migration"
	"gorcr/internal/testkit"
	"gorcr/ui"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// inputFlags override the configured input paths
type inputFlags struct {
	expression string
	pathway    string
	mapping    string
	ambiguous  bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.expression, "expression", "", "Expression top table (.tsv, .csv or .xlsx)")
	cmd.Flags().StringVar(&f.pathway, "pathway", "", "Pathway table: source, interaction, target")
	cmd.Flags().StringVar(&f.mapping, "mapping", "", "Optional mapping table with source, target, relation columns")
	cmd.Flags().BoolVar(&f.ambiguous, "unmapped-ambiguous", false, "Treat pathway edges without a relation as ambiguous")
}

func (f *inputFlags) apply(cfg *config.Config) {
	if f.expression != "" {
		cfg.Paths.ExpressionFile = f.expression
	}
	if f.pathway != "" {
		cfg.Paths.PathwayFile = f.pathway
	}
	if f.mapping != "" {
		cfg.Paths.MappingFile = f.mapping
	}
	if f.ambiguous {
		cfg.Analysis.UnmappedAsAmbiguous = true
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rcr",
		Short:         "Reverse causal reasoning over a pathway and an expression top table",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newPlotCmd(),
		newServeCmd(),
		newFakeCmd(),
		newMigrateCmd(),
	)
	return rootCmd
}

// bootstrap loads .env and configuration, then builds the container
func bootstrap(ctx context.Context, in *inputFlags, persist bool) (*container.Container, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if in != nil {
		in.apply(cfg)
	}

	c, err := container.New(cfg, internal.NewDefaultLogger())
	if err != nil {
		return nil, err
	}
	if persist {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newAnalyzeCmd() *cobra.Command {
	var in inputFlags
	var outDir string
	var persist bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score every regulator and write stats.tsv, report.md and report.html",
		Long: `Run state classification, graph construction, causal inference and enrichment
scoring over the configured inputs.

Example: rcr analyze --expression top.table.tsv --pathway pathway.txt --mapping map.tsv --out results`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bootstrap(ctx, &in, persist)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)

			inputs, err := c.Inputs()
			if err != nil {
				return err
			}
			if prev, err := c.Analysis.Previous(ctx, app.FingerprintOf(inputs, c.Config.Analysis.Thresholds())); err == nil && len(prev) > 0 {
				c.Logger.Info("[Analyze] %d earlier runs share these inputs, latest %s", len(prev), prev[0].ID)
			}

			a, err := c.Analysis.Run(ctx, inputs)
			if err != nil {
				return err
			}

			dir := outDir
			if dir == "" {
				dir = c.Config.Paths.OutputDir
			}
			files, err := app.WriteReports(a, dir)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s: %d genes, %d edges, %d regulators scored\n",
				a.RunID(), a.Graph().NodeCount(), a.Graph().EdgeCount(), a.Scores().Defined())
			fmt.Printf("Statistics: %s\nReport: %s\n", files.Stats, files.HTML)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from RCR_OUTPUT_DIR)")
	cmd.Flags().BoolVar(&persist, "persist", false, "Store the run in DATABASE_URL")
	return cmd
}

func newPlotCmd() *cobra.Command {
	var in inputFlags
	var viewName, gene string

	cmd := &cobra.Command{
		Use:   "plot [output.{pdf,svg,png,jpg}]",
		Short: "Render the pathway, one hypothesis network or the full network with graphviz",
		Long: `Render a network view to an image file.

Views: pathway, hypothesis (requires --gene), full.

Example: rcr plot --view hypothesis --gene SMAD3 smad3.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := args[0]
			if err := render.CheckOutput(out); err != nil {
				return err
			}
			view, ok := render.ParseView(viewName)
			if !ok {
				return fmt.Errorf("unknown view %q: use pathway, hypothesis or full", viewName)
			}

			ctx := cmd.Context()
			c, err := bootstrap(ctx, &in, false)
			if err != nil {
				return err
			}
			inputs, err := c.Inputs()
			if err != nil {
				return err
			}
			a, err := c.Analysis.Run(ctx, inputs)
			if err != nil {
				return err
			}
			if err := app.Plot(ctx, a, view, gene, out, c.Renderer); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", out)
			return nil
		},
	}

	in.register(cmd)
	cmd.Flags().StringVar(&viewName, "view", string(render.ViewFull), "pathway | hypothesis | full")
	cmd.Flags().StringVar(&gene, "gene", "", "Regulator for the hypothesis view")
	return cmd
}

func newServeCmd() *cobra.Command {
	var in inputFlags
	var persist bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Analyze the configured inputs and serve the results over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := bootstrap(ctx, &in, persist)
			if err != nil {
				return err
			}
			defer c.Shutdown(ctx)
			return serve(ctx, c)
		},
	}

	in.register(cmd)
	cmd.Flags().BoolVar(&persist, "persist", false, "Store the run in DATABASE_URL")
	return cmd
}

// serve runs the analysis when inputs are configured and starts the API
func serve(ctx context.Context, c *container.Container) error {
	server := ui.NewServer(ui.ServerOptions{
		GinMode: c.Config.Server.GinMode,
		RunRepo: c.RunRepo,
		Metrics: c.Metrics,
		Logger:  c.Logger,
	})

	if c.Config.Paths.ExpressionFile != "" && c.Config.Paths.PathwayFile != "" {
		inputs, err := c.Inputs()
		if err != nil {
			return err
		}
		a, err := c.Analysis.Run(ctx, inputs)
		if err != nil {
			return err
		}
		server.SetAnalysis(a)
	} else {
		c.Logger.Warn("[Serve] no inputs configured, analysis routes will answer 503")
	}
	return server.Start(":" + c.Config.Server.Port)
}

func newFakeCmd() *cobra.Command {
	var cfg testkit.FakePathwayConfig
	var genes int
	var outDir string

	cmd := &cobra.Command{
		Use:   "fake",
		Short: "Write a random pathway and a matching expression top table",
		Long: `Sample edges from the complete pairwise graph over a gene set and write them,
with a synthetic expression table over the same genes, as pathway.txt and top.table.tsv.

Example: rcr fake --edges 20 --seed 7 --out demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if genes > 0 {
				cfg.Genes = make([]string, genes)
				for i := range cfg.Genes {
					cfg.Genes[i] = fmt.Sprintf("G%03d", i+1)
				}
			}
			edges, err := testkit.NewPathwayGenerator(cfg).Generate()
			if err != nil {
				return err
			}
			records := testkit.NewExpressionGenerator(testkit.ExpressionConfig{
				Genes:        cfg.Genes,
				UpFraction:   0.25,
				DownFraction: 0.25,
				Seed:         cfg.Seed,
			}).Generate()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			pathwayPath := filepath.Join(outDir, "pathway.txt")
			expressionPath := filepath.Join(outDir, "top.table.tsv")
			if err := writeFile(pathwayPath, func(f *os.File) error { return testkit.WritePathway(f, edges) }); err != nil {
				return err
			}
			if err := writeFile(expressionPath, func(f *os.File) error { return testkit.WriteExpression(f, records) }); err != nil {
				return err
			}
			fmt.Printf("Wrote %d edges to %s and %d records to %s\n", len(edges), pathwayPath, len(records), expressionPath)
			return nil
		},
	}

	def := testkit.DefaultFakePathwayConfig()
	cfg.Genes = def.Genes
	cmd.Flags().IntVar(&cfg.Edges, "edges", def.Edges, "Number of edges to sample")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", def.Seed, "Random seed")
	cmd.Flags().IntVar(&genes, "genes", 0, "Use G001..GNNN instead of the TGF-beta gene set")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	return cmd
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func newMigrateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate [database-url]",
		Short: "Create the analysis_runs and regulator_scores tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := migration.NewRunner()
			if dryRun {
				for _, step := range runner.Statements() {
					fmt.Printf("-- %s\n%s;\n\n", step.Name, step.SQL)
				}
				return nil
			}

			url := os.Getenv("DATABASE_URL")
			if len(args) == 1 {
				url = args[0]
			}
			if url == "" {
				return fmt.Errorf("database URL required: pass it as an argument or set DATABASE_URL")
			}

			ctx := cmd.Context()
			db, err := sqlx.ConnectContext(ctx, "postgres", url)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := runner.Run(ctx, db); err != nil {
				return err
			}
			fmt.Printf("Schema at version %s\n", runner.Version())
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the SQL instead of running it")
	return cmd
}
