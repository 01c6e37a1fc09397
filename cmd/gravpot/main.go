package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/gravpot/internal/analysis"
	"github.com/san-kum/gravpot/internal/config"
	"github.com/san-kum/gravpot/internal/export"
	"github.com/san-kum/gravpot/internal/potential"
	"github.com/san-kum/gravpot/internal/registry"
	"github.com/san-kum/gravpot/internal/storage"
	"github.com/san-kum/gravpot/internal/tui"
	"github.com/san-kum/gravpot/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string
	theme      string
	evalTime   float64
	rMin       float64
	rMax       float64
	samples    int
	direction  string
	columns    string
	outPath    string
	logX       bool
	noSave     bool
	checkStep  float64
	benchN     int
	radius     float64
	timeStep   float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravpot",
		Short: "composite gravitational potential toolkit",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			viz.SetTheme(theme)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravpot", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	evalCmd := &cobra.Command{
		Use:   "eval [q...]",
		Short: "evaluate potential, gradient and hessian at a point",
		RunE:  evalPoint,
	}
	evalCmd.Flags().Float64Var(&evalTime, "time", 0, "evaluation time (defaults to config time)")

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "compute and store a radial profile",
		RunE:  runProfile,
	}
	profileCmd.Flags().Float64Var(&rMin, "rmin", 0, "inner radius (defaults to config)")
	profileCmd.Flags().Float64Var(&rMax, "rmax", 0, "outer radius (defaults to config)")
	profileCmd.Flags().IntVar(&samples, "n", 0, "number of radii (defaults to config)")
	profileCmd.Flags().StringVar(&direction, "dir", "", "comma separated direction (defaults to config, then first axis)")
	profileCmd.Flags().Float64Var(&evalTime, "time", 0, "evaluation time (defaults to config time)")
	profileCmd.Flags().BoolVar(&noSave, "no-save", false, "print without storing the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored profiles",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored profile in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&columns, "columns", "phi,mass,vcirc", "comma separated columns")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored profile to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportPlotCmd := &cobra.Command{
		Use:   "export-plot [run_id]",
		Short: "render a stored profile to png, svg or pdf",
		Args:  cobra.ExactArgs(1),
		RunE:  exportPlot,
	}
	exportPlotCmd.Flags().StringVarP(&outPath, "out", "o", "profile.png", "output file; format follows the extension")
	exportPlotCmd.Flags().StringVar(&columns, "columns", "vcirc", "comma separated columns")
	exportPlotCmd.Flags().BoolVar(&logX, "logx", true, "logarithmic radius axis")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tNDIM\tG\tCOMPONENTS")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%g\t%s\n", name, cfg.NDim, cfg.G, componentKinds(cfg))
			}
			return w.Flush()
		},
	}

	kindsCmd := &cobra.Command{
		Use:   "kinds",
		Short: "list component kinds",
		Run: func(cmd *cobra.Command, args []string) {
			for _, k := range registry.NewRegistry().ListKinds() {
				fmt.Printf("  %s\n", k)
			}
		},
	}

	checkCmd := &cobra.Command{
		Use:   "check [q...]",
		Short: "compare gradient and hessian with finite differences",
		RunE:  checkPoint,
	}
	checkCmd.Flags().Float64Var(&checkStep, "h", 1e-5, "difference step")
	checkCmd.Flags().Float64Var(&evalTime, "time", 0, "evaluation time (defaults to config time)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark evaluation throughput",
		RunE:  benchComposite,
	}
	benchCmd.Flags().IntVar(&benchN, "n", 200000, "evaluations per operation")

	exploreCmd := &cobra.Command{
		Use:   "explore",
		Short: "interactive potential explorer",
		RunE:  runExplore,
	}
	exploreCmd.Flags().Float64Var(&radius, "r", 1, "initial evaluation radius")
	exploreCmd.Flags().Float64Var(&timeStep, "dt", 0.1, "time step for t")

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write a config file from a preset or the defaults",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(evalCmd, profileCmd, listCmd, plotCmd, exportJSONCmd, exportPlotCmd,
		presetsCmd, kindsCmd, checkCmd, benchCmd, exploreCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the active configuration. A config file overrides a
// preset; with neither the defaults are used.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	return cfg, nil
}

func buildComposite() (*config.Config, *potential.Composite, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	c, err := registry.NewRegistry().Composite(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, c, nil
}

func timeFlag(cmd *cobra.Command, cfg *config.Config) float64 {
	if cmd.Flags().Changed("time") {
		return evalTime
	}
	return cfg.Time
}

// parsePoint reads q from args; missing trailing coordinates are zero and no
// args means the unit point on the first axis.
func parsePoint(args []string, nDim int) ([]float64, error) {
	q := make([]float64, nDim)
	if len(args) == 0 {
		q[0] = 1
		return q, nil
	}
	if len(args) == 1 && strings.Contains(args[0], ",") {
		args = strings.Split(args[0], ",")
	}
	if len(args) > nDim {
		return nil, fmt.Errorf("got %d coordinates for a %d-D potential", len(args), nDim)
	}
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return nil, fmt.Errorf("coordinate %d: %w", i, err)
		}
		q[i] = v
	}
	return q, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func componentKinds(cfg *config.Config) string {
	kinds := make([]string, len(cfg.Components))
	for i, cc := range cfg.Components {
		kinds[i] = cc.Kind
	}
	return strings.Join(kinds, "+")
}

func hessianCaveat(c *potential.Composite) {
	if c.Rotated() {
		fmt.Println(viz.Warning.Render("note: hessian of rotated components is returned in their local frames"))
	}
}

func evalPoint(cmd *cobra.Command, args []string) error {
	cfg, c, err := buildComposite()
	if err != nil {
		return err
	}
	q, err := parsePoint(args, c.NDim())
	if err != nil {
		return err
	}

	fmt.Println(viz.RenderEvaluation(analysis.Evaluate(c, timeFlag(cmd, cfg), q, cfg.G)))
	return nil
}

func runProfile(cmd *cobra.Command, args []string) error {
	cfg, c, err := buildComposite()
	if err != nil {
		return err
	}

	spec := analysis.ProfileSpec{
		RMin:      cfg.Profile.RMin,
		RMax:      cfg.Profile.RMax,
		N:         cfg.Profile.N,
		Direction: cfg.Profile.Direction,
		Time:      timeFlag(cmd, cfg),
		G:         cfg.G,
	}
	if cmd.Flags().Changed("rmin") {
		spec.RMin = rMin
	}
	if cmd.Flags().Changed("rmax") {
		spec.RMax = rMax
	}
	if cmd.Flags().Changed("n") {
		spec.N = samples
	}
	if direction != "" {
		dir, err := parsePoint(splitList(direction), c.NDim())
		if err != nil {
			return fmt.Errorf("direction: %w", err)
		}
		spec.Direction = dir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	prof, err := analysis.RadialProfile(ctx, c, spec)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("%s  %d radii in %v\n", viz.Title.Render(cfg.Name), prof.Len(), elapsed)

	graph, err := viz.RenderProfile(prof, analysis.ColVCirc, 70, 12)
	if err == nil {
		fmt.Println(graph)
	}

	if noSave {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg, prof)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	fmt.Printf("saved: %s\n", runID)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTIME\tNDIM\tSAMPLES\tCOMPONENTS")

	for _, run := range runs {
		kinds := make([]string, len(run.Components))
		for i, cr := range run.Components {
			kinds[i] = cr.Kind
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NDim,
			run.Samples,
			strings.Join(kinds, "+"),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	prof, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("samples: %d\n\n", prof.Len())

	for _, col := range splitList(columns) {
		graph, err := viz.RenderProfile(prof, col, 80, 10)
		if err != nil {
			fmt.Println(viz.Warning.Render(err.Error()))
			continue
		}
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	prof, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	if outPath == "" {
		return export.WriteJSON(os.Stdout, *meta, prof)
	}
	if err := export.ExportJSON(outPath, *meta, prof); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func exportPlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	prof, err := st.LoadProfile(runID)
	if err != nil {
		return err
	}

	if err := export.PlotProfile(outPath, prof, splitList(columns), logX); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", outPath)
	return nil
}

func checkPoint(cmd *cobra.Command, args []string) error {
	cfg, c, err := buildComposite()
	if err != nil {
		return err
	}
	q, err := parsePoint(args, c.NDim())
	if err != nil {
		return err
	}
	t := timeFlag(cmd, cfg)

	grad := analysis.GradientCheck(c, t, q, checkStep)
	hess := analysis.HessianCheck(c, t, q, checkStep)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHECK\tMAX REL ERR")
	fmt.Fprintf(w, "gradient\t%.3e\n", grad.MaxRelErr)
	fmt.Fprintf(w, "hessian\t%.3e\n", hess.MaxRelErr)
	if err := w.Flush(); err != nil {
		return err
	}

	hessianCaveat(c)
	return nil
}

func benchComposite(cmd *cobra.Command, args []string) error {
	if benchN < 1 {
		return fmt.Errorf("--n must be positive")
	}
	cfg, c, err := buildComposite()
	if err != nil {
		return err
	}

	n := c.NDim()
	ws := potential.NewWorkspace(c)
	q := make([]float64, n)
	for i := range q {
		q[i] = 0.7 + 0.1*float64(i)
	}
	grad := make([]float64, n)
	hess := make([]float64, n*n)

	ops := []struct {
		name string
		fn   func()
	}{
		{"value", func() { ws.Value(cfg.Time, q) }},
		{"density", func() { ws.Density(cfg.Time, q) }},
		{"gradient", func() { ws.Gradient(cfg.Time, q, grad) }},
		{"hessian", func() { ws.Hessian(cfg.Time, q, hess) }},
		{"dphi_dr", func() { ws.DPhiDr(cfg.Time, q) }},
		{"mass", func() { ws.MassEnclosed(cfg.Time, q, cfg.G) }},
	}

	fmt.Printf("benchmarking %s (%d components, %d-D)\n\n", cfg.Name, c.Len(), n)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "OP\tCALLS\tTIME\tNS/OP\tOPS/SEC")

	for _, op := range ops {
		start := time.Now()
		for i := 0; i < benchN; i++ {
			op.fn()
		}
		elapsed := time.Since(start)
		nsPerOp := float64(elapsed.Nanoseconds()) / float64(benchN)
		fmt.Fprintf(w, "%s\t%d\t%v\t%.1f\t%.0f\n",
			op.name, benchN, elapsed, nsPerOp, float64(benchN)/elapsed.Seconds())
	}

	return w.Flush()
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, c, err := buildComposite()
	if err != nil {
		return err
	}
	return tui.Run(tui.NewExplorer(c, cfg.Name, cfg.G, cfg.Time, radius, timeStep))
}
