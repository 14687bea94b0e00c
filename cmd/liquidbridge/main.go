package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/liquidbridge/internal/automation"
	"github.com/san-kum/liquidbridge/internal/config"
	"github.com/san-kum/liquidbridge/internal/experiment"
	"github.com/san-kum/liquidbridge/internal/export"
	"github.com/san-kum/liquidbridge/internal/host"
	"github.com/san-kum/liquidbridge/internal/metrics"
	"github.com/san-kum/liquidbridge/internal/optim"
	"github.com/san-kum/liquidbridge/internal/plugin"
	"github.com/san-kum/liquidbridge/internal/prefs"
	"github.com/san-kum/liquidbridge/internal/property"
	"github.com/san-kum/liquidbridge/internal/storage"
	"github.com/san-kum/liquidbridge/internal/tui"
	"github.com/san-kum/liquidbridge/internal/viz"
)

var (
	dataDir    string
	configFile string
	dt         float64
	duration   float64
	workers    int
	modelName  string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
	searchGrid []string
	metricName string
	maximize   bool
	outFile    string
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "liquidbridge",
		Short: "capillary liquid bridge contact model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLive(cmd, nil)
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".liquidbridge", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a scenario and store the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	scenarioFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "run a scenario with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	scenarioFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		RunE:  listPresets,
	}

	paramsCmd := &cobra.Command{
		Use:   "params [prefs] [typeA typeB]",
		Short: "show the bridge parameter table of a preference file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 && len(args) != 3 {
				return fmt.Errorf("accepts 1 or 3 args, received %d", len(args))
			}
			return nil
		},
		RunE: showParams,
	}

	propsCmd := &cobra.Command{
		Use:   "props",
		Short: "list the custom properties a model registers",
		RunE:  showProps,
	}
	propsCmd.Flags().StringVar(&modelName, "model", plugin.DefaultModel, "contact model")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "print the contact model interface version",
		Run: func(cmd *cobra.Command, args []string) {
			v := plugin.InterfaceVersion()
			major, minor, patch := plugin.UnpackVersion(v)
			fmt.Printf("interface 0x%06X (%d.%d.%d)\n", v, major, minor, patch)
			fmt.Printf("models: %v\n", plugin.Names())
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "run and store every scenario of a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "vary one scenario parameter over a range",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "liquid_content", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	searchCmd := &cobra.Command{
		Use:   "search [preset]",
		Short: "grid search scenario parameters for the best metric",
		Args:  cobra.ExactArgs(1),
		RunE:  runSearch,
	}
	searchCmd.Flags().StringArrayVar(&searchGrid, "grid", nil, "parameter values, e.g. liquid_content=1,2,5 (repeatable)")
	searchCmd.Flags().StringVar(&metricName, "metric", "peak_bridge_force", "metric to optimize")
	searchCmd.Flags().BoolVar(&maximize, "max", false, "maximize instead of minimize")
	searchCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [preset]",
		Short: "run a scenario and draw its final state as SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	scenarioFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&outFile, "out", "o", "snapshot.svg", "output file")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the bridge force history of a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		presetsCmd, paramsCmd, propsCmd, versionCmd, batchCmd, sweepCmd, searchCmd, snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().IntVar(&workers, "workers", 0, "contact evaluation workers (0 = all CPUs)")
}

// loadScenario resolves the scenario from --config or a preset name, then
// applies the flags the user set explicitly.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
		if cfg.Name == "" {
			cfg.Name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
		}
	case len(args) > 0:
		cfg = config.GetPreset(args[0])
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
		}
	default:
		cfg = config.GetPreset("pair")
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	return cfg, nil
}

func smallestRadius(cfg *config.Config) float64 {
	r := math.Inf(1)
	for _, p := range cfg.Particles {
		r = math.Min(r, p.Radius)
	}
	return r
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(metrics.Standard(smallestRadius(cfg))...); err != nil {
		return err
	}
	defer exp.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println(titleStyle.Render("running " + cfg.Name))
	start := time.Now()
	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Scenario:  cfg.Name,
		Model:     cfg.Model,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Particles: len(cfg.Particles),
		Walls:     len(cfg.Walls),
	}, result, exp.Prefs())
	if err != nil {
		return err
	}

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.Steps)
	fmt.Printf("bridges: %d of %d contacts\n", final.Bridges, final.Contacts)
	if result.ContactErrors > 0 {
		fmt.Printf("contact errors: %d\n", result.ContactErrors)
	}
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, result.Metrics[name])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if runErr != nil {
		return fmt.Errorf("run stopped early: %w", runErr)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		name, err := tui.Pick()
		if err != nil {
			return err
		}
		if name == "" {
			return nil
		}
		args = []string{name}
	}

	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	return viz.Run(exp.World(), cfg.Name, cfg.Duration)
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
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tPARTICLES\tRUPTURES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%gs\t%gs\t%d\t%g\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Particles,
			run.Metrics["ruptures"],
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
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Println(titleStyle.Render("run: " + meta.ID))
	fmt.Println(dimStyle.Render(fmt.Sprintf("scenario: %s  samples: %d", meta.Scenario, len(samples))))
	fmt.Println()

	series := []struct {
		caption string
		value   func(host.Sample) float64
	}{
		{"bridge force [N]", func(s host.Sample) float64 { return s.BridgeForce }},
		{"bridges", func(s host.Sample) float64 { return float64(s.Bridges) }},
		{"normal force [N]", func(s host.Sample) float64 { return s.NormalForce }},
		{"kinetic energy [J]", func(s host.Sample) float64 { return s.KineticEnergy }},
	}
	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		))
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPARTICLES\tWALLS\tDURATION\tDT")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%d\t%gs\t%gs\n", name, len(cfg.Particles), len(cfg.Walls), cfg.Duration, cfg.Dt)
	}
	return w.Flush()
}

func showParams(cmd *cobra.Command, args []string) error {
	p, err := prefs.Load(args[0])
	if err != nil {
		return err
	}

	if len(args) == 3 {
		par := p.Table().Lookup(args[1], args[2])
		fmt.Printf("%s:%s  gamma=%g N/m  theta=%g rad\n", args[1], args[2], par.SurfaceTension, par.WettingAngle)
		return nil
	}

	fmt.Printf("cohesion start: %gs\n", p.CohesionStart)
	fmt.Printf("liquid density: %g kg/m^3\n\n", p.LiquidDensity)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PAIR\tGAMMA\tTHETA")
	for _, r := range p.Rows {
		fmt.Fprintf(w, "%s:%s\t%g\t%g\n", r.TypeA, r.TypeB, r.Params.SurfaceTension, r.Params.WettingAngle)
	}
	return w.Flush()
}

func showProps(cmd *cobra.Command, args []string) error {
	m, err := plugin.Instantiate(modelName)
	if err != nil {
		return err
	}
	defer plugin.Release(m)

	if !m.UsesCustomProperties() {
		fmt.Println("no custom properties")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tNAME\tTYPE\tELEMENTS\tUNIT")
	for _, cat := range property.Categories {
		for i := 0; i < m.NumberOfRequiredProperties(cat); i++ {
			def, ok := m.PropertyDetails(i, cat)
			if !ok {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", cat, def.Name, def.DataType, def.Elements, def.Unit)
		}
	}
	return w.Flush()
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runBatch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("batch " + b.Name))
	if b.Description != "" {
		fmt.Println(dimStyle.Render(b.Description))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunBatch(ctx, b, st)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tRUN ID\tSTEPS\tPEAK FORCE\tRUPTURES")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.4g\t%g\n", r.Scenario, r.RunID, r.Result.Steps,
			r.Result.Metrics["peak_bridge_force"], r.Result.Metrics["ruptures"])
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	s := &automation.Sweep{
		Preset: args[0],
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Steps:  sweepSteps,
	}
	if cmd.Flags().Changed("time") {
		s.Params = map[string]float64{"duration": duration}
	}

	results, err := automation.RunSweep(context.Background(), s, func(done, total int) {
		fmt.Fprintf(os.Stderr, "\rsweep %d/%d", done, total)
	})
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}

	names := sortedKeys(results[0].Metrics)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, strings.ToUpper(sweepParam))
	for _, n := range names {
		fmt.Fprint(w, "\t"+n)
	}
	fmt.Fprintln(w)
	for _, r := range results {
		fmt.Fprintf(w, "%g", r.Value)
		for _, n := range names {
			fmt.Fprintf(w, "\t%.4g", r.Metrics[n])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

// parseGrid reads name=v1,v2,... entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad grid entry %q, want name=v1,v2", e)
		}
		var vals []float64
		for _, f := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("bad grid value in %q: %w", e, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(searchGrid) == 0 {
		return fmt.Errorf("at least one --grid is required (parameters: %v)", config.ParamNames())
	}
	names, ranges, err := parseGrid(searchGrid)
	if err != nil {
		return err
	}

	preset := args[0]
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	radius := smallestRadius(cfg)

	build := optim.FromPreset(preset, func() []host.Metric { return metrics.Standard(radius) })
	if cmd.Flags().Changed("time") {
		base := build
		build = func(p map[string]float64) (*experiment.Experiment, error) {
			withTime := map[string]float64{"duration": duration}
			for k, v := range p {
				withTime[k] = v
			}
			return base(withTime)
		}
	}

	g := optim.NewGridSearch(names, ranges)
	if maximize {
		g.Maximize()
	}
	best, val, err := g.Search(context.Background(), build, metricName)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("best " + metricName))
	fmt.Printf("value: %.6g\n", val)
	for _, n := range names {
		fmt.Printf("  %s = %g\n", n, best[n])
	}
	return nil
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	defer exp.Close()

	if _, err := exp.Run(context.Background()); err != nil {
		return err
	}

	svg := export.CanvasToSVG(viz.Snapshot(exp.World()), 4)
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	samples, err := storage.New(dataDir).LoadSamples(args[0])
	if err != nil {
		return err
	}

	times := make([]float64, len(samples))
	forces := make([]float64, len(samples))
	for i, s := range samples {
		times[i] = s.Time
		forces[i] = s.BridgeForce
	}
	svg := export.SeriesToSVG(times, forces, 800, 400, "#00ccff")
	if svg == "" {
		return fmt.Errorf("not enough data to plot")
	}

	if outFile == "" {
		_, err = fmt.Println(svg)
		return err
	}
	return os.WriteFile(outFile, []byte(svg), 0644)
}
