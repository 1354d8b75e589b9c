// Package main provides the CLI entrypoint for hitdash.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/hitdash/internal/api"
	"github.com/verte-zerg/hitdash/internal/config"
	"github.com/verte-zerg/hitdash/internal/dataset"
	"github.com/verte-zerg/hitdash/internal/filter"
	"github.com/verte-zerg/hitdash/internal/generator"
	"github.com/verte-zerg/hitdash/internal/model"
	"github.com/verte-zerg/hitdash/internal/stats"
	"github.com/verte-zerg/hitdash/internal/statsui"
	"github.com/verte-zerg/hitdash/internal/store"
)

const (
	defaultSeed      = 42
	defaultYearStart = 2010
	defaultYearEnd   = 2019
	defaultSongsMin  = 55
	defaultSongsMax  = 65
	defaultFeature   = "bpm"
	defaultAddr      = ":8080"
	defaultFormat    = "text"
	shutdownTimeout  = 5 * time.Second
)

var (
	genSeed         int64
	genYearStart    int
	genYearEnd      int
	genSongsPerYear int
	genSongsMin     int
	genSongsMax     int
	genUniform      bool

	filterYearMin int
	filterYearMax int
	filterGenre   string
	filterArtist  string

	dashFeature string
	dashBins    int

	reportFormat string
	exportOut    string
	serveAddr    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "hitdash",
		Short:         "Synthetic hit-song dataset dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDashboardCmd,
	}

	pf := rootCmd.PersistentFlags()
	pf.Int64Var(&genSeed, "seed", defaultSeed, "random seed")
	pf.IntVar(&genYearStart, "year-start", defaultYearStart, "first generated year")
	pf.IntVar(&genYearEnd, "year-end", defaultYearEnd, "last generated year")
	pf.IntVar(&genSongsPerYear, "songs-per-year", 0, "fixed songs per year (0 draws from --songs-min/--songs-max)")
	pf.IntVar(&genSongsMin, "songs-min", defaultSongsMin, "minimum songs per year (inclusive)")
	pf.IntVar(&genSongsMax, "songs-max", defaultSongsMax, "maximum songs per year (exclusive)")
	pf.BoolVar(&genUniform, "uniform-artists", false, "sample artists uniformly instead of by weight")

	addFilterFlags(rootCmd)

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&filterYearMin, "year-min", 0, "first year of the view (default: 2015 or the dataset start)")
	cmd.Flags().IntVar(&filterYearMax, "year-max", 0, "last year of the view (default: the dataset end)")
	cmd.Flags().StringVar(&filterGenre, "genre", model.Wildcard, "genre filter or All")
	cmd.Flags().StringVar(&filterArtist, "artist", model.Wildcard, "artist filter or All")
	cmd.Flags().StringVar(&dashFeature, "feature", defaultFeature, "distribution feature (bpm, energy, danceability, popularity)")
	cmd.Flags().IntVar(&dashBins, "bins", stats.DefaultBins, "histogram bins")
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ds, err := loadDataset(cmd, fileCfg)
	if err != nil {
		return err
	}
	f, feature, err := resolveView(cmd, fileCfg, ds)
	if err != nil {
		return err
	}
	if lo, hi, ok := ds.YearSpan(); ok {
		f = filter.Clamp(f, lo, hi)
	}

	ui := statsui.NewModel(ds, statsui.Options{Filter: f, Feature: feature, Bins: dashBins})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the dashboard sections for a filtered view",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	addFilterFlags(cmd)
	cmd.Flags().StringVar(&reportFormat, "format", defaultFormat, "output format (text, yaml, json)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ds, err := loadDataset(cmd, fileCfg)
	if err != nil {
		return err
	}
	f, feature, err := resolveView(cmd, fileCfg, ds)
	if err != nil {
		return err
	}
	report, err := stats.BuildReport(ds, f, feature, dashBins)
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), report, reportFormat)
}

func writeReport(out io.Writer, report stats.Report, format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "text", "":
		if err := stats.RenderReport(out, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	default:
		return fmt.Errorf("unknown --format %q (use text, yaml or json)", format)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the generated dataset to SQLite",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "SQLite file (default: XDG data dir)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	ds, err := loadDataset(cmd, fileCfg)
	if err != nil {
		return err
	}

	path := exportOut
	if path == "" {
		path = config.DefaultExportPath()
	}
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := st.WriteDataset(ctx, ds); err != nil {
		return fmt.Errorf("failed to export dataset: %w", err)
	}
	gen, err := verifyExport(ctx, st, ds)
	if err != nil {
		return fmt.Errorf("failed to verify export: %w", err)
	}
	counts, err := st.CountByYear(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify export: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Wrote %s songs to %s (seed %d, %s)\n",
		humanize.Comma(int64(gen.Songs)), path, gen.Seed, humanize.Time(gen.CreatedAt)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(out, "  %d: %d\n", c.Year, c.Songs); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// verifyExport reads the snapshot back and checks it against ds row by row.
func verifyExport(ctx context.Context, st *store.Store, ds *dataset.Dataset) (store.Generation, error) {
	gen, err := st.Generation(ctx)
	if err != nil {
		return store.Generation{}, err
	}
	if gen.ParamsKey != ds.Params().Key() || gen.Songs != ds.Len() {
		return store.Generation{}, fmt.Errorf("snapshot header mismatch: %d songs stored, %d generated", gen.Songs, ds.Len())
	}
	stored, err := st.ListSongs(ctx)
	if err != nil {
		return store.Generation{}, err
	}
	want := ds.View()
	if len(stored) != len(want) {
		return store.Generation{}, fmt.Errorf("stored %d songs, generated %d", len(stored), len(want))
	}
	for i := range want {
		if stored[i] != want[i] {
			return store.Generation{}, fmt.Errorf("song %s differs after export", want[i].ID)
		}
	}
	return gen, nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dataset views as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().IntVar(&dashBins, "bins", stats.DefaultBins, "default histogram bins")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Serve.Addr)
	applyIntConfig(cmd, "bins", &dashBins, fileCfg.Dashboard.Bins)
	if err := checkBins(dashBins); err != nil {
		return err
	}

	params, err := buildParams(cmd, fileCfg)
	if err != nil {
		return err
	}
	cache := dataset.NewCache()
	// Fail on bad params before listening.
	if _, err := cache.Get(params); err != nil {
		return datasetError(err)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           api.NewServer(cache, params, dashBins).Router(os.Stderr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logErrf("Serving on %s\n", serveAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	logErrln("Server stopped")
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// buildParams merges generation flags over the config file.
func buildParams(cmd *cobra.Command, fileCfg config.FileConfig) (generator.Params, error) {
	gc := fileCfg.Generate
	applyInt64Config(cmd, "seed", &genSeed, gc.Seed)
	applyIntConfig(cmd, "year-start", &genYearStart, gc.YearStart)
	applyIntConfig(cmd, "year-end", &genYearEnd, gc.YearEnd)
	applyIntConfig(cmd, "songs-per-year", &genSongsPerYear, gc.SongsPerYear)
	applyIntConfig(cmd, "songs-min", &genSongsMin, gc.SongsMin)
	applyIntConfig(cmd, "songs-max", &genSongsMax, gc.SongsMax)
	applyBoolConfig(cmd, "uniform-artists", &genUniform, gc.UniformArtists)

	if genYearEnd < genYearStart {
		return generator.Params{}, fmt.Errorf("--year-end must be >= --year-start")
	}
	if genSongsPerYear < 0 {
		return generator.Params{}, fmt.Errorf("--songs-per-year must be >= 0")
	}

	params := generator.DefaultParams()
	params.Seed = genSeed
	params.Years = generator.YearRange(genYearStart, genYearEnd)
	params.Count = generator.CountPolicy{Fixed: genSongsPerYear, Min: genSongsMin, Max: genSongsMax}
	params.UniformArtists = genUniform
	if len(gc.Artists) > 0 {
		params.Artists = append([]generator.WeightedArtist(nil), gc.Artists...)
	}
	if len(gc.Genres) > 0 {
		params.Genres = append([]string(nil), gc.Genres...)
	}
	return params, nil
}

func loadDataset(cmd *cobra.Command, fileCfg config.FileConfig) (*dataset.Dataset, error) {
	params, err := buildParams(cmd, fileCfg)
	if err != nil {
		return nil, err
	}
	ds, err := dataset.NewCache().Get(params)
	if err != nil {
		return nil, datasetError(err)
	}
	return ds, nil
}

func datasetError(err error) error {
	if errors.Is(err, generator.ErrWeightSum) {
		logErrln("Artist weights in [[generate.artists]] must add up to 1, or set uniform-artists = true.")
	}
	return fmt.Errorf("failed to generate dataset: %w", err)
}

// resolveView merges filter and feature flags over the config file and validates them against ds.
func resolveView(cmd *cobra.Command, fileCfg config.FileConfig, ds *dataset.Dataset) (model.Filter, model.Feature, error) {
	fc := fileCfg.Filter
	applyIntConfig(cmd, "year-min", &filterYearMin, fc.YearMin)
	applyIntConfig(cmd, "year-max", &filterYearMax, fc.YearMax)
	applyStringConfig(cmd, "genre", &filterGenre, fc.Genre)
	applyStringConfig(cmd, "artist", &filterArtist, fc.Artist)
	applyStringConfig(cmd, "feature", &dashFeature, fileCfg.Dashboard.Feature)
	applyIntConfig(cmd, "bins", &dashBins, fileCfg.Dashboard.Bins)

	f := ds.DefaultFilter()
	if isSet(cmd, "year-min", fc.YearMin != nil) {
		f.YearMin = filterYearMin
	}
	if isSet(cmd, "year-max", fc.YearMax != nil) {
		f.YearMax = filterYearMax
	}
	f.Genre = filter.Resolve(model.Selector(filterGenre), ds.Genres())
	f.Artist = filter.Resolve(model.Selector(filterArtist), ds.Artists())
	if err := filter.Check(f, ds.Genres(), ds.Artists()); err != nil {
		return model.Filter{}, "", fmt.Errorf("invalid filter: %w", err)
	}
	if err := checkBins(dashBins); err != nil {
		return model.Filter{}, "", err
	}
	feature, err := model.ParseFeature(dashFeature)
	if err != nil {
		return model.Filter{}, "", err
	}
	return f, feature, nil
}

func checkBins(bins int) error {
	if bins <= 0 || bins > stats.MaxBins {
		return fmt.Errorf("--bins must be between 1 and %d, got %d", stats.MaxBins, bins)
	}
	return nil
}

func isSet(cmd *cobra.Command, name string, inConfig bool) bool {
	return inConfig || cmd.Flags().Changed(name)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# hitdash configuration
# Uncomment a value to enable it. CLI flags override config values.

[generate]
# seed = %d                # Random seed
# year-start = %d        # First generated year
# year-end = %d          # Last generated year
# songs-per-year = 60      # Fixed songs per year (unset draws from songs-min/songs-max)
# songs-min = %d           # Minimum songs per year (inclusive)
# songs-max = %d           # Maximum songs per year (exclusive)
# uniform-artists = false  # Sample artists uniformly instead of by weight
# genres = ["Pop", "Hip-Hop", "R&B", "Electronic", "Rock", "Country"]
#
# Artist weights must add up to 1.
# [[generate.artists]]
# name = "Ed Sheeran"
# weight = 0.5
# [[generate.artists]]
# name = "Dua Lipa"
# weight = 0.5

[filter]
# year-min = 2015          # First year of the view
# year-max = %d          # Last year of the view
# genre = %q             # Genre or All
# artist = %q            # Artist or All

[dashboard]
# feature = %q           # bpm, energy, danceability or popularity
# bins = %d                # Histogram bins

[serve]
# addr = %q           # HTTP listen address
`,
		defaultSeed,
		defaultYearStart,
		defaultYearEnd,
		defaultSongsMin,
		defaultSongsMax,
		defaultYearEnd,
		model.Wildcard,
		model.Wildcard,
		defaultFeature,
		stats.DefaultBins,
		defaultAddr,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
