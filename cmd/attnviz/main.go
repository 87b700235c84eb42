package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/attnviz/internal/config"
	"github.com/san-kum/attnviz/internal/logging"
	"github.com/san-kum/attnviz/internal/palette"
	"github.com/san-kum/attnviz/internal/posenc"
	"github.com/san-kum/attnviz/internal/render"
	"github.com/san-kum/attnviz/internal/scene"
	"github.com/san-kum/attnviz/internal/store"
	"github.com/san-kum/attnviz/internal/termview"
	"github.com/san-kum/attnviz/internal/timeline"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	preset     string
	playPreset string
	backend    string
	outDir     string
	theme      string
	loop       bool
	renderAll  bool
	matrixOnly bool

	// pe preview
	seqLen    int
	dModel    int
	dims      []int
	maxCols   int
	waveWidth int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "attnviz",
		Short:         "animated explainers for transformer attention and positional encoding",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".attnviz", "data directory for render manifests")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	renderCmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "render a scene to frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  renderScene,
	}
	renderCmd.Flags().StringVar(&preset, "preset", "", "quality preset ("+strings.Join(config.ListPresets(), ", ")+")")
	renderCmd.Flags().StringVar(&backend, "backend", "", "output backend ("+strings.Join(render.Backends(), ", ")+")")
	renderCmd.Flags().StringVar(&outDir, "out", "", "output directory")
	renderCmd.Flags().BoolVar(&renderAll, "all", false, "render every built-in scene concurrently")

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list built-in scenes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range scene.NewRegistry().List() {
				fmt.Println(name)
			}
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list renders",
		RunE:  listRenders,
	}

	showCmd := &cobra.Command{
		Use:   "show [render_id]",
		Short: "print a render manifest as json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(dataDir)
			if !matrixOnly {
				return st.ExportJSON(os.Stdout, args[0])
			}
			m, err := st.LoadMatrix(args[0])
			if err != nil {
				return err
			}
			return store.ExportMatrix(os.Stdout, m)
		},
	}
	showCmd.Flags().BoolVar(&matrixOnly, "matrix", false, "print only the saved encoding matrix")

	peCmd := &cobra.Command{
		Use:   "pe",
		Short: "preview a positional encoding in the terminal",
		RunE:  previewEncoding,
	}
	peCmd.Flags().IntVar(&seqLen, "seq", 0, "sequence length (default from config)")
	peCmd.Flags().IntVar(&dModel, "dmodel", 0, "model width (default from config)")
	peCmd.Flags().IntSliceVar(&dims, "dims", []int{0, 1, 2, 3}, "dimensions to plot as waves")
	peCmd.Flags().IntVar(&maxCols, "max-cols", 64, "widest heatmap shown")
	peCmd.Flags().IntVar(&waveWidth, "width", 72, "wave plot width")
	peCmd.Flags().StringVar(&theme, "theme", "chalk", "color theme ("+strings.Join(palette.ThemeNames(), ", ")+")")

	playCmd := &cobra.Command{
		Use:   "play [scene]",
		Short: "render a scene as braille and play it in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  playScene,
	}
	playCmd.Flags().StringVar(&playPreset, "preset", "preview", "quality preset")
	playCmd.Flags().StringVar(&theme, "theme", "chalk", "color theme")
	playCmd.Flags().BoolVar(&loop, "loop", false, "restart after the last frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list quality presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tFPS")
			for _, name := range config.ListPresets() {
				q, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%d\n", name, q.Width, q.Height, q.FPS)
			}
			w.Flush()
		},
	}

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "write the default configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(renderCmd, scenesCmd, listCmd, showCmd, peCmd, playCmd, presetsCmd, initCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger() (*slog.Logger, error) {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	return logging.New(level), nil
}

// loadConfig reads the config file if one was given, then applies the
// quality preset and the scene argument.
func loadConfig(cmd *cobra.Command, args []string, quality string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if quality != "" {
		if err := cfg.ApplyPreset(quality); err != nil {
			return nil, err
		}
	}
	if len(args) > 0 {
		cfg.Scene = args[0]
	}
	if f := cmd.Flags().Lookup("backend"); f != nil && f.Changed {
		cfg.Render.Backend = backend
	}
	if f := cmd.Flags().Lookup("out"); f != nil && f.Changed {
		cfg.Render.OutDir = outDir
	}
	return cfg, cfg.Validate()
}

// outputPath names the directory or file a backend writes for a scene.
func outputPath(cfg *config.Config) string {
	base := filepath.Join(cfg.Render.OutDir, cfg.Scene)
	switch cfg.Render.Backend {
	case render.BackendGIF:
		return base + ".gif"
	case render.BackendBraille:
		return base + ".txt"
	}
	return base
}

func renderScene(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd, args, preset)
	if err != nil {
		return err
	}
	registry := scene.NewRegistry()
	names := []string{cfg.Scene}
	if renderAll {
		names = registry.List()
	}

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	jobs := make([]scene.Job, 0, len(names))
	targets := make([]render.Target, 0, len(names))
	outs := make([]string, 0, len(names))
	closeAll := func() {
		for _, t := range targets {
			t.Close()
		}
	}
	for _, name := range names {
		s, err := registry.Get(name)
		if err != nil {
			closeAll()
			return fmt.Errorf("%w (available: %s)", err, strings.Join(registry.List(), ", "))
		}
		jobCfg := *cfg
		jobCfg.Scene = name
		out := outputPath(&jobCfg)
		target, err := render.Open(jobCfg.Render.Backend, jobCfg.Viewport(), out)
		if err != nil {
			closeAll()
			return err
		}
		jobs = append(jobs, scene.Job{Scene: s, Config: &jobCfg, Target: target})
		targets = append(targets, target)
		outs = append(outs, out)
	}

	fmt.Printf("rendering %s (%s, %dx%d@%d)...\n", strings.Join(names, ", "), cfg.Render.Backend, cfg.Render.Width, cfg.Render.Height, cfg.Render.FPS)
	start := time.Now()
	results, renderErr := scene.RenderBatch(jobs, log)

	var failed []error
	for i, res := range results {
		cerr := targets[i].Close()
		id, serr := saveManifest(st, jobs[i].Config, outs[i], res)
		switch {
		case serr != nil:
			failed = append(failed, serr)
		case res.Status != timeline.Complete:
			fmt.Printf("%s: %s after %d frames [%s]\n", res.Scene, res.Status, res.Frames, id)
		case cerr != nil:
			failed = append(failed, fmt.Errorf("%s: %w", res.Scene, cerr))
		default:
			log.Info("render complete", "scene", res.Scene, "id", id, "frames", res.Frames)
			fmt.Printf("%s: %d frames (%.2fs) -> %s [%s]\n", res.Scene, res.Frames, res.Elapsed.Seconds(), outs[i], id)
		}
	}
	if renderErr != nil {
		failed = append(failed, renderErr)
	}
	if len(failed) > 0 {
		err := errors.Join(failed...)
		log.Error("render failed", "error", err)
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}

// saveManifest records a render in the store. The pe-heatmap scene also
// stores its encoding matrix.
func saveManifest(st *store.Store, cfg *config.Config, out string, res scene.Result) (string, error) {
	m := store.Manifest{
		Scene:    cfg.Scene,
		Backend:  cfg.Render.Backend,
		Output:   out,
		Quality:  cfg.Quality,
		Width:    cfg.Render.Width,
		Height:   cfg.Render.Height,
		FPS:      cfg.Render.FPS,
		Frames:   res.Frames,
		Steps:    res.Steps,
		Duration: res.Elapsed.Seconds(),
		Status:   res.Status.String(),
	}
	var matrix *posenc.Matrix
	if cfg.Scene == "pe-heatmap" {
		pe := cfg.PositionalEncoding
		m.Encoding = &store.EncodingInfo{SeqLen: pe.SeqLen, DModel: pe.DModel, Base: pe.Base}
		var err error
		if matrix, err = posenc.Generate(pe.SeqLen, pe.DModel, pe.Base); err != nil {
			return "", err
		}
	}
	return st.Save(m, matrix)
}

func listRenders(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	renders, err := st.List()
	if err != nil {
		return err
	}

	if len(renders) == 0 {
		fmt.Println("no renders found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tBACKEND\tSIZE\tFRAMES\tSTATUS")

	for _, r := range renders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dx%d\t%d\t%s\n",
			r.ID,
			r.Scene,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Backend,
			r.Width,
			r.Height,
			r.Frames,
			r.Status,
		)
	}

	return w.Flush()
}

func previewEncoding(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil, "")
	if err != nil {
		return err
	}
	pe := cfg.PositionalEncoding
	if seqLen > 0 {
		pe.SeqLen = seqLen
	}
	if dModel > 0 {
		pe.DModel = dModel
	}

	m, err := posenc.Generate(pe.SeqLen, pe.DModel, pe.Base)
	if err != nil {
		return err
	}
	st := termview.NewStyles(palette.GetTheme(theme))
	grad := palette.Heatmap()

	opts := termview.DefaultHeatmapOptions()
	opts.MaxCols = maxCols

	fmt.Println(st.Title.Render(fmt.Sprintf("positional encoding %dx%d (base %g)", pe.SeqLen, pe.DModel, pe.Base)))
	fmt.Print(termview.Heatmap(m, grad, st, opts))
	fmt.Println(termview.Legend(grad, 21, st))
	fmt.Println()

	plot, err := termview.Waves(m, dims, waveWidth, 12)
	if err != nil {
		return err
	}
	fmt.Println(plot)
	return nil
}

func playScene(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args, playPreset)
	if err != nil {
		return err
	}
	s, err := scene.NewRegistry().Get(cfg.Scene)
	if err != nil {
		return err
	}

	// the player owns the terminal, so logs are dropped
	cols, rows := render.BrailleSize(cfg.Viewport(), render.BrailleColumns)
	canvas := render.NewBraille(cols, rows, cfg.Render.UnitsWide)
	res, err := scene.Render(s, cfg, canvas, logging.NewNop())
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s  %d frames, %.1fs", cfg.Scene, res.Frames, res.Elapsed.Seconds())
	p := termview.NewPlayer(title, canvas.Frames(), canvas.Delays(), termview.NewStyles(palette.GetTheme(theme))).Looping(loop)
	return termview.Play(p, tea.WithAltScreen())
}
