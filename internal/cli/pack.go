package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetpack/pkg/pipeline"
	"github.com/matzehuels/sheetpack/pkg/source/local"
)

// packCommand creates the pack command: the full load → pack → render run.
func (c *CLI) packCommand() *cobra.Command {
	var (
		formatsStr  string
		output      string
		configPath  string
		noCache     bool
		interactive bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "pack [dir]",
		Short: "Pack a directory of images into a PDF",
		Long: `Pack a directory of images into a PDF.

Images are loaded in filename order, composited onto a solid background,
cropped to their visible pixels, and packed onto as few pages as
possible. Images keep their natural size unless a page cannot hold them,
in which case they are scaled down uniformly (never below the scale
floor, except when an image cannot fit an empty page at all).

Plans and rendered files are cached locally for faster repeat runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &opts, &formatsStr, &output)

			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runPack(cmd.Context(), args[0], opts, output, noCache, interactive)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./sheetpack.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "show interactive loading progress")
	addPackFlags(cmd, &opts)
	addRenderFlags(cmd, &opts)

	return cmd
}

// addPackFlags registers the flags shared by pack and plan.
func addPackFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Paper, "paper", "", "page size: a4 (default), letter, legal, a3, a5, or WxH")
	cmd.Flags().StringVar(&opts.Unit, "unit", "", "unit for custom page sizes: pt (default), mm, cm, in, px")
	cmd.Flags().Float64Var(&opts.Margin, "margin", 0, "page margin in points, all four sides")
	cmd.Flags().Float64Var(&opts.ScaleFloor, "scale-floor", 0, "minimum scale before opening a new page (default 0.1)")
	cmd.Flags().BoolVar(&opts.Center, "center", false, "center each page's content in the usable area")
	cmd.Flags().BoolVar(&opts.AllowUpscale, "allow-upscale", false, "allow scaling images above their natural size")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")
}

// addRenderFlags registers the flags shared by pack and render.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVar(&opts.Background, "background", "", "background for transparent pixels: white (default), black, or #rrggbb")
	cmd.Flags().IntVar(&opts.JPEGQuality, "jpeg-quality", 0, "JPEG quality for embedded images, 1-100 (default 85)")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", 0, "raster scale for PNG previews (default 1.0)")
}

// applyConfig copies config file values into opts for every flag the
// user did not set explicitly. Flags always win.
func applyConfig(cmd *cobra.Command, cfg Config, opts *pipeline.Options, formatsStr, output *string) {
	set := func(flag string) bool { return cmd.Flags().Changed(flag) }

	if !set("paper") && cfg.Paper != "" {
		opts.Paper = cfg.Paper
	}
	if !set("unit") && cfg.Unit != "" {
		opts.Unit = cfg.Unit
	}
	if !set("margin") && cfg.Margin != 0 {
		opts.Margin = cfg.Margin
	}
	if !set("scale-floor") && cfg.ScaleFloor != 0 {
		opts.ScaleFloor = cfg.ScaleFloor
	}
	if !set("center") && cfg.Center {
		opts.Center = true
	}
	if !set("allow-upscale") && cfg.AllowUpscale {
		opts.AllowUpscale = true
	}
	if f := cmd.Flags().Lookup("background"); f != nil && !set("background") && cfg.Background != "" {
		opts.Background = cfg.Background
	}
	if f := cmd.Flags().Lookup("jpeg-quality"); f != nil && !set("jpeg-quality") && cfg.JPEGQuality != 0 {
		opts.JPEGQuality = cfg.JPEGQuality
	}
	if !set("format") && cfg.Format != "" && *formatsStr == "" {
		*formatsStr = cfg.Format
	}
	if !set("output") && cfg.Out != "" && *output == "" {
		*output = cfg.Out
	}
}

// runPack executes the full pipeline against an image directory.
func (c *CLI) runPack(ctx context.Context, dir string, opts pipeline.Options, output string, noCache, interactive bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	bg, err := pipeline.ParseBackground(opts.Background)
	if err != nil {
		return err
	}
	loader := &local.Loader{Dir: dir, Background: bg}
	opts.Loader = loader
	opts.Logger = loggerFromContext(ctx)

	var result *pipeline.Result
	if interactive {
		result, err = c.executeWithTUI(ctx, runner, loader, opts)
	} else {
		result, err = c.executeWithSpinner(ctx, runner, opts)
	}
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	for _, skip := range result.Skipped {
		printWarning("skipped %s: %v", skip.Ref, skip.Err)
	}
	if len(result.Document.Pages) == 0 {
		printWarning("No images found in %s", dir)
		return nil
	}

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		previews:  result.Previews,
		formats:   opts.Formats,
		input:     dir,
		output:    output,
		cacheHit:  result.CacheInfo.PlanHit && result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	printStats(result.Stats.ImageCount, result.Stats.PageCount,
		result.CacheInfo.PlanHit && result.CacheInfo.RenderHit)
	return nil
}

func (c *CLI) executeWithSpinner(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Result, error) {
	spinner := newSpinnerWithContext(ctx, "Packing images...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Packing failed")
		return nil, err
	}
	spinner.Stop()
	return result, nil
}

// executeWithTUI runs the pipeline with a live progress display fed by
// the loader's per-file callback.
func (c *CLI) executeWithTUI(ctx context.Context, runner *pipeline.Runner, loader *local.Loader, opts pipeline.Options) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	updates := make(chan loadProgressMsg, 16)
	loader.OnProgress = func(done, total int, file string) {
		select {
		case updates <- loadProgressMsg{done: done, total: total, file: file}:
		case <-ctx.Done():
		}
	}

	type execResult struct {
		result *pipeline.Result
		err    error
	}
	results := make(chan execResult, 1)
	go func() {
		result, err := runner.Execute(ctx, opts)
		close(updates)
		results <- execResult{result, err}
	}()

	model, err := tea.NewProgram(NewLoadModel(updates), tea.WithContext(ctx)).Run()
	if err != nil {
		cancel()
		<-results
		return nil, err
	}
	if m, ok := model.(LoadModel); ok && m.Aborted {
		cancel()
		<-results
		return nil, context.Canceled
	}

	res := <-results
	return res.result, res.err
}
