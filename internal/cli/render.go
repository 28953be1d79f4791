package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetpack/pkg/pipeline"
	"github.com/matzehuels/sheetpack/pkg/sheet"
	"github.com/matzehuels/sheetpack/pkg/source/local"
)

// renderCommand creates the render command for rendering from a plan.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		configPath string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [plan.json] [dir]",
		Short: "Render output files from a computed plan",
		Long: `Render output files from a computed plan.

The render command takes a plan.json file (produced by 'plan') and the
image directory it was computed from, and renders the final PDF or PNG
pages. The plan contains all positioning information, so this step is
purely about drawing.

Results are cached locally for faster subsequent runs.

Use 'pack' as a shortcut to go directly from a directory to output.`,
		Args: cobra.ExactArgs(2),
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
			return c.runRender(cmd.Context(), args[0], args[1], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./sheetpack.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "re-render even when a cached result exists")
	addRenderFlags(cmd, &opts)

	return cmd
}

// runRender loads the plan and image set, then renders.
func (c *CLI) runRender(ctx context.Context, input, dir string, opts pipeline.Options, output string, noCache bool) error {
	doc, err := sheet.ImportDocument(input)
	if err != nil {
		return fmt.Errorf("load plan %s: %w", input, err)
	}

	bg, err := pipeline.ParseBackground(opts.Background)
	if err != nil {
		return err
	}
	set, err := (&local.Loader{Dir: dir, Background: bg}).Load(ctx)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering pages...")
	spinner.Start()

	artifacts, previews, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, set, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		previews:  previews,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	}); err != nil {
		return err
	}
	printStats(doc.PlacementCount(), len(doc.Pages), cacheHit)
	return nil
}
