package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sheetpack/pkg/pipeline"
	"github.com/matzehuels/sheetpack/pkg/sheet"
	"github.com/matzehuels/sheetpack/pkg/source/local"
)

// planCommand creates the plan command for computing a document without
// rendering it.
func (c *CLI) planCommand() *cobra.Command {
	var (
		output     string
		configPath string
		fromJSON   string
		noCache    bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "plan [dir]",
		Short: "Compute a packing plan without rendering",
		Long: `Compute a packing plan without rendering.

The plan command produces the document JSON that 'render' consumes:
every image's page, position, size, and scale. Use it to inspect or
post-process a layout before committing to a render, or feed it
dimensions directly with --from-json to plan without any image files:

  sheetpack plan ./images -o plan.json
  sheetpack plan --from-json dims.json -o plan.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fromJSON == "" {
				return fmt.Errorf("a directory or --from-json is required")
			}
			if len(args) == 1 && fromJSON != "" {
				return fmt.Errorf("a directory and --from-json are mutually exclusive")
			}

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg, &opts, new(string), &output)

			input := fromJSON
			if len(args) == 1 {
				input = args[0]
			}
			return c.runPlan(cmd.Context(), args, fromJSON, input, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: derived from input)")
	cmd.Flags().StringVar(&fromJSON, "from-json", "", "read image dimensions from a JSON file instead of a directory")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: ./sheetpack.toml)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	addPackFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, args []string, fromJSON, input string, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	var dims []sheet.Dim
	if fromJSON != "" {
		dims, err = sheet.ImportDims(fromJSON)
		if err != nil {
			return err
		}
	} else {
		set, err := (&local.Loader{Dir: args[0]}).Load(ctx)
		if err != nil {
			return err
		}
		for _, skip := range set.Skipped {
			printWarning("skipped %s: %v", skip.Ref, skip.Err)
		}
		dims = set.Dims
	}

	track := newProgress(c.Logger)
	doc, hit, err := runner.PlanWithCacheInfo(ctx, dims, opts)
	if err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	track.done(fmt.Sprintf("Planned %d images onto %d pages", len(dims), len(doc.Pages)))

	path := output
	if path == "" {
		path = basePath("", input) + ".json"
	}
	if err := sheet.ExportDocument(doc, path); err != nil {
		return err
	}

	printSuccess("Wrote plan")
	printFile(path)
	printStats(len(dims), len(doc.Pages), hit)
	if fromJSON == "" {
		printNextStep("Render it", fmt.Sprintf("sheetpack render %s %s", path, args[0]))
	}
	return nil
}
