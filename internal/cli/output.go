package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/sheetpack/pkg/pipeline"
)

// artifactWriteParams bundles everything needed to write pipeline
// outputs to disk and report them.
type artifactWriteParams struct {
	artifacts map[string][]byte
	previews  [][]byte
	formats   []string
	input     string // used to derive output names when --output is unset
	output    string
	cacheHit  bool
}

// writeArtifacts writes every rendered artifact next to the input (or
// under the explicit output path) and prints the resulting files.
func writeArtifacts(p artifactWriteParams) error {
	base := basePath(p.output, p.input)

	var written []string
	for _, format := range p.formats {
		switch format {
		case pipeline.FormatPNG:
			for i, page := range p.previews {
				path := fmt.Sprintf("%s_page%d.png", base, i+1)
				if err := os.WriteFile(path, page, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				written = append(written, path)
			}
		default:
			data, ok := p.artifacts[format]
			if !ok {
				continue
			}
			path := base + "." + format
			// Honor an explicit --output with a matching extension.
			if p.output != "" && len(p.formats) == 1 &&
				strings.TrimPrefix(filepath.Ext(p.output), ".") == format {
				path = p.output
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			written = append(written, path)
		}
	}

	printSuccess("Generated %d file(s)", len(written))
	for _, path := range written {
		printFile(path)
	}
	return nil
}

// basePath derives the base output path from the output and input paths.
// If output is empty, it uses the input's name without extension (for a
// directory input, the directory name itself). If output carries a known
// format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(filepath.Base(filepath.Clean(input)), filepath.Ext(input))
		if base == "" || base == "." || base == string(filepath.Separator) {
			base = appName
		}
		return base
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
