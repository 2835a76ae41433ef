package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// renderFlags are the output flags of the render command.
type renderFlags struct {
	formats  string
	output   string
	frame    int
	width    int
	height   int
	scale    float64
	detailed bool
}

// renderCommand creates the render command: input table to artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		df diagramFlags
		rf renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render a flow table to a Sankey diagram",
		Long: `Render a flow table (CSV or JSON) to a Sankey diagram.

The default output is a self-contained interactive HTML page. With --time
the page gets a timeline slider and a play button. Static formats (dot,
svg, png, pdf) render the whole diagram, or a single frame with --frame.

Flags override the config file; see 'sankeyflow.toml'.`,
		Example: `  sankeyflow render flows.csv
  sankeyflow render budget.json --source from --target to --value amount
  sankeyflow render flows.csv --time year --filter "big:value>15" -f html,svg
  sankeyflow render flows.csv --time year --frame 2 -f png -o 2022.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := df.options(cmd, args)
			if err != nil {
				return err
			}
			rf.apply(cmd, &opts)
			opts.Logger = c.Logger
			opts.SetRenderDefaults()
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, df.cache(cfg), rf.output)
		},
	}

	df.register(cmd)
	rf.register(cmd)
	return cmd
}

func (rf *renderFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&rf.formats, "format", "f", "", "output format(s): "+strings.Join(pipeline.FormatNames, ", ")+" (comma-separated, default html)")
	fl.StringVarP(&rf.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fl.IntVar(&rf.frame, "frame", 0, "frame number for static formats (default: whole diagram)")
	fl.IntVar(&rf.width, "width", 0, "canvas width in pixels (html)")
	fl.IntVar(&rf.height, "height", 0, "canvas height in pixels (html)")
	fl.Float64Var(&rf.scale, "scale", pipeline.DefaultScale, "PNG resolution multiplier")
	fl.BoolVar(&rf.detailed, "detailed", false, "label nodes and edges with their values (dot, svg, png, pdf)")

	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(pipeline.FormatNames))
}

// apply copies explicitly set render flags onto opts.
func (rf *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fl := cmd.Flags()
	if fl.Changed("format") {
		opts.Formats = parseFormats(rf.formats)
	}
	if fl.Changed("frame") {
		opts.Frame = rf.frame
	}
	if fl.Changed("width") {
		opts.Width = rf.width
	}
	if fl.Changed("height") {
		opts.Height = rf.height
	}
	if fl.Changed("scale") {
		opts.Scale = rf.scale
	}
	if fl.Changed("detailed") {
		opts.Detailed = rf.detailed
	}
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, cs cacheSettings, output string) error {
	runner, err := c.newRunner(ctx, cs)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %s...", filepath.Base(opts.Input)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(opts.Formats)))

	doc := result.Document
	printSuccess("%s", doc.Title)
	printStats(doc.Stats.Nodes, doc.Stats.Edges, doc.Stats.Frames, result.CacheInfo.DocumentHit)
	if doc.Stats.Nodes == 0 {
		printWarning("Every row was filtered out; the diagram is empty")
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
	})
}

// =============================================================================
// Artifact Output
// =============================================================================

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string // source file; names outputs when output is empty
	output    string
}

// writeArtifacts writes each artifact to disk. A single format goes to
// output verbatim; several formats share output as their base path.
func writeArtifacts(p artifactWriteParams) error {
	if len(p.formats) == 1 && p.output != "" && !isBareBase(p.output) {
		return writeArtifact(p.output, p.artifacts[p.formats[0]])
	}
	base := basePath(p.output, p.input)
	for _, format := range p.formats {
		if err := writeArtifact(base+"."+format, p.artifacts[format]); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printFile(path)
	return nil
}

// isBareBase reports whether path has no extension, so it is a base path
// the format extension is appended to.
func isBareBase(path string) bool {
	return filepath.Ext(path) == ""
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .html, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
