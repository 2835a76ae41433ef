package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a saved document.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		rf       renderFlags
		noCache  bool
		redisURL string
	)

	cmd := &cobra.Command{
		Use:   "visualize [document.json]",
		Short: "Render a saved diagram document",
		Long: `Render a saved diagram document.

The visualize command takes a document.json file (produced by
'render -f json') and renders it to HTML, DOT, SVG, PNG or PDF. The
document holds every snapshot, so no input table is needed.

Use 'render' to go directly from a flow table to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var opts pipeline.Options
			rf.apply(cmd, &opts)
			opts.Logger = c.Logger
			opts.SetRenderDefaults()
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], opts, cacheSettingsFor(noCache, redisURL, nil), rf.output)
		},
	}

	rf.register(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Redis URL for a shared cache (or $"+envRedisURL+")")

	return cmd
}

// runVisualize loads the document and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, opts pipeline.Options, cs cacheSettings, output string) error {
	doc, err := graph.ReadDocumentFile(input)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cs)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("visualize: %w", err)
	}

	printSuccess("%s", doc.Title)
	printStats(doc.Stats.Nodes, doc.Stats.Edges, doc.Stats.Frames, cacheHit)

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
	})
}
