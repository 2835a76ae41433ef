package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/graph"
	"github.com/matzehuels/sankeyflow/pkg/pipeline"
)

// framesCommand creates the frames command that summarizes each frame.
func (c *CLI) framesCommand() *cobra.Command {
	var df diagramFlags

	cmd := &cobra.Command{
		Use:   "frames [input]",
		Short: "Print a per-frame summary of a diagram",
		Long: `Print a per-frame summary of a diagram.

Each row shows a frame's period, node and edge counts and total flow,
after filters and metrics. Periods whose rows were all filtered out are
listed with zero counts. The last row summarizes the whole diagram.`,
		Example: `  sankeyflow frames flows.csv --time year
  sankeyflow frames flows.csv --time year --filter "value>15"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := df.options(cmd, args)
			if err != nil {
				return err
			}
			doc, err := c.document(cmd.Context(), opts, df.cache(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, StyleTitle.Render(doc.Title))
			fmt.Fprintln(stdout, frameTable(doc))
			if !doc.Animated() {
				printNextStep("Add a timeline with", "sankeyflow frames "+opts.Input+" --time <column>")
			}
			return nil
		},
	}

	df.register(cmd)
	return cmd
}

// document assembles a diagram document through a runner.
func (c *CLI) document(ctx context.Context, opts pipeline.Options, cs cacheSettings) (graph.Document, error) {
	runner, err := c.newRunner(ctx, cs)
	if err != nil {
		return graph.Document{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	return runner.Document(ctx, opts)
}

// frameRows returns one row per frame followed by a row for the static
// view: index, label, nodes, edges and total flow.
func frameRows(doc graph.Document) [][]string {
	row := func(index, label string, s flow.Snapshot) []string {
		return []string{index, label, strconv.Itoa(len(s.Nodes)), strconv.Itoa(len(s.Edges)), formatFlow(s.TotalFlow())}
	}
	rows := make([][]string, 0, len(doc.Frames)+1)
	for _, f := range doc.Frames {
		rows = append(rows, row(strconv.Itoa(f.Index+1), f.Label, f.Snapshot))
	}
	return append(rows, row("", "all", doc.Static))
}

// frameTable renders frameRows as a bordered table. Empty frames are dimmed.
func frameTable(doc graph.Document) string {
	rows := frameRows(doc)
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Period", "Nodes", "Edges", "Flow").
		Rows(rows...).
		StyleFunc(func(r, col int) lipgloss.Style {
			if r == -1 {
				return headerStyle.Padding(0, 1)
			}
			if r == len(rows)-1 {
				return cell.Bold(true)
			}
			if rows[r][2] == "0" {
				return cell.Foreground(colorDim)
			}
			if col >= 2 {
				return cell.Foreground(colorCyan).Align(lipgloss.Right)
			}
			return cell
		}).
		Render()
}
