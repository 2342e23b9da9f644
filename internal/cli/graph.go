package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/printqueue/pkg/dag"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
	"github.com/matzehuels/printqueue/pkg/queue"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		index int
		out   string
	)

	cmd := &cobra.Command{
		Use:   "graph [file|-] --update N",
		Short: "Render the rules that apply to one update",
		Long: `Graph writes the rule graph restricted to the pages of one update.

Without --out the graph is printed as DOT. An --out path ending in .svg is
rendered with Graphviz; any other extension is written as DOT. The middle page
of the corrected order is highlighted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(inputPath(args), cmd.InOrStdin())
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), true, nil)
			if err != nil {
				return err
			}
			m, err := runner.Parse(cmd.Context(), data)
			if err != nil {
				return err
			}
			if err := perrors.ValidateUpdateIndex(index, len(m.Updates)); err != nil {
				return err
			}
			dot := c.updateDOT(m, index)

			if out == "" {
				_, err := fmt.Fprint(c.out, dot)
				return err
			}

			body := []byte(dot)
			if strings.EqualFold(filepath.Ext(out), ".svg") {
				prog := newProgress(loggerFromContext(cmd.Context()))
				if body, err = dag.RenderSVG(cmd.Context(), dot); err != nil {
					return err
				}
				prog.done("Rendered SVG")
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			printSuccess(c.out, "Wrote graph for update %d", index)
			printFile(c.out, out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "update", "u", 0, "zero-based index of the update")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (.svg or .dot); DOT to stdout if empty")
	_ = cmd.MarkFlagRequired("update")

	return cmd
}

func (c *CLI) updateDOT(m *queue.Manual, index int) string {
	g := m.Graph(index)
	opts := dag.DOTOptions{Title: fmt.Sprintf("update %d", index)}
	order, err := g.Order(c.Config.ParsedStrategy())
	if err != nil {
		c.Logger.Warn("update has no valid order", "update", index, "err", err)
	} else {
		opts.Highlight = []uint32{order[len(order)/2]}
	}
	return dag.ToDOT(g, opts)
}
