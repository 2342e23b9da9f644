package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/printqueue/pkg/dag"
	perrors "github.com/matzehuels/printqueue/pkg/errors"
)

// orderCommand creates the order command.
func (c *CLI) orderCommand() *cobra.Command {
	var (
		index    int
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "order [file|-] --update N",
		Short: "Print the corrected order of one update",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := c.Config.ParsedStrategy()
			if cmd.Flags().Changed("strategy") {
				var err error
				if s, err = dag.ParseStrategy(strategy); err != nil {
					return perrors.Wrap(perrors.ErrCodeInvalidStrategy, err, "strategy")
				}
			}
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
			ordered, err := m.Reorder(index, s)
			if err != nil {
				return err
			}

			pages := make([]string, len(ordered))
			for i, p := range ordered {
				pages[i] = fmt.Sprint(p)
			}
			fmt.Fprintln(c.out, strings.Join(pages, ","))
			if m.IsCorrect(m.Updates[index]) {
				printDetail(c.out, "update %d already follows the rules", index)
			} else {
				printDetail(c.out, "was %s, middle page %d", formatUpdate(m.Updates[index]), ordered.Middle())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&index, "update", "u", 0, "zero-based index of the update")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "tie-break strategy: stack (default), queue, sorted")
	_ = cmd.MarkFlagRequired("update")

	return cmd
}
