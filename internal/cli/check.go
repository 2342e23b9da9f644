package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/printqueue/pkg/queue"
)

// maxUpdateWidth truncates long updates in the check table.
const maxUpdateWidth = 40

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file|-]",
		Short: "Show which updates already follow the rules",
		Args:  cobra.MaximumNArgs(1),
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
			c.printCheck(m)
			return nil
		},
	}
}

func (c *CLI) printCheck(m *queue.Manual) {
	rows := make([][]string, len(m.Updates))
	bad := 0
	for i, u := range m.Updates {
		status := StyleSuccess.Render(iconSuccess)
		broken := ""
		if v := m.Violations(u); len(v) > 0 {
			bad++
			status = styleIconError.Render(iconError)
			broken = fmt.Sprintf("%d|%d", v[0].Before, v[0].After)
			if len(v) > 1 {
				broken += fmt.Sprintf(" (+%d)", len(v)-1)
			}
		}
		rows[i] = []string{fmt.Sprint(i), status, formatUpdate(u), fmt.Sprint(u.Middle()), broken}
	}

	printTable(c.out, []string{"#", "ok", "update", "middle", "broken rule"}, rows)
	fmt.Fprintln(c.out)
	printKeyValue(c.out, "part 1", fmt.Sprint(m.Part1()))
	if bad > 0 {
		printWarning(c.out, "%d of %d updates break the rules", bad, len(m.Updates))
		printDetail(c.out, "printqueue order --update N shows the corrected order")
	}
}

// formatUpdate renders an update as comma-separated pages.
func formatUpdate(u queue.Update) string {
	parts := make([]string, len(u))
	for i, p := range u {
		parts[i] = fmt.Sprint(p)
	}
	s := strings.Join(parts, ",")
	if len(s) > maxUpdateWidth {
		s = s[:maxUpdateWidth-1] + "…"
	}
	return s
}
