package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tagcloud/pkg/layout"
)

// shapesCommand lists every shape with its placement rule and axis locks.
func (c *CLI) shapesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shapes",
		Short: "List the available shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), shapesTable())
			return nil
		},
	}
}

func shapesTable() string {
	rows := make([][]string, 0, len(layout.All))
	for _, s := range layout.All {
		rows = append(rows, []string{string(s), axes(s), layout.Descriptions[s]})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Shape", "Spins", "Placement").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return StyleTitle.Padding(0, 1)
			case col == 0:
				return StyleHighlight.Padding(0, 1)
			}
			return StyleDim.Padding(0, 1)
		})
	return t.String()
}

// axes names the rotation axes a shape allows.
func axes(s layout.Shape) string {
	switch {
	case s.LocksTilt():
		return "spin"
	case s.LocksSpin():
		return "tilt"
	}
	return "spin, tilt"
}
