package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	windsway "github.com/phanxgames/windsway"
)

func (c *CLI) presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in wind presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(out, presetTable())
		},
	}
}

// presetTable renders every preset as one row.
func presetTable() string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	nameStyle := lipgloss.NewStyle().Foreground(colorCyan).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	var rows [][]string
	for _, name := range windsway.PresetNames() {
		p := windsway.Presets[name]
		rows = append(rows, []string{
			name,
			strconv.Itoa(p.Divisions),
			formatFloat(p.AngleDeg),
			formatFloat(p.PeriodSec),
			formatFloat(p.PhaseShiftDeg),
			formatFloat(p.CenterDeg),
			fmt.Sprintf("%s/%s", formatFloat(p.TopFixedPct), formatFloat(p.BottomFixedPct)),
			onOff(p.FromBottom),
			onOff(p.RandomSwing),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Preset", "Div", "Angle", "Period", "Phase", "Center", "Fixed %", "Bottom", "Random").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return nameStyle
			}
			return cellStyle
		})
	return t.Render()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
