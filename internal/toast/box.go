package toast

import "github.com/charmbracelet/lipgloss"

var severityColors = map[Severity]lipgloss.Color{
	SeverityInfo:    lipgloss.Color("12"),
	SeveritySuccess: lipgloss.Color("10"),
	SeverityWarning: lipgloss.Color("11"),
	SeverityError:   lipgloss.Color("9"),
}

// Box renders node inside a bordered box colored by severity.
// A width of zero sizes the box to its content.
func Box(node Node, severity Severity, width int) string {
	color, ok := severityColors[severity]
	if !ok {
		color = severityColors[SeverityInfo]
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1)
	if width > 0 {
		// Width counts padding but not the border.
		style = style.Width(width - 2)
	}
	return style.Render(node.Render())
}
