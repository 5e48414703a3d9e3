package ui

import "github.com/charmbracelet/lipgloss"

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
	starOn       = "★"
	starOff      = "☆"
)

// Theme bundles the Lip Gloss styles every renderer pulls from.
type Theme struct {
	Dark bool

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Pending  lipgloss.Style
	Star     lipgloss.Style
	Selected lipgloss.Style
	Done     lipgloss.Style
	Help     lipgloss.Style
	Tag      lipgloss.Style
	Overdue  lipgloss.Style
	Panel    lipgloss.Style
	Active   lipgloss.Style

	High   lipgloss.Style
	Medium lipgloss.Style
	Low    lipgloss.Style
}

type palette struct {
	title, muted, accent, success, err, pending, border, chipBg, chipFg string
}

var (
	darkPalette  = palette{title: "212", muted: "245", accent: "39", success: "42", err: "203", pending: "214", border: "240", chipBg: "237", chipFg: "252"}
	lightPalette = palette{title: "125", muted: "242", accent: "27", success: "28", err: "160", pending: "166", border: "250", chipBg: "254", chipFg: "236"}
)

func ThemeFor(dark bool) Theme {
	p := lightPalette
	if dark {
		p = darkPalette
	}
	badge := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	return Theme{
		Dark:     dark,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.title)),
		Subtitle: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(p.muted)),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.success)),
		Error:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.err)),
		Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color(p.pending)),
		Star:     lipgloss.NewStyle().Foreground(lipgloss.Color(p.pending)),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		Done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Help:     lipgloss.NewStyle().Faint(true),
		Tag:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.chipFg)).Background(lipgloss.Color(p.chipBg)).Padding(0, 1),
		Overdue:  badge.Foreground(lipgloss.Color(p.err)),
		Panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(p.border)).Padding(0, 1),
		Active:   lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(p.accent)),
		High:     badge.Foreground(lipgloss.Color(p.err)),
		Medium:   badge.Foreground(lipgloss.Color(p.pending)),
		Low:      badge.Foreground(lipgloss.Color(p.success)),
	}
}
