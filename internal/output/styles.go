package output

import "github.com/charmbracelet/lipgloss"

// Color palette.
const (
	ColorLime   = "154" // headline
	ColorGray   = "245" // counts
	ColorRed    = "196" // errors
	ColorYellow = "220" // warnings
)

// Styles holds the styles used on stderr.
type Styles struct {
	Header  lipgloss.Style
	Label   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Label:   r.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Warning: r.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorRed)),
	}
}
