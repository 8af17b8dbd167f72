package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Priority colors
	PriorityLow    lipgloss.Color
	PriorityMedium lipgloss.Color
	PriorityHigh   lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header lipgloss.Style
	Footer lipgloss.Style

	// Task styles
	TaskNormal   lipgloss.Style
	TaskSelected lipgloss.Style
	TaskPinned   lipgloss.Style
	TaskOverdue  lipgloss.Style

	// Sidebar styles
	SidebarItem     lipgloss.Style
	SidebarActive   lipgloss.Style
	SidebarCount    lipgloss.Style

	// Component styles
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Label      lipgloss.Style
	DueDate    lipgloss.Style
	GroupTitle lipgloss.Style

	// Input styles
	Input        lipgloss.Style
	InputFocused lipgloss.Style

	// Panel styles
	Panel lipgloss.Style

	// Help styles
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		Footer: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		TaskSelected: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Padding(0, 1),

		TaskPinned: lipgloss.NewStyle().
			Foreground(t.Warning).
			Padding(0, 1),

		TaskOverdue: lipgloss.NewStyle().
			Foreground(t.Error).
			Padding(0, 1),

		SidebarItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 1),

		SidebarActive: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		SidebarCount: lipgloss.NewStyle().
			Foreground(t.Subtle),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Italic(true),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		DueDate: lipgloss.NewStyle().
			Foreground(t.Warning),

		GroupTitle: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Bold(true),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// Dark is the default palette.
var Dark = Theme{
	Name:           "dark",
	Background:     lipgloss.Color("#1E1E2E"),
	Foreground:     lipgloss.Color("#CDD6F4"),
	Subtle:         lipgloss.Color("#6C7086"),
	Highlight:      lipgloss.Color("#313244"),
	Border:         lipgloss.Color("#45475A"),
	Primary:        lipgloss.Color("#89B4FA"),
	Secondary:      lipgloss.Color("#CBA6F7"),
	Success:        lipgloss.Color("#A6E3A1"),
	Warning:        lipgloss.Color("#F9E2AF"),
	Error:          lipgloss.Color("#F38BA8"),
	Info:           lipgloss.Color("#89DCEB"),
	PriorityLow:    lipgloss.Color("#89DCEB"),
	PriorityMedium: lipgloss.Color("#F9E2AF"),
	PriorityHigh:   lipgloss.Color("#F38BA8"),
}

// Light mirrors the dark palette on a light background.
var Light = Theme{
	Name:           "light",
	Background:     lipgloss.Color("#EFF1F5"),
	Foreground:     lipgloss.Color("#4C4F69"),
	Subtle:         lipgloss.Color("#9CA0B0"),
	Highlight:      lipgloss.Color("#DCE0E8"),
	Border:         lipgloss.Color("#BCC0CC"),
	Primary:        lipgloss.Color("#1E66F5"),
	Secondary:      lipgloss.Color("#8839EF"),
	Success:        lipgloss.Color("#40A02B"),
	Warning:        lipgloss.Color("#DF8E1D"),
	Error:          lipgloss.Color("#D20F39"),
	Info:           lipgloss.Color("#179299"),
	PriorityLow:    lipgloss.Color("#179299"),
	PriorityMedium: lipgloss.Color("#DF8E1D"),
	PriorityHigh:   lipgloss.Color("#D20F39"),
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Dark,
	Styles: NewStyles(Dark),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{Dark, Light}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// PriorityColor maps a task priority value to its theme color.
func PriorityColor(t Theme, priority int) lipgloss.Color {
	switch {
	case priority >= 5:
		return t.PriorityHigh
	case priority >= 3:
		return t.PriorityMedium
	case priority >= 1:
		return t.PriorityLow
	default:
		return t.Foreground
	}
}
