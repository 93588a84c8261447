package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Sage       = lipgloss.Color("#84A98C")
	Tomato     = lipgloss.Color("#E76F51")
	Saffron    = lipgloss.Color("#E9C46A")
	SlateDark  = lipgloss.Color("#1F2937")
	SlateLight = lipgloss.Color("#374151")
	DimGray    = lipgloss.Color("#6B7280")
	LightGray  = lipgloss.Color("#9CA3AF")
	White      = lipgloss.Color("#F9FAFB")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(SlateDark).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Sage)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Saffron)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Tomato)
)

// Help styles
var (
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Sage)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(DimGray)
)

// Spinner style
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(Sage)

// Search styles
var (
	SearchPromptStyle = lipgloss.NewStyle().
				Foreground(Sage).
				Bold(true)

	SearchTextStyle = lipgloss.NewStyle().
			Foreground(White)
)

// Notice shown at the bottom of a list
var NoticeStyle = lipgloss.NewStyle().
	Foreground(White).
	Background(Tomato).
	Padding(0, 1)

// Truncate shortens s to width cells, ending in an ellipsis when cut
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if width <= 3 {
		return string(runes[:min(width, len(runes))])
	}
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

// RowPart is one segment of a list row. A nil Style renders plain text.
type RowPart struct {
	Text  string
	Style *lipgloss.Style
}

// RenderListRow renders a list row. A selected row gets a uniform background
// across its full width, so every part is styled on its own.
func RenderListRow(parts []RowPart, selected bool, width int) string {
	bg := SlateLight

	var result string
	visibleLen := 0
	for _, part := range parts {
		style := lipgloss.NewStyle()
		switch {
		case part.Style != nil:
			style = *part.Style
		case selected:
			style = style.Foreground(White)
		default:
			style = style.Foreground(LightGray)
		}
		if selected {
			style = style.Background(bg)
		}
		result += style.Render(part.Text)
		visibleLen += lipgloss.Width(part.Text)
	}

	marginStyle := lipgloss.NewStyle()
	if selected {
		marginStyle = marginStyle.Background(bg)
	}

	// Fill to width, less one cell of margin each side
	if pad := width - visibleLen - 2; pad > 0 {
		result += marginStyle.Render(spaces(pad))
	}
	margin := marginStyle.Render(" ")
	return margin + result + margin
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
