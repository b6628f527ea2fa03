package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joeblew999/fontdue/pkg/font"
)

// Theme holds the lipgloss styles used for terminal output.
type Theme struct {
	Accent  lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color

	Title        lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	Badge        lipgloss.Style
	BadgeMuted   lipgloss.Style
}

// NewTheme returns the dark theme.
func NewTheme() *Theme {
	t := &Theme{
		Accent:  lipgloss.Color("#4ade80"),
		Muted:   lipgloss.Color("#909090"),
		Error:   lipgloss.Color("#f87171"),
		Success: lipgloss.Color("#4ade80"),
	}

	t.Title = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.Subtle = lipgloss.NewStyle().Foreground(t.Muted)
	t.Highlight = lipgloss.NewStyle().Bold(true)
	t.ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	t.SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	t.Badge = lipgloss.NewStyle().Foreground(t.Accent).Padding(0, 1)
	t.BadgeMuted = lipgloss.NewStyle().Foreground(t.Muted).Padding(0, 1)
	return t
}

var sourceColors = map[font.Source]lipgloss.Color{
	font.SourceGoogle:    "#60a5fa",
	font.SourceBunny:     "#f472b6",
	font.SourceFontshare: "#facc15",
	font.SourceCDN:       "#a78bfa",
	font.SourceSystem:    "#909090",
	font.SourceLocal:     "#909090",
	font.SourceUpload:    "#4ade80",
}

// SourceBadge renders a source name in its color.
func (t *Theme) SourceBadge(s font.Source) string {
	color, ok := sourceColors[s]
	if !ok {
		return t.BadgeMuted.Render(string(s))
	}
	return lipgloss.NewStyle().Foreground(color).Padding(0, 1).Render(string(s))
}

// FontLine renders one collection font.
func (t *Theme) FontLine(f font.AppFont, selected bool) string {
	marker := " "
	if selected {
		marker = t.SuccessStyle.Render("●")
	}
	star := " "
	if f.Favorite {
		star = t.Title.Render("★")
	}
	return fmt.Sprintf("%s %s %s %s %s",
		marker, star,
		t.Highlight.Render(f.Name),
		t.SourceBadge(f.Source),
		t.Subtle.Render(f.ID+" "+weights(f.Weights)),
	)
}

// CatalogLine renders one catalog entry.
func (t *Theme) CatalogLine(f font.CatalogFont) string {
	italic := ""
	if f.HasItalic {
		italic = " italic"
	}
	return fmt.Sprintf("%s %s %s",
		t.Highlight.Render(f.Name),
		t.BadgeMuted.Render(string(f.Category)),
		t.Subtle.Render(f.ID+" "+weights(f.Weights)+italic),
	)
}

func weights(ws []int) string {
	parts := make([]string, len(ws))
	for i, w := range ws {
		parts[i] = fmt.Sprint(w)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
