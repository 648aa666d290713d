package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/tesso57/commit-pet/internal/pet"
)

// commit-pet theme (CLI + board).

const (
	IconSparkle = "✨"
	IconParty   = "🎉"
	IconFire    = "🔥"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🧨"
	IconScroll  = "📜"
)

const (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cBorder  = lipgloss.Color("51")  // cyan
)

// Theme is the style set for one output stream. It owns a lipgloss
// renderer bound to that stream; color detection and the monochrome
// switch apply to it alone.
type Theme struct {
	lg *lipgloss.Renderer

	Title lipgloss.Style
	H2    lipgloss.Style
	Muted lipgloss.Style
	Key   lipgloss.Style
	Good  lipgloss.Style
	Warn  lipgloss.Style
	Bad   lipgloss.Style
	Gold  lipgloss.Style
	Bold  lipgloss.Style

	Panel      lipgloss.Style
	PanelTitle lipgloss.Style
}

// NewTheme builds the styles for out. monochrome drops all color.
func NewTheme(out io.Writer, monochrome bool) Theme {
	lg := lipgloss.NewRenderer(out)
	if monochrome {
		lg.SetColorProfile(termenv.Ascii)
	}
	return Theme{
		lg:    lg,
		Title: lg.NewStyle().Bold(true).Foreground(cAccent),
		H2:    lg.NewStyle().Bold(true).Foreground(cPrimary),
		Muted: lg.NewStyle().Foreground(cMuted),
		Key:   lg.NewStyle().Bold(true).Foreground(cPrimary),
		Good:  lg.NewStyle().Bold(true).Foreground(cGood),
		Warn:  lg.NewStyle().Bold(true).Foreground(cWarn),
		Bad:   lg.NewStyle().Bold(true).Foreground(cBad),
		Gold:  lg.NewStyle().Bold(true).Foreground(cGold),
		Bold:  lg.NewStyle().Bold(true),

		Panel:      lg.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cBorder).Padding(0, 1),
		PanelTitle: lg.NewStyle().Bold(true).Foreground(cPrimary),
	}
}

// renderer falls back to lipgloss's default for a zero Theme.
func (t Theme) renderer() *lipgloss.Renderer {
	if t.lg == nil {
		return lipgloss.DefaultRenderer()
	}
	return t.lg
}

// ColorProfile is the profile the theme renders with.
func (t Theme) ColorProfile() termenv.Profile {
	return t.renderer().ColorProfile()
}

// StageStyle renders text in the stage's color.
func (t Theme) StageStyle(c pet.Color) lipgloss.Style {
	style := t.renderer().NewStyle()
	switch c {
	case pet.ColorYellow:
		return style.Foreground(lipgloss.Color("11"))
	case pet.ColorMagenta:
		return style.Foreground(lipgloss.Color("13"))
	case pet.ColorRed:
		return style.Foreground(lipgloss.Color("9"))
	default:
		return style.Foreground(lipgloss.Color("15"))
	}
}

func (t Theme) BadgeEvolved() string {
	return t.Title.Render("EVOLVED")
}

func (t Theme) Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return t.Title.Render(icon + title)
}

func (t Theme) LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", t.Key.Render(label+":"), value)
}

// Plural returns "1 commit" / "3 commits".
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
