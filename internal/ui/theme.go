package ui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette colors (dark-terminal variants).
const (
	ColorPrimary   = "#DA7756"
	ColorSecondary = "#7C3AED"
	ColorSuccess   = "#10B981"
	ColorWarning   = "#F59E0B"
	ColorError     = "#EF4444"
	ColorText      = "#E5E7EB"
	ColorMuted     = "#9CA3AF"
	ColorBorder    = "#4B5563"
)

// Palette holds the hex colors a Theme renders with.
type Palette struct {
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Muted     string
	Border    string
}

// ThemeConfig configures NewTheme.
type ThemeConfig struct {
	NoColor bool
}

// Theme renders styled terminal text. With NoColor set every helper
// returns its input unchanged apart from layout.
type Theme struct {
	NoColor bool
	Colors  Palette
}

// NewTheme creates a Theme using the webproj palette.
func NewTheme(cfg ThemeConfig) *Theme {
	return &Theme{
		NoColor: cfg.NoColor,
		Colors: Palette{
			Primary:   ColorPrimary,
			Secondary: ColorSecondary,
			Success:   ColorSuccess,
			Warning:   ColorWarning,
			Error:     ColorError,
			Muted:     ColorMuted,
			Border:    ColorBorder,
		},
	}
}

func (t *Theme) fg(light, dark string) lipgloss.Style {
	if t.NoColor {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: light, Dark: dark})
}

// Title renders s bold in the primary color.
func (t *Theme) Title(s string) string {
	if t.NoColor {
		return s
	}
	return t.fg("#C45A3C", t.Colors.Primary).Bold(true).Render(s)
}

// Success renders s in the success color.
func (t *Theme) Success(s string) string { return t.fg("#059669", t.Colors.Success).Render(s) }

// Warn renders s in the warning color.
func (t *Theme) Warn(s string) string { return t.fg("#D97706", t.Colors.Warning).Render(s) }

// Error renders s in the error color.
func (t *Theme) Error(s string) string { return t.fg("#DC2626", t.Colors.Error).Render(s) }

// Muted renders s in the muted color.
func (t *Theme) Muted(s string) string { return t.fg("#6B7280", t.Colors.Muted).Render(s) }

func (t *Theme) cardStyle() lipgloss.Style {
	st := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	if !t.NoColor {
		st = st.BorderForeground(lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: t.Colors.Border})
	}
	return st
}

// Card renders content inside a rounded border box under a styled title.
func (t *Theme) Card(title, content string) string {
	return t.cardStyle().Render(t.Title(title) + "\n\n" + content)
}

// SuccessCard renders a check-marked title followed by detail lines in a card.
func (t *Theme) SuccessCard(title string, details ...string) string {
	var body strings.Builder
	body.WriteString(t.Success("✓") + " " + title)
	if len(details) > 0 {
		body.WriteString("\n\n")
		body.WriteString(strings.Join(details, "\n"))
	}
	return t.cardStyle().Render(body.String())
}

// HuhTheme maps the palette onto a huh form theme.
func (t *Theme) HuhTheme() *huh.Theme {
	h := huh.ThemeBase()
	if t.NoColor {
		return h
	}

	primary := lipgloss.AdaptiveColor{Light: "#C45A3C", Dark: t.Colors.Primary}
	secondary := lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: t.Colors.Secondary}
	green := lipgloss.AdaptiveColor{Light: "#059669", Dark: t.Colors.Success}
	red := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: t.Colors.Error}
	text := lipgloss.AdaptiveColor{Light: "#111827", Dark: ColorText}
	muted := lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: t.Colors.Muted}
	border := lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: t.Colors.Border}

	h.Focused.Base = h.Focused.Base.BorderForeground(border)
	h.Focused.Card = h.Focused.Base
	h.Focused.Title = h.Focused.Title.Foreground(primary).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(muted)
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(red)
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(red)
	h.Focused.SelectSelector = h.Focused.SelectSelector.Foreground(primary).SetString("▸ ")
	h.Focused.Option = h.Focused.Option.Foreground(text)
	h.Focused.SelectedOption = h.Focused.SelectedOption.Foreground(green)
	h.Focused.TextInput.Cursor = h.Focused.TextInput.Cursor.Foreground(primary)
	h.Focused.TextInput.Placeholder = h.Focused.TextInput.Placeholder.Foreground(muted)
	h.Focused.TextInput.Prompt = h.Focused.TextInput.Prompt.Foreground(secondary)
	h.Focused.FocusedButton = h.Focused.FocusedButton.
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
		Background(primary)
	h.Focused.BlurredButton = h.Focused.BlurredButton.
		Foreground(text).
		Background(lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"})

	h.Blurred = h.Focused
	h.Blurred.Base = h.Focused.Base.BorderStyle(lipgloss.HiddenBorder())
	h.Blurred.Card = h.Blurred.Base

	h.Group.Title = h.Focused.Title
	h.Group.Description = h.Focused.Description
	return h
}
