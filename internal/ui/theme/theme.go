package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/hikaru/benkyo/internal/rank"
)

// Color palette — calm study-room tones
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Highlight = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	Positive = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	Negative = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	TableHeader = lipgloss.NewStyle().
			Foreground(TextDim).
			Bold(true)
)

// RankStyle renders a rank label in its tier color.
func RankStyle(r rank.Rank) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(rank.Color(r))).
		Bold(true)
}

// rarityColors maps title rarity tiers to display colors.
var rarityColors = map[string]color.Color{
	"common":    lipgloss.Color("#9CA3AF"), // gray
	"rare":      lipgloss.Color("#3B82F6"), // blue
	"epic":      lipgloss.Color("#8B5CF6"), // purple
	"legendary": lipgloss.Color("#F59E0B"), // gold
}

// RarityStyle renders a title name in its rarity color. Unknown
// rarities fall back to plain body text.
func RarityStyle(rarity string) lipgloss.Style {
	if c, ok := rarityColors[rarity]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return Body
}
