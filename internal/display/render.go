package display

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 60

// Renderer draws a View for a terminal. Plain output carries no escape
// sequences.
type Renderer struct {
	Width int
	Plain bool
}

func (r Renderer) style(s lipgloss.Style, text string) string {
	if r.Plain {
		return text
	}
	return s.Render(text)
}

// Render returns the multi-line text of v.
func (r Renderer) Render(v View) string {
	width := r.Width
	if width <= 0 {
		width = DefaultWidth
	}

	lines := []string{
		r.style(Title, fmt.Sprintf("%s  %s", v.LearnerID, v.Status)),
		r.hearts(v) + r.style(Body, fmt.Sprintf("  streak %d  answered %d  level %.1f", v.Streak, v.Answered, v.Difficulty)),
		"",
	}

	if len(v.Skills) == 0 {
		lines = append(lines, r.style(Hint, "no skills practiced yet"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	nameWidth := 0
	for _, s := range v.Skills {
		nameWidth = max(nameWidth, lipgloss.Width(s.SkillID))
	}
	for _, s := range v.Skills {
		lines = append(lines, r.skillRow(s, nameWidth, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r Renderer) hearts(v View) string {
	full := strings.Repeat("♥", v.Hearts)
	empty := strings.Repeat("♡", max(v.MaxHearts-v.Hearts, 0))
	return r.style(Heart, full) + r.style(Hint, empty)
}

// skillRow renders "name  ████░░░░  72%  learning".
func (r Renderer) skillRow(s SkillView, nameWidth, width int) string {
	const suffixWidth = 16 // "  100%  mastered"

	name := s.SkillID + strings.Repeat(" ", nameWidth-lipgloss.Width(s.SkillID))
	barWidth := width - nameWidth - 2 - suffixWidth
	if barWidth < 4 {
		barWidth = 4
	}

	filled := barWidth * s.Percent / 100
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}

	bar := r.style(ProgressFilled, strings.Repeat("█", filled)) +
		r.style(ProgressEmpty, strings.Repeat("░", barWidth-filled))
	label := r.style(lipgloss.NewStyle().Foreground(labelColor(s.Label)), string(s.Label))

	return r.style(Body, name) + "  " + bar + r.style(Hint, fmt.Sprintf("  %3d%%  ", s.Percent)) + label
}
