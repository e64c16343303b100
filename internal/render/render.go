// Package render formats search results for terminals with lipgloss.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"motiffinder/internal/finder"
	"motiffinder/internal/motif"
)

// Colors shared by the CLI report and the TUI.
var (
	PrimaryColor = lipgloss.Color("#7C3AED") // Purple
	SuccessColor = lipgloss.Color("#10B981") // Green
	AccentColor  = lipgloss.Color("#F59E0B") // Amber
	TextColor    = lipgloss.Color("#F3F4F6") // Light gray
	MutedColor   = lipgloss.Color("#9CA3AF") // Muted gray
	BorderColor  = lipgloss.Color("#374151") // Border gray
	WarnColor    = lipgloss.Color("#EF4444") // Red
)

var (
	headingStyle   = lipgloss.NewStyle().Foreground(AccentColor).Bold(true)
	consensusStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder()).BorderForeground(BorderColor)
	mutedStyle     = lipgloss.NewStyle().Foreground(MutedColor)
	infoStyle      = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)
	warnStyle      = lipgloss.NewStyle().Foreground(WarnColor).Bold(true)
	symbolStyle    = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Padding(0, 1)
	cellStyle      = lipgloss.NewStyle().Padding(0, 1)
)

// View selects the report sections.
type View struct {
	Alignment bool
	Consensus bool
	PWM       bool
	Logo      bool
}

// AllViews enables every section.
func AllViews() View {
	return View{Alignment: true, Consensus: true, PWM: true, Logo: true}
}

// Report renders the enabled sections of res.
func Report(res *finder.Result, v View) string {
	var parts []string
	parts = append(parts, headingStyle.Render(fmt.Sprintf("Motif search completed (%s, k=%d)", res.Algorithm, res.MotifLength)),
		mutedStyle.Render(fmt.Sprintf("score %d (seed %d)", res.Score, res.SeedScore)))
	if v.Alignment {
		parts = append(parts, "", headingStyle.Render("Motif Alignment"), Alignment(res.Motifs))
	}
	if v.Consensus {
		parts = append(parts, "", headingStyle.Render("Consensus Motif"), consensusStyle.Render(res.Consensus))
	}
	if v.PWM {
		parts = append(parts, "", headingStyle.Render("Position Weight Matrix"), ProfileTable(res.Profile))
	}
	if v.Logo {
		parts = append(parts, "", headingStyle.Render("Sequence Logo"), infoStyle.Render(res.Logo))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Alignment lists one motif per input sequence as "Seq i: MOTIF".
func Alignment(motifs []string) string {
	lines := make([]string, len(motifs))
	for i, m := range motifs {
		lines[i] = AlignmentLine(i, m)
	}
	return strings.Join(lines, "\n")
}

// AlignmentLine formats the motif chosen from the i-th (0-based) sequence.
func AlignmentLine(i int, m string) string {
	return fmt.Sprintf("Seq %d: %s", i+1, m)
}

// ProfileTable renders p with one row per nucleotide and one column per
// motif position.
func ProfileTable(p motif.ProfileMatrix) string {
	headers := make([]string, p.Width()+1)
	for i := 1; i < len(headers); i++ {
		headers[i] = strconv.Itoa(i)
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(BorderColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return symbolStyle
			}
			return cellStyle
		}).
		Headers(headers...)
	for _, n := range motif.Alphabet {
		row := make([]string, p.Width()+1)
		row[0] = n.String()
		for i := 0; i < p.Width(); i++ {
			row[i+1] = strconv.FormatFloat(p.Prob(n, i), 'f', 2, 64)
		}
		t.Row(row...)
	}
	return t.Render()
}

// Warning renders a validation message.
func Warning(msg string) string {
	return warnStyle.Render("Warning: " + msg)
}
