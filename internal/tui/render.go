package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/resumelens/internal/model"
	"github.com/amishk599/resumelens/internal/report"
)

// barWidth is the cell width of the percentage bars.
const barWidth = 50

func newBar() progress.Model {
	return progress.New(
		progress.WithSolidFill("39"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
}

// RenderResult formats a settled result for the terminal. width bounds the
// summary and badge wrapping; showRaw appends the data payload as indented JSON.
func RenderResult(res model.AnalysisResult, width int, showRaw bool) string {
	if width <= 0 {
		width = 80
	}
	wrapWidth := max(width-4, 20)

	var b strings.Builder
	if !res.Succeeded() {
		b.WriteString(errorTitleStyle.Render("Error") + "\n")
		b.WriteString(valueStyle.Render(wordWrap(res.Message, wrapWidth)) + "\n")
		return b.String()
	}

	b.WriteString(summaryStyle.Render(wordWrap(res.Summary, wrapWidth)) + "\n")

	d := res.Data
	bar := newBar()
	addBar := func(label string, v *float64) {
		if v == nil {
			return
		}
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(label))
		b.WriteString(bar.ViewAs(fraction(*v)))
		b.WriteString(" " + report.FormatPercent(*v) + "\n")
	}
	addBar("Similarity", d.SimilarityPercentage)
	addBar("Keyword match", d.KeywordMatchPercentage)

	addBadges := func(label string, kws []string, style lipgloss.Style) {
		if len(kws) == 0 {
			return
		}
		b.WriteString("\n" + divider(label, wrapWidth) + "\n")
		b.WriteString(badges(kws, style, wrapWidth) + "\n")
	}
	addBadges("── Matched keywords ", d.MatchedKeywords, matchedBadgeStyle)
	addBadges("── Missing keywords ", d.MissingKeywords, missingBadgeStyle)
	addBadges("── Found keywords ", d.FoundKeywords, matchedBadgeStyle)

	if d.WordCount != nil || d.ResumeScore != nil || len(d.TopWords) > 0 {
		b.WriteString("\n" + divider("── Resume metrics ", wrapWidth) + "\n")
		if d.WordCount != nil {
			b.WriteString(labelStyle.Render("Word count") + valueStyle.Render(fmt.Sprint(*d.WordCount)) + "\n")
		}
		if d.ResumeScore != nil {
			b.WriteString(labelStyle.Render("Resume score") + valueStyle.Render(report.FormatPercent(*d.ResumeScore)) + "\n")
		}
		if len(d.TopWords) > 0 {
			words := make([]string, 0, len(d.TopWords))
			for _, w := range d.TopWords {
				words = append(words, fmt.Sprintf("%s (%d)", w.Word, w.Count))
			}
			b.WriteString(labelStyle.Render("Top words") + valueStyle.Render(strings.Join(words, ", ")) + "\n")
		}
	}

	if showRaw && len(d.Raw) > 0 {
		b.WriteString("\n" + divider("── data ", wrapWidth) + "\n")
		b.WriteString(rawStyle.Render(prettyJSON(d.Raw)) + "\n")
	}

	return b.String()
}

// fraction converts a 0-100 percentage into the 0-1 range the bar expects.
func fraction(pct float64) float64 {
	f := pct / 100
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func divider(label string, width int) string {
	fill := strings.Repeat("─", max(width-lipgloss.Width(label), 3))
	return dividerStyle.Render(label + fill)
}

// badges renders keywords as inline badges, wrapping at width.
func badges(kws []string, style lipgloss.Style, width int) string {
	var lines []string
	var line string
	for _, kw := range kws {
		badge := style.Render(kw)
		switch {
		case line == "":
			line = badge
		case lipgloss.Width(line)+1+lipgloss.Width(badge) <= width:
			line += " " + badge
		default:
			lines = append(lines, line)
			line = badge
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func prettyJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
