package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/amishk599/resumelens/internal/model"
)

// FileName is the name the report is saved under.
const FileName = "resume_analysis_report.pdf"

// MaxKeywords caps how many matched keywords the report lists.
const MaxKeywords = 15

const (
	title      = "AI Resume Analyzer – Report"
	lineHeight = 6.0
	margin     = 10.0
)

// ErrNotSuccess is returned when asked to render anything but a success result.
var ErrNotSuccess = errors.New("report requires a successful analysis")

type lineKind int

const (
	kindTitle lineKind = iota
	kindText
	kindHeading
	kindBullet
)

type line struct {
	kind lineKind
	text string
}

func layout(res model.AnalysisResult) []line {
	lines := []line{
		{kindTitle, title},
		{kindText, "Summary: " + res.Summary},
	}

	d := res.Data
	if d.SimilarityPercentage != nil {
		lines = append(lines, line{kindText, "Similarity: " + FormatPercent(*d.SimilarityPercentage)})
	}
	if d.KeywordMatchPercentage != nil {
		lines = append(lines, line{kindText, "Keyword match: " + FormatPercent(*d.KeywordMatchPercentage)})
	}

	lines = append(lines, line{kindHeading, "Matched keywords:"})
	for _, kw := range truncateKeywords(d.MatchedKeywords) {
		lines = append(lines, line{kindBullet, "• " + kw})
	}
	return lines
}

// Lines returns the report body, one entry per printed line, title first.
func Lines(res model.AnalysisResult) []string {
	var out []string
	for _, l := range layout(res) {
		out = append(out, l.text)
	}
	return out
}

// FormatPercent prints a percentage the way the web UI did: 82 -> "82%",
// 82.5 -> "82.5%".
func FormatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

func truncateKeywords(kws []string) []string {
	if len(kws) > MaxKeywords {
		return kws[:MaxKeywords]
	}
	return kws
}

// Write renders res as a paginated A4 PDF to w.
func Write(w io.Writer, res model.AnalysisResult) error {
	doc, err := build(res)
	if err != nil {
		return err
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Save renders res to the file at path, replacing any existing file.
func Save(path string, res model.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := Write(f, res); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close report file: %w", err)
	}
	return nil
}

func build(res model.AnalysisResult) (*fpdf.Fpdf, error) {
	if !res.Succeeded() {
		return nil, ErrNotSuccess
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(margin, margin+5, margin)
	doc.SetAutoPageBreak(true, margin+5)
	doc.SetTitle(title, true)
	doc.SetCreator("resumelens", false)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.AddPage()
	for _, l := range layout(res) {
		switch l.kind {
		case kindTitle:
			doc.SetFont("Helvetica", "B", 14)
			doc.CellFormat(0, 8, tr(l.text), "", 1, "L", false, 0, "")
			doc.Ln(lineHeight)
			doc.SetFont("Helvetica", "", 11)
		case kindHeading:
			doc.Ln(lineHeight / 2)
			doc.CellFormat(0, lineHeight, tr(l.text), "", 1, "L", false, 0, "")
		case kindBullet:
			doc.SetX(margin + 5)
			doc.CellFormat(0, lineHeight, tr(l.text), "", 1, "L", false, 0, "")
		default:
			// Summaries can be long; wrap them instead of clipping.
			doc.MultiCell(0, lineHeight, tr(l.text), "", "L", false)
		}
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return doc, nil
}
