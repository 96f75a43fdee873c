package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/resumelens/internal/model"
)

func floatPtr(v float64) *float64 { return &v }

func goodMatch() model.AnalysisResult {
	return model.AnalysisResult{
		Status:  model.StatusSuccess,
		Summary: "Good match",
		Data: model.AnalysisData{
			SimilarityPercentage:   floatPtr(82),
			KeywordMatchPercentage: floatPtr(70),
			MatchedKeywords:        []string{"python", "sql"},
		},
	}
}

// uncompressed renders res with stream compression off so text operators can
// be found in the raw bytes.
func uncompressed(t *testing.T, res model.AnalysisResult) []byte {
	t.Helper()
	doc, err := build(res)
	require.NoError(t, err)
	doc.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestLines_GoodMatch(t *testing.T) {
	lines := Lines(goodMatch())
	assert.Equal(t, []string{
		"AI Resume Analyzer – Report",
		"Summary: Good match",
		"Similarity: 82%",
		"Keyword match: 70%",
		"Matched keywords:",
		"• python",
		"• sql",
	}, lines)
}

func TestLines_OmitsAbsentPercentages(t *testing.T) {
	res := model.AnalysisResult{Status: model.StatusSuccess, Summary: "Length 320 words"}
	lines := Lines(res)
	for _, l := range lines {
		assert.NotContains(t, l, "Similarity")
		assert.NotContains(t, l, "Keyword match")
	}
	assert.Equal(t, "Matched keywords:", lines[len(lines)-1])
}

func TestLines_TruncatesKeywordsAt15(t *testing.T) {
	res := goodMatch()
	res.Data.MatchedKeywords = nil
	for i := 0; i < 40; i++ {
		res.Data.MatchedKeywords = append(res.Data.MatchedKeywords, fmt.Sprintf("kw%02d", i))
	}

	var bullets []string
	for _, l := range Lines(res) {
		if strings.HasPrefix(l, "• ") {
			bullets = append(bullets, l)
		}
	}
	require.Len(t, bullets, MaxKeywords)
	assert.Equal(t, "• kw00", bullets[0])
	assert.Equal(t, "• kw14", bullets[14])
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "82%", FormatPercent(82))
	assert.Equal(t, "82.5%", FormatPercent(82.5))
	assert.Equal(t, "0%", FormatPercent(0))
}

func TestWrite_ContainsResultText(t *testing.T) {
	raw := uncompressed(t, goodMatch())

	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF-")))
	for _, want := range []string{"(Summary: Good match)", "(Similarity: 82%)", "(Keyword match: 70%)", " python)", " sql)"} {
		assert.Contains(t, string(raw), want)
	}
}

func TestWrite_RejectsErrorResult(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, model.AnalysisResult{Status: model.StatusError, Message: "Invalid PDF"})
	assert.ErrorIs(t, err, ErrNotSuccess)
	assert.Zero(t, buf.Len())
}

func TestWrite_PaginatesLongSummary(t *testing.T) {
	res := goodMatch()
	res.Summary = strings.Repeat("Experienced engineer with strong distributed systems background. ", 300)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, res))

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Greater(t, r.NumPage(), 1)
}

func TestWrite_SinglePageForShortReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, goodMatch()))

	r, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumPage())
}

func TestSave_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, goodMatch()))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF-")))
}

func TestSave_ErrorResultLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, model.AnalysisResult{Status: model.StatusError, Message: "x"})
	require.ErrorIs(t, err, ErrNotSuccess)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}
