package model

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ResultStatus tags which variant of AnalysisResult is populated.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusError   ResultStatus = "error"
)

// Action identifies which endpoint produced a result.
type Action string

const (
	ActionAnalyze Action = "analyze"
	ActionCompare Action = "compare"
)

// ResumeFile is a user-selected resume held in memory. Never persisted.
type ResumeFile struct {
	Name string
	Data []byte
}

// HasPDFExtension reports whether the file name ends in ".pdf".
func (f ResumeFile) HasPDFExtension() bool {
	return strings.HasSuffix(f.Name, ".pdf")
}

// JobInput is the optional job description: pasted text, a posting URL, or both.
type JobInput struct {
	Text string
	URL  string
}

// Trimmed returns a copy with surrounding whitespace removed from both fields.
func (j JobInput) Trimmed() JobInput {
	return JobInput{
		Text: strings.TrimSpace(j.Text),
		URL:  strings.TrimSpace(j.URL),
	}
}

// Empty is true when neither text nor URL has content after trimming.
func (j JobInput) Empty() bool {
	t := j.Trimmed()
	return t.Text == "" && t.URL == ""
}

// AnalysisResult is the decoded body returned by either endpoint.
// Status selects the variant: Summary and Data for success, Message for error.
type AnalysisResult struct {
	Status  ResultStatus `json:"status"`
	Summary string       `json:"summary,omitempty"`
	Message string       `json:"message,omitempty"`
	Data    AnalysisData `json:"data"`
}

// Succeeded reports whether r is the success variant.
func (r AnalysisResult) Succeeded() bool {
	return r.Status == StatusSuccess
}

// AnalysisData holds the known fields of the result payload. Every field is
// optional; Raw keeps the payload verbatim for a JSON dump.
type AnalysisData struct {
	// compare-resume-job
	SimilarityPercentage   *float64 `json:"similarity_percentage,omitempty"`
	KeywordMatchPercentage *float64 `json:"keyword_match_percentage,omitempty"`
	MatchedKeywords        []string `json:"matched_keywords,omitempty"`
	MissingKeywords        []string `json:"missing_keywords,omitempty"`

	// analyze-resume
	WordCount     *int        `json:"word_count,omitempty"`
	TopWords      []WordCount `json:"top_words,omitempty"`
	FoundKeywords []string    `json:"found_keywords,omitempty"`
	ResumeScore   *float64    `json:"resume_score,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields and keeps the raw payload.
func (d *AnalysisData) UnmarshalJSON(b []byte) error {
	type plain AnalysisData
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = AnalysisData(p)
	d.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// WordCount is one entry of the analyze endpoint's top_words list, which the
// server encodes as a two-element array: ["python", 12].
type WordCount struct {
	Word  string
	Count int
}

func (w *WordCount) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("top_words entry: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("top_words entry: want 2 elements, got %d", len(pair))
	}
	if err := json.Unmarshal(pair[0], &w.Word); err != nil {
		return fmt.Errorf("top_words word: %w", err)
	}
	if err := json.Unmarshal(pair[1], &w.Count); err != nil {
		return fmt.Errorf("top_words count: %w", err)
	}
	return nil
}

func (w WordCount) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{w.Word, w.Count})
}

// AnalysisAPI submits resumes to the analysis backend.
type AnalysisAPI interface {
	Analyze(ctx context.Context, resume ResumeFile) (AnalysisResult, error)
	Compare(ctx context.Context, resume ResumeFile, job JobInput) (AnalysisResult, error)
}

// HistoryEntry is the locally recorded metadata of one settled result.
type HistoryEntry struct {
	ID         string
	Action     Action
	ResumeName string
	Status     ResultStatus
	Summary    string // summary on success, message on error
	Similarity *float64
	CreatedAt  time.Time
}

// HistoryStore records settled results.
type HistoryStore interface {
	Record(entry HistoryEntry) error
	Recent(limit int) ([]HistoryEntry, error)
}
