package jobdesc

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/amishk599/resumelens/internal/model"
	"github.com/amishk599/resumelens/internal/report"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "double-encoded HTML",
			input: "This is the job description. &lt;p&gt;Any HTML included.&lt;/p&gt;",
			want:  "This is the job description. Any HTML included.",
		},
		{
			name:  "nested tags and whitespace",
			input: "<p>We are hiring.</p>\n<ul>\n  <li>Write code</li>\n  <li>Review PRs</li>\n</ul>",
			want:  "We are hiring. Write code Review PRs",
		},
		{
			name:  "adjacent block tags keep words apart",
			input: "<li>Go</li><li>SQL</li>",
			want:  "Go SQL",
		},
		{
			name:  "script and style bodies are dropped",
			input: "<html><head><style>body{color:red}</style><script>var x = 1 < 2;</script></head><body><p>Go engineer</p></body></html>",
			want:  "Go engineer",
		},
		{
			name:  "text after a script keeps its markup boundaries",
			input: "<p>Remote</p><script>if (a<b) { track() }</script><p>Full time</p>",
			want:  "Remote Full time",
		},
		{
			name:  "plain text with no HTML",
			input: "No tags here.",
			want:  "No tags here.",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractText(tc.input)
			if got != tc.want {
				t.Errorf("ExtractText(%q)\n got  %q\n want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	plain := filepath.Join(dir, "job.txt")
	text := "Senior Go Engineer\n\nYou will build <things>.\n"
	if err := os.WriteFile(plain, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := Load(plain)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != text {
		t.Errorf("plain text must be returned untouched, got %q", got)
	}

	page := filepath.Join(dir, "posting.HTML")
	if err := os.WriteFile(page, []byte("<html><body><h1>Senior Go Engineer</h1><p>Remote &amp; EU</p></body></html>"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err = Load(page)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := "Senior Go Engineer Remote & EU"; got != want {
		t.Errorf("Load(html) = %q, want %q", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

// minimalDocx builds the smallest zip layout the docx reader accepts.
func minimalDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString("<w:p><w:r><w:t>" + p + "</w:t></w:r></w:p>")
	}
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body.String() + `</w:body></w:document>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoad_Docx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.docx")
	if err := os.WriteFile(path, minimalDocx(t, "Senior Go Engineer", "Kubernetes and Postgres"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := "Senior Go Engineer Kubernetes and Postgres"; got != want {
		t.Errorf("Load(docx) = %q, want %q", got, want)
	}
}

func TestLoad_DocxCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for corrupt docx")
	}
}

func TestLoad_PDF(t *testing.T) {
	var buf bytes.Buffer
	res := model.AnalysisResult{Status: model.StatusSuccess, Summary: "Platform engineer"}
	if err := report.Write(&buf, res); err != nil {
		t.Fatalf("render pdf: %v", err)
	}
	path := filepath.Join(t.TempDir(), "job.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !strings.Contains(got, "Platform engineer") {
		t.Errorf("expected extracted text, got %q", got)
	}
}

func TestLoad_DocxJoinsSplitRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.docx")
	doc := minimalDocx(t, "Senior Go Engi</w:t></w:r><w:r><w:t>neer", "Remote")
	if err := os.WriteFile(path, doc, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want := "Senior Go Engineer Remote"; got != want {
		t.Errorf("Load(docx) = %q, want %q", got, want)
	}
}
