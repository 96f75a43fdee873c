// Package jobdesc reads job descriptions saved to disk.
package jobdesc

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	stdhtml "html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyenthenguyen/docx"
	"golang.org/x/net/html"

	"github.com/amishk599/resumelens/internal/resume"
)

// wordNS holds the WordprocessingML namespaces (transitional and strict).
var wordNS = map[string]bool{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main": true,
	"http://purl.oclc.org/ooxml/wordprocessingml/main":             true,
}

// Load reads a job description file. Saved posting pages (.html, .htm),
// Word documents (.docx) and PDFs are reduced to their text; anything else is
// returned as is.
func Load(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ExtractText(string(b)), nil
	case ".docx":
		return docxText(b)
	case ".pdf":
		text, err := resume.PDFText(b)
		if err != nil {
			return "", fmt.Errorf("read job description %s: %w", filepath.Base(path), err)
		}
		return text, nil
	default:
		return string(b), nil
	}
}

// docxText returns the text of a .docx body. Runs inside a paragraph are
// joined as written; paragraphs are separated by a space.
func docxText(b []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return "", fmt.Errorf("parse docx: %w", err)
	}
	defer doc.Close()

	dec := xml.NewDecoder(strings.NewReader(doc.Editable().GetContent()))
	var (
		paras  []string
		cur    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !wordNS[t.Name.Space] {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab", "br", "cr":
				cur.WriteByte(' ')
			}
		case xml.EndElement:
			if !wordNS[t.Name.Space] {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paras = append(paras, cur.String())
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	paras = append(paras, cur.String())

	return strings.Join(strings.Fields(strings.Join(paras, " ")), " "), nil
}

// ExtractText converts an HTML or HTML-encoded string to plain text.
// It first unescapes HTML entities (handles double-encoded pages;
// no-op on already-real HTML), drops script and style bodies, then
// collapses whitespace.
func ExtractText(content string) string {
	z := html.NewTokenizer(strings.NewReader(stdhtml.UnescapeString(content)))
	var (
		b    strings.Builder
		skip int
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(strings.Fields(b.String()), " ")
		case html.StartTagToken:
			if isRawText(z) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if isRawText(z) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isRawText(z *html.Tokenizer) bool {
	name, _ := z.TagName()
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
