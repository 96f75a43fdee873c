package resume

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/amishk599/resumelens/internal/model"
)

// Load reads the resume at path into memory.
func Load(path string) (model.ResumeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeFile{}, fmt.Errorf("read resume: %w", err)
	}
	return model.ResumeFile{Name: filepath.Base(path), Data: data}, nil
}

// Info describes a loaded resume for display.
type Info struct {
	Size  int
	Pages int // zero when the file is not a readable PDF
}

// Inspect opens the resume as a PDF to count its pages. An error means the
// bytes are not a readable PDF; callers treat that as informational only.
func Inspect(f model.ResumeFile) (Info, error) {
	info := Info{Size: len(f.Data)}
	if len(f.Data) == 0 {
		return info, fmt.Errorf("inspect %s: empty file", f.Name)
	}

	r, err := openPDF(f.Data)
	if err != nil {
		return info, fmt.Errorf("inspect %s: %w", f.Name, err)
	}
	info.Pages = r.NumPage()
	return info, nil
}

// openPDF guards against panics from malformed input inside the PDF reader.
func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			r, err = nil, fmt.Errorf("malformed pdf: %v", p)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// PDFText extracts the plain text of every page of a PDF document.
func PDFText(data []byte) (text string, err error) {
	r, err := openPDF(data)
	if err != nil {
		return "", err
	}
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("malformed pdf: %v", p)
		}
	}()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		t, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(t)
		b.WriteByte('\n')
	}
	return b.String(), nil
}
