// ABOUTME: Text extraction from uploaded document bytes
// ABOUTME: PDF via MuPDF bindings, plain text and markdown passed through verbatim

package ingest

import (
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/postforge/postforge/internal/errs"
)

// ExtractText pulls plain text out of an uploaded file based on its extension.
// PDF pages are concatenated in order; .txt and .md bytes are taken verbatim.
// Anything else is rejected as unsupported before any further processing.
func ExtractText(filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(filename, data)
	case ".txt", ".md":
		text := string(data)
		if strings.TrimSpace(text) == "" {
			return "", errs.New(errs.KindUnsupportedFormat, "no extractable text in %s", filename)
		}
		return text, nil
	default:
		return "", errs.New(errs.KindUnsupportedFormat, "unsupported file type %q, only PDF, TXT, and MD are accepted", filepath.Ext(filename))
	}
}

func extractPDF(filename string, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", errs.Wrap(errs.KindUnsupportedFormat, err, "failed to open PDF %s", filename)
	}
	defer doc.Close()

	var sb strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		text, err := doc.Text(i)
		if err != nil {
			return "", errs.Wrap(errs.KindUnsupportedFormat, err, "failed to read page %d of %s", i+1, filename)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}

	out := sb.String()
	if strings.TrimSpace(out) == "" {
		// Scanned or image-only PDF: nothing we can index
		return "", errs.New(errs.KindUnsupportedFormat, "no extractable text in %s", filename)
	}
	return out, nil
}
