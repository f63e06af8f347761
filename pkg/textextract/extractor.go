package textextract

import (
	"bytes"
	"fmt"
	"strings"

	"code.sajari.com/docconv/v2"
	"github.com/ledongthuc/pdf"
)

// Extractor turns uploaded file bytes into plain text, dispatching on the
// file extension.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// SupportedExtensions lists the upload formats the extractor can handle.
// This is the broad upload allow-list; whether a format is also embedded
// is decided separately.
func (e *Extractor) SupportedExtensions() []string {
	return []string{"pdf", "docx", "txt", "md", "html", "csv"}
}

func (e *Extractor) Supports(fileExtension string) bool {
	ext := normalizeExtension(fileExtension)
	for _, s := range e.SupportedExtensions() {
		if ext == s {
			return true
		}
	}
	return false
}

func (e *Extractor) Extract(data []byte, fileExtension string) (string, error) {
	switch normalizeExtension(fileExtension) {
	case "pdf":
		return e.extractPdf(data)
	case "docx":
		return e.convert(data, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	case "html":
		return e.convert(data, "text/html")
	case "txt", "md", "csv":
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file extension: %s", fileExtension)
	}
}

func (e *Extractor) extractPdf(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to create pdf reader: %w", err)
	}

	var builder strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", pageIndex, err)
		}
		builder.WriteString(text)
	}

	if builder.Len() == 0 {
		return "", fmt.Errorf("no text content extracted from pdf")
	}
	return builder.String(), nil
}

func (e *Extractor) convert(data []byte, mimeType string) (string, error) {
	result, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		return "", fmt.Errorf("failed to convert document: %w", err)
	}
	if len(result.Body) == 0 {
		return "", fmt.Errorf("no text content extracted from document")
	}
	return result.Body, nil
}

func normalizeExtension(fileExtension string) string {
	return strings.ToLower(strings.TrimPrefix(fileExtension, "."))
}
