package services

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// DocumentExtractor pulls plain text out of an uploaded resume.
type DocumentExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

// ExtractText implements DocumentExtractor. Text is best effort; pages that
// fail to decode are skipped.
func (d *documentExtractor) ExtractText(filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty document")
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf", "":
		return extractPDFText(data)
	case ".docx":
		return extractDocxText(data)
	case ".txt":
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file extension: %s", ext)
	}
}

func extractPDFText(data []byte) (text string, err error) {
	// The pdf package panics on some malformed documents.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}

	return CleanText(textBuilder.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	// GetContent returns the document XML.
	return CleanText(markupToText(doc.Editable().GetContent())), nil
}

// CleanText trims every line and drops empty ones.
func CleanText(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}
