// Package doctext converts source documents into ordered plain text, one
// segment per logical page, preserving top-to-bottom reading order.
package doctext

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/clearcost/billaudit/internal/common"
	"github.com/clearcost/billaudit/internal/model"
)

// Document is the extraction result for one source file.
type Document struct {
	Path        string
	Kind        model.DocumentKind
	Pages       []string
	SourceBytes []byte
}

// Text joins the page segments with a line separator to form the
// whole-document text.
func (d *Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// Filename returns the base name of the source file.
func (d *Document) Filename() string {
	return filepath.Base(d.Path)
}

// Extractor converts a document into ordered text segments. A corrupt
// document propagates as an ExtractionError, never as silently empty text.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Document, error)
}

// KindForPath sniffs the document kind from the file extension,
// case-insensitively. Unsupported types are rejected before any extraction
// is attempted.
func KindForPath(path string) (model.DocumentKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return model.KindPDF, nil
	case ".xlsx", ".xlsm":
		return model.KindSpreadsheet, nil
	default:
		return "", fmt.Errorf("%w: %s", common.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// FileExtractor dispatches to the PDF or spreadsheet extractor by sniffed
// kind.
type FileExtractor struct{}

// NewFileExtractor returns the standard dispatching extractor.
func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Extract reads the file and converts it into per-page text.
func (e *FileExtractor) Extract(ctx context.Context, path string) (*Document, error) {
	kind, err := KindForPath(path)
	if err != nil {
		return nil, err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewExtractionError(path, err)
	}

	var pages []string
	switch kind {
	case model.KindPDF:
		pages, err = extractPDFPages(ctx, path)
	case model.KindSpreadsheet:
		pages, err = extractSpreadsheetPages(path)
	}
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Path:        path,
		Kind:        kind,
		Pages:       pages,
		SourceBytes: source,
	}
	if strings.TrimSpace(doc.Text()) == "" {
		return nil, common.NewExtractionError(path, common.ErrEmptyDocument)
	}
	return doc, nil
}
