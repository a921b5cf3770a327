package doctext

import (
	"context"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/clearcost/billaudit/internal/common"
)

// pdfPageWorkers bounds concurrent page-text extraction.
const pdfPageWorkers = 4

// extractPDFPages returns the plain text of every page in reading order.
// The document is validated up front so a corrupt file fails before any
// text pass. Pages are extracted concurrently, but results are placed by
// page index, so the output order never depends on completion order.
func extractPDFPages(ctx context.Context, path string) ([]string, error) {
	if err := api.ValidateFile(path, nil); err != nil {
		return nil, common.NewExtractionError(path, err)
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, common.NewExtractionError(path, err)
	}
	defer func() { _ = f.Close() }()

	numPages := reader.NumPage()
	pages := make([]string, numPages)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(pdfPageWorkers)

	for i := 1; i <= numPages; i++ {
		pageNum := i
		g.Go(func() error {
			page := reader.Page(pageNum)
			if page.V.IsNull() {
				return nil
			}
			text, textErr := page.GetPlainText(nil)
			if textErr != nil {
				return common.NewExtractionError(path, textErr)
			}
			pages[pageNum-1] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
