package doctext

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/clearcost/billaudit/internal/common"
)

// extractSpreadsheetPages treats each sheet as one logical page: rows
// top-to-bottom, cells within a row left-to-right, matching the reading
// order the rest of the pipeline expects.
func extractSpreadsheetPages(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, common.NewExtractionError(path, err)
	}
	defer func() { _ = f.Close() }()

	var pages []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, common.NewExtractionError(path, err)
		}

		lines := make([]string, 0, len(rows))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, " "))
		}
		pages = append(pages, strings.Join(lines, "\n"))
	}

	return pages, nil
}
