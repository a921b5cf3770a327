package main

import (
	"errors"
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/clearcost/billaudit/internal/cli"
	"github.com/clearcost/billaudit/internal/common"
	"github.com/clearcost/billaudit/internal/model"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Audit one or more medical bill documents",
		Long: `Analyze medical bill documents (PDF or spreadsheet) for billing
anomalies, overcharges, and compliance risks.

Each document is processed independently: a corrupt file is reported and
skipped, never aborting the rest of the batch. Duplicate uploads are
detected by content fingerprint and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAnalyze,
	}

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	auditor, err := newAuditor(store)
	if err != nil {
		return err
	}

	var bar *progressbar.ProgressBar
	if len(args) > 1 {
		bar = progressbar.Default(int64(len(args)), "auditing")
	}

	failures := 0
	for _, path := range args {
		record, err := auditor.AnalyzeBill(ctx, path)
		if bar != nil {
			_ = bar.Add(1)
		}

		switch {
		case errors.Is(err, common.ErrDuplicateEntry):
			fmt.Println(cli.FormatWarning(fmt.Sprintf(
				"%s: already audited (record %s)", path, record.ID)))
		case isStoreWrite(err):
			printAuditSummary(record)
			fmt.Println(cli.FormatWarning(fmt.Sprintf(
				"%s: audit completed but was NOT saved: %v", path, err)))
		case err != nil:
			failures++
			fmt.Println(cli.FormatError(fmt.Sprintf("%s: %v", path, err)))
			if isExtraction(err) {
				fmt.Println(cli.SubtleStyle.Render(
					"  The document could not be read. You can extract the text yourself and retry with a supported format."))
			}
		default:
			printAuditSummary(record)
		}
	}

	if failures == len(args) {
		return common.NewUserError("no documents could be analyzed", nil)
	}
	return nil
}

func printAuditSummary(record *model.AuditRecord) {
	fmt.Println(cli.FormatTitle(record.Filename))
	fmt.Printf("  Record:    %s\n", record.ID)
	fmt.Printf("  Provider:  %s\n", record.Facts.ProviderName)
	fmt.Printf("  Total:     $%.2f\n", record.PresumptiveTotal)
	fmt.Printf("  Status:    %s\n", record.Status)

	for _, item := range record.Overcharges {
		fmt.Printf("  %s %s billed $%.2f vs $%.2f benchmark (%d%% over)\n",
			cli.WarningIcon, item.Code, item.BilledAmount, item.BenchmarkAmount, item.PercentOver)
	}
	for _, flag := range record.Flags {
		fmt.Printf("  %s %s: %s\n", cli.FormatSeverity(flag.Severity), flag.RuleID, flag.Description)
		if flag.Citation != nil {
			fmt.Println(cli.SubtleStyle.Render("    cites " + flag.Citation.Statute))
		}
	}

	if len(record.Flags) == 0 {
		fmt.Println(cli.FormatSuccess("  no findings"))
	}
}

func isStoreWrite(err error) bool {
	var storeErr *common.StoreWriteError
	return errors.As(err, &storeErr)
}

func isExtraction(err error) bool {
	var extractionErr *common.ExtractionError
	return errors.As(err, &extractionErr)
}
