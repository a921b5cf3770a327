package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearcost/billaudit/internal/cli"
	"github.com/clearcost/billaudit/internal/model"
)

func filingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filings",
		Short: "Analyze and browse insurance rate filings",
	}

	cmd.AddCommand(filingsAnalyzeCmd())
	cmd.AddCommand(filingsListCmd())

	return cmd
}

func filingsAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a carrier rate-filing document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			record, err := auditor.AnalyzeFiling(ctx, args[0])
			if record == nil && err != nil {
				return err
			}

			printFiling(record)
			if err != nil {
				fmt.Println(cli.FormatWarning(fmt.Sprintf(
					"analysis completed but was NOT saved: %v", err)))
			}
			return nil
		},
	}
}

func filingsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analyzed rate filings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			carrier, _ := cmd.Flags().GetString("carrier")

			var records []model.FilingRecord
			if carrier != "" {
				records, err = store.FindFilingsByCarrier(ctx, carrier)
			} else {
				records, err = store.ListFilings(ctx)
			}
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no filings found"))
				return nil
			}

			for _, record := range records {
				fmt.Printf("%s  %-28s %-10s %s\n",
					record.ID, record.Carrier, record.Status,
					record.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().String("carrier", "", "Filter by carrier name")

	return cmd
}

func printFiling(record *model.FilingRecord) {
	fmt.Println(cli.FormatTitle(record.Filename))
	fmt.Printf("  Record:          %s\n", record.ID)
	fmt.Printf("  Carrier:         %s\n", record.Carrier)
	fmt.Printf("  Plan year:       %s\n", record.PlanYear)
	fmt.Printf("  Rate change:     %s\n", record.RateHike)
	fmt.Printf("  Actuarial value: %s\n", record.ActuarialValue)
	fmt.Printf("  MLR:             %s\n", record.MedicalLossRate)
	fmt.Printf("  Status:          %s\n", record.Status)

	for region, price := range record.RegionPrices {
		fmt.Printf("  %s: $%.2f\n", region, price)
	}
	for _, flag := range record.Flags {
		fmt.Printf("  %s %s: %s\n", cli.FormatSeverity(flag.Severity), flag.RuleID, flag.Description)
	}
}
