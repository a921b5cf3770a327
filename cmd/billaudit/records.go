package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearcost/billaudit/internal/audit"
	"github.com/clearcost/billaudit/internal/cli"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Browse and manage stored audit records",
	}

	cmd.AddCommand(recordsListCmd())
	cmd.AddCommand(recordsShowCmd())
	cmd.AddCommand(recordsDeleteCmd())

	return cmd
}

func recordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored audit records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.ListAudits(ctx)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no audit records found"))
				return nil
			}

			for _, record := range records {
				fmt.Printf("%s  %-24s %-8s $%-10.2f %s\n",
					record.ID, record.Filename, record.Status,
					record.PresumptiveTotal, record.CreatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func recordsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <audit-id>",
		Short: "Show one audit record in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			record, err := store.GetAudit(ctx, args[0])
			if err != nil {
				return err
			}

			letterFields, _ := cmd.Flags().GetBool("letter-fields")
			if letterFields {
				for key, value := range audit.LetterFields(record) {
					fmt.Printf("%s=%s\n", key, value)
				}
				return nil
			}

			printAuditSummary(record)
			if record.Facts.PolicyNumber != "" {
				fmt.Printf("  Policy:    %s\n", record.Facts.PolicyNumber)
			}
			if record.Facts.AccountNumber != "" {
				fmt.Printf("  Account:   %s\n", record.Facts.AccountNumber)
			}
			fmt.Printf("  Diagnoses: %v\n", record.Facts.DiagnosisCodes)
			fmt.Printf("  Supplies:  %v\n", record.Facts.SupplyCodes)
			return nil
		},
	}

	cmd.Flags().Bool("letter-fields", false, "Print the dispute-letter template fields instead of the summary")

	return cmd
}

func recordsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <audit-id>",
		Short: "Delete an audit record and its redaction audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteAudit(ctx, args[0]); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess("deleted audit " + args[0]))
			return nil
		},
	}
}
