package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clearcost/billaudit/internal/cli"
)

func redactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redactions <audit-id>",
		Short: "Show the redaction audit trail for an audit record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.GetRedactionEntriesByAudit(ctx, args[0])
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Println(cli.SubtleStyle.Render("no redaction entries for this audit"))
				return nil
			}

			for _, entry := range entries {
				fmt.Printf("%s  %d redaction(s) on %s, retained until %s per %s\n",
					entry.ID,
					entry.RedactionCount,
					entry.CreatedAt.Format("2006-01-02"),
					entry.ExpiresAt.Format("2006-01-02"),
					entry.RetentionBasis)
			}
			return nil
		},
	}
}
