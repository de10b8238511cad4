package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sickboy0001/ZeSecThinkV2/services"
)

func newBatchesCommand(ctx *commandContext) *cobra.Command {
	var userID, from, to string

	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List refinement batches created in a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDay("from", from)
			if err != nil {
				return err
			}
			end, err := parseDay("to", to)
			if err != nil {
				return err
			}
			return ctx.withStores(cmd.Context(), func(st *stores) error {
				svc := services.NewAILogService(st.batches, st.logs, st.histories, st.posts)
				batches, err := svc.ListBatches(cmd.Context(), userID, start, end)
				if err != nil {
					return err
				}
				if len(batches) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No batches")
					return nil
				}
				fmt.Fprint(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Status", "Chunks", "Memos", "Created"},
					buildBatchRows(batches),
					[]columnAlignment{alignRight, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User ID")
	cmd.Flags().StringVar(&from, "from", "", "First day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last day (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
