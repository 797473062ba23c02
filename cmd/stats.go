package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathadventures/internal/report"
	"github.com/abhisek/mathadventures/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "List past sessions with accuracy and difficulty changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		opts := store.QueryOpts{Limit: limit}
		if cmd.Flags().Changed("subject") {
			opts.Subject, _ = cmd.Flags().GetString("subject")
		}
		records, err := st.EventRepo().ListSessions(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), report.Sessions(records))
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 20, "Number of sessions to show (0 for all)")
}
