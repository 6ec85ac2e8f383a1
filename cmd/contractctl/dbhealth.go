package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newDBHealthCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "dbhealth",
		Short: "Check that the database is reachable and migrated",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			if err := db.HealthCheck(cmd.Context(), timeout); err != nil {
				return fmt.Errorf("DB health: FAIL (%w)", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "DB health: OK (%s)\n", db.Dialect())
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Second, "ping timeout")
	return cmd
}
