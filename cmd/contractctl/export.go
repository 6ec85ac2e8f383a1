package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/export"
	"github.com/joseph-ayodele/contracts-tracker/internal/repository"
)

func newExportCmd(a *app) *cobra.Command {
	var user, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's contracts to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return errUserRequired
			}
			db, err := a.openDB(cmd.Context())
			if err != nil {
				return err
			}
			svc := export.NewService(repository.NewContractRepository(db, a.logger), a.logger)
			data, err := svc.ExportContractsXLSX(cmd.Context(), userID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", contracts.DefaultUserID, "owner of the contracts")
	cmd.Flags().StringVarP(&out, "out", "o", "contracts.xlsx", "output file")
	return cmd
}
