package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/contracts-tracker/internal/contracts"
	"github.com/joseph-ayodele/contracts-tracker/internal/pipeline"
)

type extractOutput struct {
	File     string `json:"file"`
	Pages    int    `json:"pages"`
	Complete bool   `json:"complete"`
	pipeline.ExtendedExtractionResult
}

func newExtractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file.pdf>",
		Short: "Run one PDF through text extraction and the model, print JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proc, err := a.processor()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			res, text, err := proc.ProcessDocument(cmd.Context(), data, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(extractOutput{
				File:                     args[0],
				Pages:                    text.Pages,
				Complete:                 contracts.IsComplete(res.ExtractionResult),
				ExtendedExtractionResult: res,
			})
		},
	}
}
