package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/contracts-tracker/internal/entity"
	"github.com/joseph-ayodele/contracts-tracker/internal/reminder"
)

const sheet = "Contracts"

// ContractLister is the repository subset the export reads from.
type ContractLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Contract, error)
}

// Service produces XLSX bytes for a user's contracts.
type Service struct {
	contracts ContractLister
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(contracts ContractLister, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{contracts: contracts, logger: logger, now: time.Now}
}

var headers = []string{
	"Contract Holder",
	"Contract ID",
	"Service/Product",
	"Contact Email",
	"Renewal Date",
	"Days Until Renewal",
	"File Path",
	"Created At",
}

// ExportContractsXLSX returns a single-sheet workbook, newest contract first.
// Rows without a renewal date leave the renewal columns blank.
func (s *Service) ExportContractsXLSX(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	start := time.Now()

	list, err := s.contracts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query contracts: %w", err)
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(sheet, 1, 1, style)
	}

	now := s.now().UTC()
	for i, c := range list {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, deref(c.ContractHolderName))
		write(2, deref(c.ContractIdentifier))
		write(3, deref(c.ServiceProduct))
		write(4, deref(c.ContactEmail))
		if c.RenewalDate != nil {
			write(5, c.RenewalDateString())
			write(6, reminder.DaysUntil(now, *c.RenewalDate))
		}
		write(7, deref(c.FilePath))
		write(8, c.CreatedAt.UTC().Format(time.RFC3339))
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // holder
	_ = f.SetColWidth(sheet, "B", "B", 16) // contract id
	_ = f.SetColWidth(sheet, "C", "C", 32) // service
	_ = f.SetColWidth(sheet, "D", "D", 30) // email
	_ = f.SetColWidth(sheet, "E", "F", 16) // renewal
	_ = f.SetColWidth(sheet, "G", "G", 60) // path
	_ = f.SetColWidth(sheet, "H", "H", 22) // created

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"user_id", userID.String(),
		"rows", len(list),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
