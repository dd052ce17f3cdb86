package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"ops-portal/configs"
	"ops-portal/internal/models"
	"ops-portal/internal/repository"
)

// ExportSvc is an implementation of the service.ExportService interface
type ExportSvc struct {
	repos  *repository.Repository
	logger *logrus.Logger
	config *configs.Config
}

// NewExportService creates a new ExportSvc
func NewExportService(deps Dependencies) *ExportSvc {
	return &ExportSvc{
		repos:  deps.Repos,
		logger: deps.Logger,
		config: deps.Config,
	}
}

// Payments exports all payments with their effective status and owed amount
func (s *ExportSvc) Payments(ctx context.Context, format string) ([]byte, string, error) {
	payments, err := s.repos.Payment.GetAll(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get payments: %w", err)
	}

	now := time.Now()
	rows := [][]string{{
		"ID", "Title", "Vendor", "Type", "Amount", "Currency",
		"Status", "Effective Status", "Amount Due", "Due Date", "Notes",
	}}

	for _, p := range payments {
		status := models.DeriveStatus(p, now)

		dueDate := ""
		if p.PaymentType == models.PaymentTypeRecurring && p.NextPaymentDue != nil {
			dueDate = p.NextPaymentDue.Format("2006-01-02")
		} else if p.PaymentDate != nil {
			dueDate = p.PaymentDate.Format("2006-01-02")
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", p.ID),
			p.Title,
			p.Vendor,
			string(p.PaymentType),
			p.Amount.String(),
			p.Currency,
			string(p.Status),
			string(status),
			models.AmountDue(p, now).String(),
			dueDate,
			p.Notes,
		})
	}

	return s.render(rows, "payments", format)
}

// Assets exports the full inventory
func (s *ExportSvc) Assets(ctx context.Context, format string) ([]byte, string, error) {
	assets, err := s.repos.Asset.GetAll(ctx, "")
	if err != nil {
		return nil, "", fmt.Errorf("failed to get assets: %w", err)
	}

	rows := [][]string{{
		"ID", "Name", "Category", "Serial Number", "Status",
		"Assigned To", "Purchase Date", "Purchase Price", "Notes",
	}}

	for _, a := range assets {
		assigned := ""
		if a.AssignedTo != nil {
			assigned = fmt.Sprintf("%d", *a.AssignedTo)
		}
		purchaseDate := ""
		if a.PurchaseDate != nil {
			purchaseDate = a.PurchaseDate.Format("2006-01-02")
		}
		price := ""
		if a.PurchasePrice != nil {
			price = a.PurchasePrice.String()
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", a.ID),
			a.Name,
			a.Category,
			a.SerialNumber,
			string(a.Status),
			assigned,
			purchaseDate,
			price,
			a.Notes,
		})
	}

	return s.render(rows, "assets", format)
}

// render serializes tabular rows into the requested format
func (s *ExportSvc) render(rows [][]string, name, format string) ([]byte, string, error) {
	switch format {
	case "csv", "":
		data, err := renderCSV(rows)
		if err != nil {
			return nil, "", err
		}
		return data, name + ".csv", nil
	case "xlsx":
		data, err := renderXLSX(rows, name)
		if err != nil {
			return nil, "", err
		}
		return data, name + ".xlsx", nil
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func renderCSV(rows [][]string) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)
	if err := w.WriteAll(rows); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}

	return buf.Bytes(), nil
}

func renderXLSX(rows [][]string, sheet string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	return buf.Bytes(), nil
}
