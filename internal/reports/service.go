package reports

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"uam-backend/internal/assets"
	"uam-backend/internal/transfers"
)

// exportLimit caps one export request. The list stores paginate; reports pull
// a single large page instead of streaming.
const exportLimit = 10000

type Service struct {
	assets    *assets.Store
	transfers *transfers.Store
}

func NewService(a *assets.Store, t *transfers.Store) *Service {
	return &Service{assets: a, transfers: t}
}

var assetHeader = []string{
	"asset_id", "product_name", "serial_number", "inventory_code", "company_id",
	"purchased_at", "warranty_until", "section_id", "location_id", "status", "notes",
	"created_at", "updated_at",
}

func assetRow(a assets.AssetResponse) []string {
	return []string{
		strconv.FormatInt(a.AssetID, 10),
		a.ProductName,
		strDeref(a.SerialNumber),
		a.InventoryCode,
		idDeref(a.CompanyID),
		dateDeref(a.PurchasedAt),
		dateDeref(a.WarrantyUntil),
		idDeref(a.SectionID),
		idDeref(a.LocationID),
		a.Status,
		strDeref(a.Notes),
		a.CreatedAt.UTC().Format(time.RFC3339),
		a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

var transferHeader = []string{
	"transfer_id", "asset_id", "transfer_date",
	"from_section", "from_location", "to_section", "to_location",
	"authorized_by", "received_by", "received_date", "notes",
}

func transferRow(t transfers.TransferResponse) []string {
	return []string{
		strconv.FormatInt(t.TransferID, 10),
		strconv.FormatInt(t.AssetID, 10),
		t.TransferDate.UTC().Format(time.RFC3339),
		strDeref(t.FromSectionName),
		strDeref(t.FromLocationName),
		strDeref(t.ToSectionName),
		strDeref(t.ToLocationName),
		t.AuthorizedByName,
		t.ReceivedByName,
		t.ReceivedDate.UTC().Format(time.RFC3339),
		t.Notes,
	}
}

func (s *Service) AssetRows(ctx context.Context, q assets.AssetSearchQuery, order string) ([][]string, error) {
	items, _, err := s.assets.List(ctx, q, assets.Page{Limit: exportLimit, Order: order})
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, assetHeader)
	for _, a := range items {
		rows = append(rows, assetRow(a))
	}
	return rows, nil
}

func (s *Service) TransferRows(ctx context.Context, f transfers.TransferFilter, order string) ([][]string, error) {
	items, _, err := s.transfers.List(ctx, f, transfers.Page{Limit: exportLimit, Order: order})
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(items)+1)
	rows = append(rows, transferHeader)
	for _, t := range items {
		rows = append(rows, transferRow(t))
	}
	return rows, nil
}

// WriteCSV renders rows as RFC 4180 CSV.
func WriteCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX renders rows as a single-sheet workbook with a frozen header row.
func WriteXLSX(w io.Writer, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return err
	}
	return f.Write(w)
}

// ===== helpers =====

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func idDeref(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func dateDeref(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
