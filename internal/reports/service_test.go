package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"uam-backend/internal/assets"
	"uam-backend/internal/transfers"
)

func TestWriteCSVQuotesEmbeddedCommas(t *testing.T) {
	rows := [][]string{
		{"asset_id", "product_name"},
		{"1", `Laptop, 14"`},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	parsed, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, rows, parsed)
}

func TestAssetRowsStartWithHeader(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	cols := []string{
		"asset_id", "product_name", "serial_number", "inventory_code", "company_id",
		"purchased_at", "warranty_until", "current_section_id", "current_location_id",
		"status", "notes", "created_at", "updated_at",
	}
	mock.ExpectQuery(`FROM assets a`).WillReturnRows(
		sqlmock.NewRows(cols).
			AddRow(int64(1), "ThinkPad T14", "SN-1", "INV-0001", nil,
				nil, nil, int64(3), int64(9), "in_use", nil, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM assets a`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	svc := NewService(assets.NewStore(conn), transfers.NewStore(conn))
	rows, err := svc.AssetRows(context.Background(), assets.AssetSearchQuery{}, "desc")
	require.NoError(t, err)

	require.Len(t, rows, 2)
	require.Equal(t, assetHeader, rows[0])
	require.Equal(t, "ThinkPad T14", rows[1][1])
	require.Equal(t, "in_use", rows[1][9])
	require.Empty(t, rows[1][4], "null company renders as an empty cell")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteXLSXProducesReadableWorkbook(t *testing.T) {
	rows := [][]string{
		{"transfer_id", "asset_id"},
		{"1", "10"},
		{"2", "10"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "transfers", rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("transfers")
	require.NoError(t, err)
	require.Equal(t, rows, got)
}
