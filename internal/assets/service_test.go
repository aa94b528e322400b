package assets

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"

	"uam-backend/internal/platform/apierr"
)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewService(conn), mock
}

func assetRow(id int64, status string) *sqlmock.Rows {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	cols := []string{
		"asset_id", "product_name", "serial_number", "inventory_code", "company_id",
		"purchased_at", "warranty_until", "current_section_id", "current_location_id",
		"status", "notes", "created_at", "updated_at",
	}
	return sqlmock.NewRows(cols).
		AddRow(id, "ThinkPad T14", nil, "INV-0001", nil, nil, nil, nil, nil, status, nil, now, now)
}

func TestCreateDefaultsStatusToInStorage(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`INSERT INTO assets`).
		WithArgs("ThinkPad T14", nil, "INV-0001", nil, nil, nil, nil, nil, "in_storage", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`FROM assets a WHERE a.asset_id = \?`).
		WithArgs(int64(1)).
		WillReturnRows(assetRow(1, "in_storage"))

	out, err := svc.Create(context.Background(), CreateAssetRequest{
		ProductName: "ThinkPad T14", InventoryCode: "INV-0001",
	})
	require.NoError(t, err)
	require.Equal(t, StatusInStorage, out.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsDisposedStatus(t *testing.T) {
	svc, mock := newMockService(t)

	_, err := svc.Create(context.Background(), CreateAssetRequest{
		ProductName: "ThinkPad T14", InventoryCode: "INV-0001", Status: StatusDisposed,
	})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateInventoryCodeIsConflict(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`INSERT INTO assets`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"})

	_, err := svc.Create(context.Background(), CreateAssetRequest{
		ProductName: "ThinkPad T14", InventoryCode: "INV-0001",
	})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	svc, mock := newMockService(t)

	bogus := "on_loan"
	_, _, err := svc.List(context.Background(), AssetSearchQuery{Status: &bogus}, Page{Limit: 50})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
