package licenses

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

const lockQuery = `SELECT seats FROM software_licenses WHERE license_id = \? FOR UPDATE`

func TestAssignBooksSeatUnderLock(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM asset_software_license_assignments`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`INSERT INTO asset_software_license_assignments`).
		WithArgs(int64(3), int64(10)).
		WillReturnResult(sqlmock.NewResult(55, 1))
	mock.ExpectCommit()

	assignedAt := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM asset_software_license_assignments WHERE assignment_id = \?`).
		WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"assignment_id", "license_id", "asset_id", "assigned_at"},
		).AddRow(int64(55), int64(3), int64(10), assignedAt))

	out, err := svc.Assign(context.Background(), 3, AssignRequest{AssetID: 10})
	require.NoError(t, err)
	require.Equal(t, int64(55), out.AssignmentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignRejectedWhenSeatsExhausted(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM asset_software_license_assignments`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectRollback()

	_, err := svc.Assign(context.Background(), 3, AssignRequest{AssetID: 10})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.Equal(t, "no seats available", apiErr.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignDuplicateAssetIsConflict(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"seats"}).AddRow(5))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM asset_software_license_assignments`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO asset_software_license_assignments`).
		WithArgs(int64(3), int64(10)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"})
	mock.ExpectRollback()

	_, err := svc.Assign(context.Background(), 3, AssignRequest{AssetID: 10})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsNonPositiveSeats(t *testing.T) {
	svc, mock := newMockService(t)

	_, err := svc.Create(context.Background(), CreateLicenseRequest{
		Name: "CAD Suite", Vendor: "Acme", Seats: 0,
	})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWithAssignmentsIsConflict(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`DELETE FROM software_licenses`).
		WithArgs(int64(3)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "foreign key constraint fails"})

	err := svc.Delete(context.Background(), 3)

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
