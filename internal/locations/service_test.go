package locations

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

func TestCreateRejectsDuplicateNameInSameSection(t *testing.T) {
	svc, mock := newMockService(t)
	section := int64(3)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WithArgs(section).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations WHERE name = \? AND section_id = \?`).
		WithArgs("Room 2", section, int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	_, err := svc.Create(context.Background(), CreateLocationRequest{Name: "Room 2", SectionID: &section})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAllowsSameNameInDifferentSection(t *testing.T) {
	svc, mock := newMockService(t)
	section := int64(5)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WithArgs(section).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	// Uniqueness is scoped per section; "Room 2" existing elsewhere is fine.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations WHERE name = \? AND section_id = \?`).
		WithArgs("Room 2", section, int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`INSERT INTO locations`).
		WithArgs("Room 2", section).
		WillReturnResult(sqlmock.NewResult(12, 1))
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM locations WHERE location_id = \?`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"location_id", "name", "section_id", "created_at", "updated_at"},
		).AddRow(int64(12), "Room 2", section, now, now))

	out, err := svc.Create(context.Background(), CreateLocationRequest{Name: "Room 2", SectionID: &section})
	require.NoError(t, err)
	require.Equal(t, int64(12), out.LocationID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsUnknownSection(t *testing.T) {
	svc, mock := newMockService(t)
	section := int64(99)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WithArgs(section).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))

	_, err := svc.Create(context.Background(), CreateLocationRequest{Name: "Room 2", SectionID: &section})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSectionMoveRejectedWhenDestinationHasSameName(t *testing.T) {
	svc, mock := newMockService(t)
	oldSection := int64(3)
	newSection := int64(5)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM locations WHERE location_id = \?`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"location_id", "name", "section_id", "created_at", "updated_at"},
		).AddRow(int64(12), "Room 2", oldSection, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WithArgs(newSection).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	// Moving without renaming still collides with "Room 2" already in the
	// destination section.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations WHERE name = \? AND section_id = \?`).
		WithArgs("Room 2", newSection, int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	_, err := svc.Update(context.Background(), 12, UpdateLocationRequest{SectionID: &newSection})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet(), "the row must not be updated")
}

func TestUpdateDuplicateFromIndexIsConflict(t *testing.T) {
	svc, mock := newMockService(t)
	section := int64(3)
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	name := "Room 9"

	mock.ExpectQuery(`FROM locations WHERE location_id = \?`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"location_id", "name", "section_id", "created_at", "updated_at"},
		).AddRow(int64(12), "Room 2", section, now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM locations WHERE name = \? AND section_id = \?`).
		WithArgs(name, section, int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	// The pre-check can race; the unique index has the last word.
	mock.ExpectExec(`UPDATE locations`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"})

	_, err := svc.Update(context.Background(), 12, UpdateLocationRequest{Name: &name})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
