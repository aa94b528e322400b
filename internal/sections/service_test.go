package sections

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
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

func sectionRow(id int64, name string) *sqlmock.Rows {
	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(
		[]string{"section_id", "name", "parent_section_id", "created_at", "updated_at"},
	).AddRow(id, name, nil, now, now)
}

func TestCreateTrimsAndReturnsSection(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WithArgs("Engineering", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectExec(`INSERT INTO sections`).
		WithArgs("Engineering", nil).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectQuery(`FROM sections WHERE section_id = \?`).
		WithArgs(int64(4)).
		WillReturnRows(sectionRow(4, "Engineering"))

	out, err := svc.Create(context.Background(), CreateSectionRequest{Name: "  Engineering  "})
	require.NoError(t, err)
	require.Equal(t, "Engineering", out.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WithArgs("Engineering", int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))

	_, err := svc.Create(context.Background(), CreateSectionRequest{Name: "Engineering"})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsEmptyName(t *testing.T) {
	svc, mock := newMockService(t)

	_, err := svc.Create(context.Background(), CreateSectionRequest{Name: "   "})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRejectsSelfParent(t *testing.T) {
	svc, mock := newMockService(t)

	self := int64(4)
	_, err := svc.Update(context.Background(), 4, UpdateSectionRequest{ParentSectionID: &self})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet(), "self-parent must be rejected before any DB work")
}

func TestDeleteUnknownSectionIsNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectExec(`UPDATE sections SET deleted_at`).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.Delete(context.Background(), 99)

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeNotFound, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
