package users

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

func validCreate() CreateUserRequest {
	return CreateUserRequest{
		NationalID: "A1234567",
		FirstName:  "Alice",
		LastName:   "Smith",
		Email:      "alice@example.com",
		Password:   "correct horse",
		Roles:      []int64{2},
	}
}

func TestCreateInsertsUserAndRolesInOneTx(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`DELETE FROM user_roles`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(int64(7), int64(2)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM users WHERE user_id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "national_id", "first_name", "last_name", "email", "section_id", "is_disabled", "created_at", "updated_at"},
		).AddRow(int64(7), "A1234567", "Alice", "Smith", "alice@example.com", nil, 0, now, now))
	mock.ExpectQuery(`SELECT r.name FROM roles r`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("member"))

	out, err := svc.Create(context.Background(), validCreate())
	require.NoError(t, err)
	require.Equal(t, int64(7), out.UserID)
	require.Equal(t, []string{"member"}, out.Roles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc, mock := newMockService(t)

	in := validCreate()
	in.Password = "short"
	_, err := svc.Create(context.Background(), in)

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateRollsBack(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate entry"})
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), validCreate())

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeConflict, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleFailureRollsBackUserInsert(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO users`).
		WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec(`DELETE FROM user_roles`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(int64(7), int64(2)).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"})
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), validCreate())

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeInvalidArgument, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet(), "user row must not survive a failed role insert")
}

func TestRolesOnlyUpdateForUnknownUserIsNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	// No field update happens, so existence is checked explicitly before
	// user_roles is touched.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE user_id = \?`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectRollback()

	roles := []int64{2}
	_, err := svc.Update(context.Background(), 99, UpdateUserRequest{Roles: &roles})

	var apiErr *apierr.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, apierr.CodeNotFound, apiErr.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRolesOnlyUpdateReplacesRoles(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE user_id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectExec(`DELETE FROM user_roles`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(int64(7), int64(3)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	now := time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM users WHERE user_id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "national_id", "first_name", "last_name", "email", "section_id", "is_disabled", "created_at", "updated_at"},
		).AddRow(int64(7), "A1234567", "Alice", "Smith", "alice@example.com", nil, 0, now, now))
	mock.ExpectQuery(`SELECT r.name FROM roles r`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("admin"))

	roles := []int64{3}
	out, err := svc.Update(context.Background(), 7, UpdateUserRequest{Roles: &roles})
	require.NoError(t, err)
	require.Equal(t, []string{"admin"}, out.Roles)
	require.NoError(t, mock.ExpectationsWereMet())
}
