package userservice

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vango-dev/formbind/pkg/reactive/rxtest"
)

const countQuery = "SELECT count\\(\\*\\) FROM `accounts` WHERE username = \\?"

func newMockDirectory(t *testing.T) (*SQLDirectory, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewSQLDirectory(db), mock
}

func TestSQLDirectoryAvailable(t *testing.T) {
	dir, mock := newMockDirectory(t)
	rec := rxtest.Record[string](dir.Requests())

	mock.ExpectQuery(countQuery).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(0))

	ok, err := dir.CanUseUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"alice"}, rec.Values())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDirectoryTaken(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery(countQuery).
		WithArgs("bob").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := dir.CanUseUsername(context.Background(), "bob")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDirectoryQueryError(t *testing.T) {
	dir, mock := newMockDirectory(t)
	cause := errors.New("connection reset")

	mock.ExpectQuery(countQuery).WillReturnError(cause)

	ok, err := dir.CanUseUsername(context.Background(), "alice")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestSQLDirectoryRegister(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `accounts`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, dir.Register(context.Background(), "alice", "alice@gmail.com"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDirectoryRegisterDuplicate(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `accounts`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice'"})
	mock.ExpectRollback()

	err := dir.Register(context.Background(), "alice", "alice@gmail.com")
	assert.ErrorIs(t, err, ErrDuplicateUsername)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDirectoryInactiveAccountKeepsUsername(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts` SET .*`is_active`.* WHERE username = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, dir.Deactivate(context.Background(), "carol"))

	// The deactivated row still counts, so the lookup agrees with the
	// unique index that Register would hit.
	mock.ExpectQuery(countQuery).
		WithArgs("carol").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(1))

	ok, err := dir.CanUseUsername(context.Background(), "carol")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLDirectoryDeactivateUnknown(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `accounts`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, dir.Deactivate(context.Background(), "nobody"), ErrUnknownAccount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
