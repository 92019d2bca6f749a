package database

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &DB{db}, mock
}

func TestWithTxCommitsOnSuccess(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO country (name) VALUES (?)")).
		WithArgs("Germany").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := db.WithTx(func(tx *sql.Tx) error {
		_, err := tx.Exec("INSERT INTO country (name) VALUES (?)", "Germany")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	phaseErr := errors.New("phase failed")
	err := db.WithTx(func(tx *sql.Tx) error {
		return phaseErr
	})
	require.ErrorIs(t, err, phaseErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReportsRollbackFailure(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(errors.New("connection gone"))

	phaseErr := errors.New("phase failed")
	err := db.WithTx(func(tx *sql.Tx) error {
		return phaseErr
	})
	// The phase error stays the wrapped cause; the rollback failure is
	// reported alongside it.
	require.ErrorIs(t, err, phaseErr)
	assert.ErrorContains(t, err, "rollback failed")
	assert.ErrorContains(t, err, "connection gone")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReturnsCommitFailure(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin()
	mock.ExpectCommit().WillReturnError(errors.New("server shutdown"))

	err := db.WithTx(func(tx *sql.Tx) error {
		return nil
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxReturnsBeginFailure(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := db.WithTx(func(tx *sql.Tx) error {
		t.Fatal("fn must not run when begin fails")
		return nil
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}
