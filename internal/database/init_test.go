package db

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDatabaseAndTable(t *testing.T) {
	client, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer client.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE DATABASE IF NOT EXISTS `swap_executor`")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("USE `swap_executor`")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS executions")).WillReturnResult(sqlmock.NewResult(0, 0))

	database, err := NewDatabase(client, "swap_executor")
	require.NoError(t, err)
	require.NoError(t, database.CreateDatabaseAndTable())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDatabaseFails(t *testing.T) {
	client, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer client.Close()

	mock.ExpectExec("CREATE DATABASE").WillReturnError(errors.New("access denied"))

	database, err := NewDatabase(client, "swap_executor")
	require.NoError(t, err)

	err = database.CreateDatabaseAndTable()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewDatabaseRequiresName(t *testing.T) {
	_, err := NewDatabase(nil, "")
	assert.Error(t, err)
}
