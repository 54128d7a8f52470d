package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSqliteDSNAppendsWriteLockParams(t *testing.T) {
	dsn := sqliteDSN("brands.db")
	assert.Equal(t, "brands.db?_txlock=immediate&_pragma=busy_timeout(10000)", dsn)
}

func TestSqliteDSNAppendsToExistingQuery(t *testing.T) {
	dsn := sqliteDSN("file::memory:?cache=shared")
	assert.Equal(t, "file::memory:?cache=shared&_txlock=immediate&_pragma=busy_timeout(10000)", dsn)
}

func TestSqliteDSNKeepsCallerOverrides(t *testing.T) {
	dsn := sqliteDSN("brands.db?_txlock=deferred")
	assert.Equal(t, "brands.db?_txlock=deferred&_pragma=busy_timeout(10000)", dsn)

	dsn = sqliteDSN("brands.db?_pragma=busy_timeout(500)")
	assert.Equal(t, "brands.db?_pragma=busy_timeout(500)&_txlock=immediate", dsn)
}
