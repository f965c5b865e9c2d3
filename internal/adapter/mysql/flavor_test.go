package mysql

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/sqlschema/internal/adapter"
)

const versionQuery = "SHOW VARIABLES LIKE '%version%'"

// newMock returns a mock handle that expects exact query text in the order
// the expectations are declared.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		Forget(db)
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func expectVersion(mock sqlmock.Sqlmock, version string) {
	mock.ExpectQuery(versionQuery).WillReturnRows(
		sqlmock.NewRows([]string{"Variable_name", "Value"}).
			AddRow("innodb_version", version).
			AddRow("protocol_version", "10").
			AddRow("version", version).
			AddRow("version_comment", "Source distribution"),
	)
}

func TestServerInfo_AtLeast(t *testing.T) {
	tests := []struct {
		version      string
		major, minor int
		want         bool
	}{
		{"8.0.36", 8, 0, true},
		{"5.7.44-log", 8, 0, false},
		{"10.11.6-MariaDB-1:10.11.6+maria~ubu2204", 10, 11, true},
		{"10.6.16-MariaDB", 10, 11, false},
		{"11.2.2-MariaDB", 10, 11, true},
		{"garbage", 1, 0, false},
		{"", 0, 0, false},
	}

	for _, tt := range tests {
		got := ServerInfo{Version: tt.version}.AtLeast(tt.major, tt.minor)
		assert.Equal(t, tt.want, got, "AtLeast(%d, %d) for %q", tt.major, tt.minor, tt.version)
	}
}

func TestIdentify_DetectsFlavor(t *testing.T) {
	tests := []struct {
		version string
		maria   bool
	}{
		{"8.0.36", false},
		{"10.11.6-MariaDB-1:10.11.6+maria~ubu2204", true},
		{"5.5.5-10.4.32-MariaDB", true},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			db, mock := newMock(t)
			expectVersion(mock, tt.version)

			info, err := Identify(context.Background(), db)
			require.NoError(t, err)
			assert.Equal(t, ServerInfo{Version: tt.version, MariaDB: tt.maria}, info)
		})
	}
}

func TestIdentify_CachedPerHandle(t *testing.T) {
	db, mock := newMock(t)
	expectVersion(mock, "8.0.36")

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Identify(context.Background(), db)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// A traced wrapper shares the underlying handle's entry.
	traced := adapter.Trace(db, func(adapter.TraceEvent) {})
	_, err := Identify(context.Background(), traced)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	Forget(db)
	expectVersion(mock, "8.0.37")
	info, err := Identify(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, "8.0.37", info.Version)
}

func TestIdentify_SeparateHandles(t *testing.T) {
	db1, mock1 := newMock(t)
	db2, mock2 := newMock(t)
	expectVersion(mock1, "8.0.36")
	expectVersion(mock2, "10.11.6-MariaDB")

	i1, err := Identify(context.Background(), db1)
	require.NoError(t, err)
	i2, err := Identify(context.Background(), db2)
	require.NoError(t, err)

	assert.False(t, i1.MariaDB)
	assert.True(t, i2.MariaDB)
}

func TestIdentify_FailureNotCached(t *testing.T) {
	boom := errors.New("gone away")
	db, mock := newMock(t)
	mock.ExpectQuery(versionQuery).WillReturnError(boom)
	mock.ExpectQuery(versionQuery).WillReturnError(boom)

	_, err := Identify(context.Background(), db)
	require.ErrorIs(t, err, boom)

	// Later calls retry instead of replaying the failure.
	_, err = Identify(context.Background(), db)
	require.ErrorIs(t, err, boom)
}

// valueHandle is a Queryer passed by value whose type cannot be a map key.
type valueHandle struct {
	db   *sql.DB
	tags []string
}

func (h valueHandle) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return h.db.QueryContext(ctx, query, args...)
}

func TestIdentify_UncomparableHandle(t *testing.T) {
	db, mock := newMock(t)
	expectVersion(mock, "8.0.36")
	expectVersion(mock, "8.0.36")

	h := valueHandle{db: db, tags: []string{"replica"}}
	for range 2 {
		info, err := Identify(context.Background(), h)
		require.NoError(t, err)
		assert.Equal(t, "8.0.36", info.Version)
	}
	assert.NotPanics(t, func() { Forget(h) })
}
