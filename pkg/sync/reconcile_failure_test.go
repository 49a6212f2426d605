package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/tablesync/internal/testutil"
	"github.com/leapstack-labs/tablesync/pkg/adapter"
	"github.com/leapstack-labs/tablesync/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAdapter wraps a sqlmock database so transaction-level failures can be
// injected without a real backend.
type mockAdapter struct {
	adapter.BaseSQLAdapter
}

func (a *mockAdapter) Connect(_ context.Context, _ adapter.Config) error { return nil }

func (a *mockAdapter) HasTable(_ context.Context, _, _ string) (bool, error) { return true, nil }

func (a *mockAdapter) DialectName() string { return "sqlite" }

func (a *mockAdapter) DriverName() string { return "sqlite" }

var _ adapter.Adapter = (*mockAdapter)(nil)

func newMockEngine(t *testing.T) (*Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	a := &mockAdapter{}
	a.SQLDB = db

	eng, err := New(Config{Adapter: a, Logger: testutil.NewTestLogger(t)})
	require.NoError(t, err)
	return eng, mock
}

func TestEngine_Dialect(t *testing.T) {
	eng, _ := newMockEngine(t)
	require.NotNil(t, eng.Dialect())
	assert.Equal(t, dialect.SQLite, eng.Dialect().Kind)
}

func TestReconcile_BeginFailureReturnsTerminalFailure(t *testing.T) {
	eng, mock := newMockEngine(t)
	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	f := customersFrame(t, []int64{1}, []string{"alice"})
	result, err := eng.Reconcile(context.Background(), Append, f, "customers", Options{})
	require.NoError(t, err)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "drop table", result.Failures[0].Step)
	assert.Nil(t, result.Failures[0].Row)
	assert.Contains(t, result.Failures[0].Error, "connection refused")
	assert.Zero(t, result.Insertions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_CommitFailureReturnsTerminalFailure(t *testing.T) {
	eng, mock := newMockEngine(t)
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT tablesync_row").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "customers"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("RELEASE SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit().WillReturnError(errors.New("connection lost mid-batch"))

	f := customersFrame(t, []int64{1}, []string{"alice"})
	result, err := eng.Reconcile(context.Background(), Append, f, "customers", Options{})
	require.NoError(t, err)

	// The insert was counted before the commit died; the terminal entry is
	// appended alongside it and the call still returns a structured result.
	assert.Equal(t, 1, result.Insertions)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "drop table", result.Failures[0].Step)
	assert.Nil(t, result.Failures[0].Row)
	assert.Contains(t, result.Failures[0].Error, "connection lost")
	assert.Equal(t, 2, result.Processed())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_RebeginFailureAfterBatchCommit(t *testing.T) {
	eng, mock := newMockEngine(t)
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT tablesync_row").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "customers"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("RELEASE SAVEPOINT").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin().WillReturnError(errors.New("server closed the connection"))

	f := customersFrame(t, []int64{1, 2}, []string{"alice", "bob"})
	result, err := eng.Reconcile(context.Background(), Append, f, "customers", Options{CommitBatch: 1})
	require.NoError(t, err)

	// The first batch committed; the run stops when the next transaction
	// cannot be opened and the second row is never attempted.
	assert.Equal(t, 1, result.Insertions)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "drop table", result.Failures[0].Step)
	assert.Nil(t, result.Failures[0].Row)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcile_DeadSavepointRollbackStopsRun(t *testing.T) {
	eng, mock := newMockEngine(t)
	mock.ExpectBegin()
	mock.ExpectExec("SAVEPOINT tablesync_row").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO "customers"`).WillReturnError(errors.New("NOT NULL constraint failed"))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT").WillReturnError(errors.New("driver: bad connection"))
	mock.ExpectRollback()

	f := customersFrame(t, []int64{1}, []string{"alice"})
	result, err := eng.Reconcile(context.Background(), Append, f, "customers", Options{})
	require.NoError(t, err)

	// The row failure is recorded first, then the terminal entry for the
	// rollback that could not restore the transaction.
	require.Len(t, result.Failures, 2)
	assert.Equal(t, "perform insert", result.Failures[0].Step)
	require.NotNil(t, result.Failures[0].Row)
	assert.Equal(t, 0, result.Failures[0].Row.Index)
	assert.Contains(t, result.Failures[0].Row.Values, "id='1'")
	assert.Contains(t, result.Failures[0].Error, "NOT NULL")

	assert.Equal(t, "perform insert", result.Failures[1].Step)
	assert.Nil(t, result.Failures[1].Row)
	assert.Contains(t, result.Failures[1].Error, "bad connection")

	assert.Zero(t, result.Insertions)
	assert.NoError(t, mock.ExpectationsWereMet())
}
