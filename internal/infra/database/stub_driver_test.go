package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
	"testing"
)

type recordedQuery struct {
	query string
	args  []driver.Value
}

// stubConn is a scripted database/sql connection: every query returns the
// configured rows, every exec reports the configured affected count.
type stubConn struct {
	mu       sync.Mutex
	recorded []recordedQuery
	columns  []string
	rows     [][]driver.Value
	affected int64
	err      error
}

func (c *stubConn) record(query string, args []driver.NamedValue) {
	values := make([]driver.Value, len(args))
	for i, a := range args {
		values[i] = a.Value
	}
	c.mu.Lock()
	c.recorded = append(c.recorded, recordedQuery{query: query, args: values})
	c.mu.Unlock()
}

func (c *stubConn) last() recordedQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.recorded) == 0 {
		return recordedQuery{}
	}
	return c.recorded[len(c.recorded)-1]
}

func (c *stubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.record(query, args)
	if c.err != nil {
		return nil, c.err
	}
	return &stubRows{columns: c.columns, rows: c.rows}, nil
}

func (c *stubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.record(query, args)
	if c.err != nil {
		return nil, c.err
	}
	return driver.RowsAffected(c.affected), nil
}

func (c *stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("stub: prepared statements are not supported")
}

func (c *stubConn) Close() error { return nil }

func (c *stubConn) Begin() (driver.Tx, error) {
	return nil, errors.New("stub: transactions are not supported")
}

type stubRows struct {
	columns []string
	rows    [][]driver.Value
	next    int
}

func (r *stubRows) Columns() []string { return r.columns }

func (r *stubRows) Close() error { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.next >= len(r.rows) {
		return io.EOF
	}
	copy(dest, r.rows[r.next])
	r.next++
	return nil
}

type stubConnector struct {
	conn *stubConn
}

func (c stubConnector) Connect(context.Context) (driver.Conn, error) { return c.conn, nil }

func (c stubConnector) Driver() driver.Driver { return stubDriver{conn: c.conn} }

type stubDriver struct {
	conn *stubConn
}

func (d stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

func newStubDB(t *testing.T) (*sql.DB, *stubConn) {
	t.Helper()
	conn := &stubConn{}
	db := sql.OpenDB(stubConnector{conn: conn})
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db, conn
}
