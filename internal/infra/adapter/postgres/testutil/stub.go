// Package testutil provides a stub database/sql driver for postgres adapter
// tests. It understands only the statements the adapter issues against the
// records table.
package testutil

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// StubConn records statements and keeps record payloads in memory.
type StubConn struct {
	mu       sync.Mutex
	rows     map[string][]byte
	Execs    []string
	FailPing bool
	FailExec bool
}

func rowKey(resource, id string) string { return resource + "\x00" + id }

// Payload returns the stored payload for (resource, id), if any.
func (c *StubConn) Payload(resource, id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.rows[rowKey(resource, id)]
	return p, ok
}

// NewStubDB registers a sql.DB backed by an in-memory stub connection.
func NewStubDB() (*sql.DB, *StubConn) {
	conn := &StubConn{rows: make(map[string][]byte)}
	name := fmt.Sprintf("stubpg%d", time.Now().UnixNano())
	sql.Register(name, &stubDriver{conn: conn})
	db, err := sql.Open(name, "stub")
	if err != nil {
		panic(err)
	}
	return db, conn
}

type stubDriver struct {
	conn *StubConn
}

func (d *stubDriver) Open(string) (driver.Conn, error) { return d.conn, nil }

// Prepare implements driver.Conn.
func (c *StubConn) Prepare(string) (driver.Stmt, error) {
	return nil, fmt.Errorf("not implemented")
}

// Close implements driver.Conn.
func (c *StubConn) Close() error { return nil }

// Begin implements driver.Conn.
func (c *StubConn) Begin() (driver.Tx, error) {
	return nil, fmt.Errorf("not implemented")
}

// Ping implements driver.Pinger.
func (c *StubConn) Ping(context.Context) error {
	if c.FailPing {
		return fmt.Errorf("ping fail")
	}
	return nil
}

// ExecContext implements driver.ExecerContext for the CREATE TABLE, INSERT,
// and DELETE statements issued by the adapter.
func (c *StubConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Execs = append(c.Execs, query)
	if c.FailExec {
		return nil, fmt.Errorf("exec fail")
	}
	stmt := strings.ToUpper(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(stmt, "CREATE TABLE"):
		return driver.RowsAffected(0), nil
	case strings.HasPrefix(stmt, "INSERT"):
		resource, _ := args[0].Value.(string)
		id, _ := args[1].Value.(string)
		payload, _ := args[2].Value.([]byte)
		c.rows[rowKey(resource, id)] = append([]byte(nil), payload...)
		return driver.RowsAffected(1), nil
	case strings.HasPrefix(stmt, "DELETE"):
		resource, _ := args[0].Value.(string)
		id, _ := args[1].Value.(string)
		key := rowKey(resource, id)
		if _, ok := c.rows[key]; !ok {
			return driver.RowsAffected(0), nil
		}
		delete(c.rows, key)
		return driver.RowsAffected(1), nil
	default:
		return nil, fmt.Errorf("unsupported statement %q", query)
	}
}

// QueryContext implements driver.QueryerContext for payload selects.
func (c *StubConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT") {
		return nil, fmt.Errorf("unsupported query %q", query)
	}
	resource, _ := args[0].Value.(string)
	id, _ := args[1].Value.(string)
	rows := &stubRows{}
	if payload, ok := c.rows[rowKey(resource, id)]; ok {
		rows.payloads = [][]byte{append([]byte(nil), payload...)}
	}
	return rows, nil
}

type stubRows struct {
	payloads [][]byte
	pos      int
}

func (r *stubRows) Columns() []string { return []string{"payload"} }
func (r *stubRows) Close() error      { return nil }

func (r *stubRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.payloads) {
		return io.EOF
	}
	dest[0] = r.payloads[r.pos]
	r.pos++
	return nil
}
