// Package query is the runtime surface generated model code calls into.
//
// Each operation resolves the driver from the context, builds a statement
// for the model's table and executes it, mapping columns to struct fields
// in Keys order. Binding a driver:
//
//	drv, err := sql.Open(dialect.SQLite, "file:app.db")
//	ctx := query.NewContext(context.Background(), drv)
//	users, err := AllUsers(ctx)
//
// The package never interprets store failures; everything beyond its own
// sentinel errors is propagated from database/sql verbatim.
package query

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/syssam/accord"
	"github.com/syssam/accord/dialect"
)

type ctxKey struct{}

// NewContext returns a context carrying the driver queries execute through.
func NewContext(ctx context.Context, drv dialect.Driver) context.Context {
	return context.WithValue(ctx, ctxKey{}, drv)
}

// FromContext returns the driver bound to the context.
func FromContext(ctx context.Context) (dialect.Driver, error) {
	drv, ok := ctx.Value(ctxKey{}).(dialect.Driver)
	if !ok {
		return nil, ErrNoDriver
	}
	return drv, nil
}

// All fetches every record of the model's table.
func All[M accord.Model](ctx context.Context) ([]M, error) {
	var zero M
	drv, err := FromContext(ctx)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(zero.Keys(), ", "), zero.TableName())
	rows, err := drv.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []M
	for rows.Next() {
		var rec M
		if err := rows.Scan(scanDest(&rec)...); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Find fetches the record with the given primary key value.
// It returns a NotFoundError when no record matches.
func Find[M accord.Model](ctx context.Context, key any) (M, error) {
	var rec M
	drv, err := FromContext(ctx)
	if err != nil {
		return rec, err
	}
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = %s",
		strings.Join(rec.Keys(), ", "), rec.TableName(),
		rec.PrimaryKeyName(), placeholder(drv.Dialect(), 1))
	rows, err := drv.QueryContext(ctx, stmt, key)
	if err != nil {
		return rec, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return rec, err
		}
		return rec, NewNotFoundError(rec.TableName())
	}
	if err := rows.Scan(scanDest(&rec)...); err != nil {
		return rec, err
	}
	return rec, rows.Err()
}

// Insert writes the record and returns the key value assigned by the
// store. m must be a pointer to a generated model struct. The primary
// key column is omitted from the statement while it holds its zero
// value, letting auto-increment stores assign it. Postgres drivers do
// not implement LastInsertId, so the assigned key is read back with a
// RETURNING clause there.
func Insert(ctx context.Context, m accord.Model) (int64, error) {
	drv, err := FromContext(ctx)
	if err != nil {
		return 0, err
	}
	cols, args, err := writeColumns(m, true)
	if err != nil {
		return 0, err
	}
	values := make([]string, len(cols))
	for i := range cols {
		values[i] = placeholder(drv.Dialect(), i+1)
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		m.TableName(), strings.Join(cols, ", "), strings.Join(values, ", "))
	if drv.Dialect() == dialect.Postgres {
		return insertReturning(ctx, drv, m, stmt, cols, args)
	}
	res, err := drv.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// insertReturning runs the insert with a RETURNING clause when the key
// column was omitted, scanning back the store-assigned value. With a
// caller-provided key the statement runs as is and that key is echoed.
func insertReturning(ctx context.Context, drv dialect.Driver, m accord.Model, stmt string, cols []string, args []any) (int64, error) {
	keyed := false
	for _, c := range cols {
		if c == m.PrimaryKeyName() {
			keyed = true
			break
		}
	}
	if keyed {
		if _, err := drv.ExecContext(ctx, stmt, args...); err != nil {
			return 0, err
		}
		key, err := primaryKeyValue(m)
		if err != nil {
			return 0, err
		}
		switch rv := reflect.ValueOf(key); {
		case rv.CanInt():
			return rv.Int(), nil
		case rv.CanUint():
			return int64(rv.Uint()), nil
		}
		return 0, nil
	}
	rows, err := drv.QueryContext(ctx, stmt+" RETURNING "+m.PrimaryKeyName(), args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("accord: %s: insert returned no key", m.TableName())
	}
	var id int64
	if err := rows.Scan(&id); err != nil {
		return 0, err
	}
	return id, rows.Err()
}

// Save persists in-place updates to the record. m must be a pointer to
// a generated model struct. It returns a NotFoundError when the record
// no longer exists.
func Save(ctx context.Context, m accord.Model) error {
	drv, err := FromContext(ctx)
	if err != nil {
		return err
	}
	cols, args, err := writeColumns(m, false)
	if err != nil {
		return err
	}
	assign := make([]string, len(cols))
	for i, c := range cols {
		assign[i] = c + " = " + placeholder(drv.Dialect(), i+1)
	}
	key, err := primaryKeyValue(m)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		m.TableName(), strings.Join(assign, ", "),
		m.PrimaryKeyName(), placeholder(drv.Dialect(), len(cols)+1))
	res, err := drv.ExecContext(ctx, stmt, append(args, key)...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NewNotFoundError(m.TableName())
	}
	return nil
}

// Delete removes the record matched by its primary key value.
// m must be a pointer to a generated model struct.
func Delete(ctx context.Context, m accord.Model) error {
	drv, err := FromContext(ctx)
	if err != nil {
		return err
	}
	key, err := primaryKeyValue(m)
	if err != nil {
		return err
	}
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		m.TableName(), m.PrimaryKeyName(), placeholder(drv.Dialect(), 1))
	_, err = drv.ExecContext(ctx, stmt, key)
	return err
}

// placeholder returns the bind placeholder of the dialect for position n.
func placeholder(d string, n int) string {
	if d == dialect.Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// scanDest returns scan destinations for every field of the record,
// in declaration order. rec must be a pointer to a model struct.
func scanDest(rec any) []any {
	rv := reflect.ValueOf(rec).Elem()
	dest := make([]any, rv.NumField())
	for i := range dest {
		dest[i] = rv.Field(i).Addr().Interface()
	}
	return dest
}

// writeColumns pairs the model's columns with its current field values.
// When omitZeroKey is set, the primary key column is dropped while it
// holds its zero value.
func writeColumns(m accord.Model, omitZeroKey bool) ([]string, []any, error) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, nil, fmt.Errorf("accord: expect pointer to model struct, got %T", m)
	}
	rv = rv.Elem()
	keys := m.Keys()
	if rv.NumField() != len(keys) {
		return nil, nil, fmt.Errorf("accord: %s: %d fields do not match %d keys", m.TableName(), rv.NumField(), len(keys))
	}
	cols := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, k := range keys {
		if omitZeroKey && k == m.PrimaryKeyName() && rv.Field(i).IsZero() {
			continue
		}
		cols = append(cols, k)
		args = append(args, rv.Field(i).Interface())
	}
	return cols, args, nil
}

// primaryKeyValue extracts the primary key field value of the record.
func primaryKeyValue(m accord.Model) (any, error) {
	rv := reflect.ValueOf(m)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return nil, fmt.Errorf("accord: expect pointer to model struct, got %T", m)
	}
	rv = rv.Elem()
	for i, k := range m.Keys() {
		if k == m.PrimaryKeyName() {
			return rv.Field(i).Interface(), nil
		}
	}
	return nil, fmt.Errorf("accord: %s: primary key %q missing from keys", m.TableName(), m.PrimaryKeyName())
}
