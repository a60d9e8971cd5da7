package magicdao

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/syssam/magicdao/action"
	"github.com/syssam/magicdao/dialect"
	"github.com/syssam/magicdao/dialect/sql"
	"github.com/syssam/magicdao/matcher"
	"github.com/syssam/magicdao/metadata"
	"github.com/syssam/magicdao/schema"
)

// DAO is the data access object of entity type E with key type K.
// A DAO is safe for concurrent use.
type DAO[K, E any] struct {
	src    DataSource
	meta   *metadata.Entity[E]
	logger *slog.Logger
}

// New returns a DAO for the entity described by def. Definition problems are
// reported as *ConfigError.
func New[K, E any](src DataSource, def *schema.Definition[E], opts ...Option) (*DAO[K, E], error) {
	if src == nil {
		return nil, ErrNilDataSource
	}
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.registry == nil {
		o.registry = metadata.NewRegistry(o.logger)
	}
	meta, err := metadata.Load(o.registry, def)
	if err != nil {
		return nil, err
	}
	return &DAO[K, E]{src: src, meta: meta, logger: o.logger}, nil
}

// Metadata returns the entity metadata.
func (d *DAO[K, E]) Metadata() *metadata.Entity[E] { return d.meta }

func (d *DAO[K, E]) factory() *action.Factory {
	return d.meta.Factory(d.src.Dialect())
}

// Get returns the entity with the given key, or nil if no row matches.
func (d *DAO[K, E]) Get(ctx context.Context, key K) (*E, error) {
	conds, err := d.meta.KeyConditions(key)
	if err != nil {
		return nil, err
	}
	rows, err := d.query(ctx, d.factory().Query().Select(d.meta.Columns()).Where(conds))
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// Insert writes e to its table. NULL fields and database generated keys are
// left out of the statement.
func (d *DAO[K, E]) Insert(ctx context.Context, e *E) error {
	values, err := d.meta.DataMap(e, d.meta.InsertableColumns())
	if err != nil {
		return err
	}
	return d.exec(ctx, d.factory().Insert().Set(values), nil)
}

// InsertForID writes e to its table and returns the key generated by the
// database. Postgres reads it with RETURNING, other dialects use the
// driver's last insert id.
func (d *DAO[K, E]) InsertForID(ctx context.Context, e *E) (int64, error) {
	values, err := d.meta.DataMap(e, d.meta.InsertableColumns())
	if err != nil {
		return 0, err
	}
	ins := d.factory().Insert().Set(values)
	if d.src.Dialect() == dialect.Postgres {
		ins.Returning(d.generatedKey())
		var id int64
		found, err := d.scalar(ctx, ins, &id)
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, ErrNoGeneratedKey
		}
		return id, nil
	}
	var res sql.Result
	if err := d.exec(ctx, ins, &res); err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoGeneratedKey, err)
	}
	if id == 0 {
		return 0, ErrNoGeneratedKey
	}
	return id, nil
}

// generatedKey returns the auto-increment key column, or the first key.
func (d *DAO[K, E]) generatedKey() string {
	keys := d.meta.KeyColumns()
	for _, c := range keys {
		if fd, ok := d.meta.Accessor(c); ok && fd.AutoIncrement {
			return c
		}
	}
	return keys[0]
}

// Update writes the updatable columns of e to the row matching its key.
func (d *DAO[K, E]) Update(ctx context.Context, e *E) error {
	conds, err := d.meta.KeyConditionsFromEntity(e)
	if err != nil {
		return err
	}
	values, err := d.meta.DataMap(e, d.meta.UpdatableColumns())
	if err != nil {
		return err
	}
	return d.exec(ctx, d.factory().Update().Set(values).Where(conds), nil)
}

// UpdateWhere sets the given columns on every row matching conds. Columns
// are written in name order. A nil value sets the column to NULL.
func (d *DAO[K, E]) UpdateWhere(ctx context.Context, fields map[string]any, conds []matcher.Matcher) error {
	columns := make([]string, 0, len(fields))
	for c := range fields {
		if _, ok := d.meta.Accessor(c); !ok {
			return fmt.Errorf("%w: %q on %s", ErrUnknownColumn, c, d.meta.Name())
		}
		columns = append(columns, c)
	}
	slices.Sort(columns)
	values := make([]action.Value, len(columns))
	for i, c := range columns {
		values[i] = action.Value{Column: c, Value: fields[c]}
	}
	return d.exec(ctx, d.factory().Update().Set(values).Where(conds), nil)
}

// Delete removes the row with the given key.
func (d *DAO[K, E]) Delete(ctx context.Context, key K) error {
	conds, err := d.meta.KeyConditions(key)
	if err != nil {
		return err
	}
	return d.DeleteWhere(ctx, conds)
}

// DeleteWhere removes every row matching conds.
func (d *DAO[K, E]) DeleteWhere(ctx context.Context, conds []matcher.Matcher) error {
	return d.exec(ctx, d.factory().Delete().Where(conds), nil)
}

// Query returns the entities matching conds. The result is never nil.
func (d *DAO[K, E]) Query(ctx context.Context, conds []matcher.Matcher) ([]*E, error) {
	return d.QueryPageOrdered(ctx, nil, nil, conds)
}

// QueryPage returns one page of the entities matching conds.
func (d *DAO[K, E]) QueryPage(ctx context.Context, page *action.Page, conds []matcher.Matcher) ([]*E, error) {
	return d.QueryPageOrdered(ctx, page, nil, conds)
}

// QueryOrdered returns the entities matching conds in the given order.
func (d *DAO[K, E]) QueryOrdered(ctx context.Context, orders []action.Order, conds []matcher.Matcher) ([]*E, error) {
	return d.QueryPageOrdered(ctx, nil, orders, conds)
}

// QueryPageOrdered returns one page of the entities matching conds in the
// given order. A nil page or order list leaves the clause out.
func (d *DAO[K, E]) QueryPageOrdered(ctx context.Context, page *action.Page, orders []action.Order, conds []matcher.Matcher) ([]*E, error) {
	q := d.factory().Query().
		Select(d.meta.Columns()).
		Where(conds).
		OrderBy(orders).
		Paginate(page)
	return d.query(ctx, q)
}

// Count returns the number of rows matching conds.
func (d *DAO[K, E]) Count(ctx context.Context, conds []matcher.Matcher) (int64, error) {
	var n int64
	if _, err := d.scalar(ctx, d.factory().Query().Count().Where(conds), &n); err != nil {
		return 0, err
	}
	return n, nil
}

// exec runs a write action. v is nil or a *sql.Result.
func (d *DAO[K, E]) exec(ctx context.Context, a action.Action, v any) error {
	query, args, err := a.SQL()
	if err != nil {
		return err
	}
	if err := d.src.Driver(a.Mode()).Exec(ctx, query, args, v); err != nil {
		d.failed(ctx, a.Mode(), query, err)
		return err
	}
	return nil
}

// rows runs a row returning action on the driver for its mode.
func (d *DAO[K, E]) rows(ctx context.Context, a action.Action) (*sql.Rows, error) {
	query, args, err := a.SQL()
	if err != nil {
		return nil, err
	}
	rows := &sql.Rows{}
	if err := d.src.Driver(a.Mode()).Query(ctx, query, args, rows); err != nil {
		d.failed(ctx, a.Mode(), query, err)
		return nil, err
	}
	return rows, nil
}

// query maps every returned row into a new entity.
func (d *DAO[K, E]) query(ctx context.Context, a action.Action) ([]*E, error) {
	rows, err := d.rows(ctx, a)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := make([]*E, 0)
	for rows.Next() {
		e := new(E)
		dests, done := d.meta.Targets(e, columns)
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("magicdao: scanning %s: %w", d.meta.Name(), err)
		}
		if err := done(); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// scalar scans the first column of the first row into dest and reports
// whether a row was returned.
func (d *DAO[K, E]) scalar(ctx context.Context, a action.Action, dest any) (bool, error) {
	rows, err := d.rows(ctx, a)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return false, rows.Err()
	}
	if err := rows.Scan(dest); err != nil {
		return false, fmt.Errorf("magicdao: scanning %s: %w", d.meta.Name(), err)
	}
	return true, rows.Err()
}

func (d *DAO[K, E]) failed(ctx context.Context, mode action.Mode, query string, err error) {
	d.logger.ErrorContext(ctx, "magicdao: statement failed",
		slog.String("entity", d.meta.Name()),
		slog.String("mode", mode.String()),
		slog.String("sql", query),
		slog.Any("error", err),
	)
}
