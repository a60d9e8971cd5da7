package magicdao_test

import (
	"context"
	"errors"
	"testing"

	"github.com/syssam/magicdao"
	"github.com/syssam/magicdao/action"
	"github.com/syssam/magicdao/dialect"
	"github.com/syssam/magicdao/dialect/sql"
	"github.com/syssam/magicdao/matcher"
	"github.com/syssam/magicdao/metadata"
	"github.com/syssam/magicdao/schema"
	"github.com/syssam/magicdao/schema/field"
	"github.com/syssam/magicdao/shard"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Order struct {
	ID         int64
	CustomerID int64
	Status     string
}

func orderDefinition() *schema.Definition[Order] {
	return schema.New("order",
		field.Key("id", func(o *Order) *int64 { return &o.ID }).AutoIncrement(),
		field.Column("customer_id", func(o *Order) *int64 { return &o.CustomerID }),
		field.Column("status", func(o *Order) *string { return &o.Status }),
	)
}

var orderColumns = []string{"id", "customer_id", "status"}

func newMock(t *testing.T, name string) (*sql.Driver, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sql.OpenDB(name, db), mock
}

func newOrders(t *testing.T, name string, def *schema.Definition[Order]) (*magicdao.DAO[int64, Order], sqlmock.Sqlmock) {
	t.Helper()
	drv, mock := newMock(t, name)
	orders, err := magicdao.New[int64](magicdao.Single(drv), def)
	require.NoError(t, err)
	return orders, mock
}

func TestInsertForID(t *testing.T) {
	ctx := context.Background()

	t.Run("last_insert_id", func(t *testing.T) {
		orders, mock := newOrders(t, dialect.MySQL, orderDefinition())
		mock.ExpectExec("INSERT INTO order (customer_id, status) VALUES (?, ?)").
			WithArgs(7, "NEW").
			WillReturnResult(sqlmock.NewResult(101, 1))

		id, err := orders.InsertForID(ctx, &Order{CustomerID: 7, Status: "NEW"})
		require.NoError(t, err)
		assert.EqualValues(t, 101, id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returning", func(t *testing.T) {
		orders, mock := newOrders(t, dialect.Postgres, orderDefinition())
		mock.ExpectQuery("INSERT INTO order (customer_id, status) VALUES ($1, $2) RETURNING id").
			WithArgs(7, "NEW").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		id, err := orders.InsertForID(ctx, &Order{CustomerID: 7, Status: "NEW"})
		require.NoError(t, err)
		assert.EqualValues(t, 5, id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returning_no_row", func(t *testing.T) {
		orders, mock := newOrders(t, dialect.Postgres, orderDefinition())
		mock.ExpectQuery("INSERT INTO order (customer_id, status) VALUES ($1, $2) RETURNING id").
			WithArgs(7, "NEW").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := orders.InsertForID(ctx, &Order{CustomerID: 7, Status: "NEW"})
		assert.ErrorIs(t, err, magicdao.ErrNoGeneratedKey)
		assert.True(t, magicdao.IsNoGeneratedKey(err))
	})

	t.Run("no_generated_key", func(t *testing.T) {
		orders, mock := newOrders(t, dialect.MySQL, orderDefinition())
		mock.ExpectExec("INSERT INTO order (customer_id, status) VALUES (?, ?)").
			WithArgs(7, "NEW").
			WillReturnResult(sqlmock.NewResult(0, 1))

		_, err := orders.InsertForID(ctx, &Order{CustomerID: 7, Status: "NEW"})
		assert.ErrorIs(t, err, magicdao.ErrNoGeneratedKey)
	})

	t.Run("last_insert_id_error", func(t *testing.T) {
		orders, mock := newOrders(t, dialect.MySQL, orderDefinition())
		mock.ExpectExec("INSERT INTO order (customer_id, status) VALUES (?, ?)").
			WithArgs(7, "NEW").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("unsupported")))

		_, err := orders.InsertForID(ctx, &Order{CustomerID: 7, Status: "NEW"})
		assert.ErrorIs(t, err, magicdao.ErrNoGeneratedKey)
		assert.ErrorContains(t, err, "unsupported")
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	orders, mock := newOrders(t, dialect.MySQL, orderDefinition())

	mock.ExpectQuery("SELECT id, customer_id, status FROM order WHERE id = ?").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(42, 7, "NEW"))
	o, err := orders.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, &Order{ID: 42, CustomerID: 7, Status: "NEW"}, o)

	mock.ExpectQuery("SELECT id, customer_id, status FROM order WHERE id = ?").
		WithArgs(43).
		WillReturnRows(sqlmock.NewRows(orderColumns))
	o, err = orders.Get(ctx, 43)
	require.NoError(t, err)
	assert.Nil(t, o)

	mock.ExpectQuery("SELECT id, customer_id, status FROM order WHERE id = ?").
		WithArgs(44).
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(44, 1, "A").AddRow(44, 2, "B"))
	o, err = orders.Get(ctx, 44)
	require.NoError(t, err)
	assert.Equal(t, "A", o.Status, "first row wins")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertUpdateDelete(t *testing.T) {
	ctx := context.Background()
	orders, mock := newOrders(t, dialect.MySQL, orderDefinition())

	mock.ExpectExec("INSERT INTO order (customer_id, status) VALUES (?, ?)").
		WithArgs(7, "NEW").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, orders.Insert(ctx, &Order{CustomerID: 7, Status: "NEW"}))

	mock.ExpectExec("INSERT INTO order (customer_id, status) VALUES (?, ?)").
		WithArgs(7, "").
		WillReturnResult(sqlmock.NewResult(2, 1))
	require.NoError(t, orders.Insert(ctx, &Order{CustomerID: 7}), "zero values are written")

	mock.ExpectExec("UPDATE order SET customer_id = ?, status = ? WHERE id = ?").
		WithArgs(7, "PAID", 42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, orders.Update(ctx, &Order{ID: 42, CustomerID: 7, Status: "PAID"}))

	mock.ExpectExec("UPDATE order SET customer_id = ?, status = ? WHERE status = ?").
		WithArgs(8, "HELD", "NEW").
		WillReturnResult(sqlmock.NewResult(0, 3))
	require.NoError(t, orders.UpdateWhere(ctx,
		map[string]any{"status": "HELD", "customer_id": 8},
		[]matcher.Matcher{matcher.Eq("status", "NEW")},
	))

	mock.ExpectExec("DELETE FROM order WHERE id = ?").
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, orders.Delete(ctx, 42))

	mock.ExpectExec("DELETE FROM order WHERE status IN (?, ?)").
		WithArgs("DONE", "VOID").
		WillReturnResult(sqlmock.NewResult(0, 5))
	require.NoError(t, orders.DeleteWhere(ctx, []matcher.Matcher{matcher.In("status", "DONE", "VOID")}))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIgnoresNullField(t *testing.T) {
	type Customer struct {
		ID    int64
		Email *string
		Name  string
	}
	def := schema.New("customer",
		field.Key("id", func(c *Customer) *int64 { return &c.ID }),
		field.Column("email", func(c *Customer) **string { return &c.Email }),
		field.Column("name", func(c *Customer) *string { return &c.Name }),
	)
	drv, mock := newMock(t, dialect.MySQL)
	customers, err := magicdao.New[int64](magicdao.Single(drv), def)
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO customer (id, name) VALUES (?, ?)").
		WithArgs(1, "ann").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, customers.Insert(context.Background(), &Customer{ID: 1, Name: "ann"}))

	email := "ann@example.com"
	mock.ExpectExec("INSERT INTO customer (id, email, name) VALUES (?, ?, ?)").
		WithArgs(2, email, "ann").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, customers.Insert(context.Background(), &Customer{ID: 2, Email: &email, Name: "ann"}))

	mock.ExpectQuery("SELECT id, email, name FROM customer WHERE id = ?").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name"}).AddRow(2, nil, "ann"))
	c, err := customers.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Nil(t, c.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	orders, mock := newOrders(t, dialect.MySQL, orderDefinition())

	mock.ExpectQuery("SELECT id, customer_id, status FROM order").
		WillReturnRows(sqlmock.NewRows(orderColumns))
	all, err := orders.Query(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	mock.ExpectQuery("SELECT id, customer_id, status FROM order WHERE customer_id = ?").
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(append(orderColumns, "extra")).
			AddRow(1, 7, "NEW", "x").
			AddRow(2, 7, "PAID", "y"))
	list, err := orders.Query(ctx, []matcher.Matcher{matcher.Eq("customer_id", 7)})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, &Order{ID: 2, CustomerID: 7, Status: "PAID"}, list[1])

	mock.ExpectQuery("SELECT id, customer_id, status FROM order WHERE status = ? LIMIT 10 OFFSET 10").
		WithArgs("NEW").
		WillReturnRows(sqlmock.NewRows(orderColumns).AddRow(11, 1, "NEW"))
	page, err := orders.QueryPage(ctx, action.NewPage(2, 10), []matcher.Matcher{matcher.Eq("status", "NEW")})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	mock.ExpectQuery("SELECT id, customer_id, status FROM order ORDER BY id DESC").
		WillReturnRows(sqlmock.NewRows(orderColumns))
	_, err = orders.QueryOrdered(ctx, []action.Order{action.Desc("id")}, nil)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, customer_id, status FROM order WHERE id > ? ORDER BY customer_id, id DESC LIMIT 5 OFFSET 0").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(orderColumns))
	_, err = orders.QueryPageOrdered(ctx,
		action.NewPage(1, 5),
		[]action.Order{action.Asc("customer_id"), action.Desc("id")},
		[]matcher.Matcher{matcher.Gt("id", 100)},
	)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT COUNT(1) FROM order WHERE status = ?").
		WithArgs("NEW").
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(1)"}).AddRow(3))
	n, err := orders.Count(ctx, []matcher.Matcher{matcher.Eq("status", "NEW")})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSharded(t *testing.T) {
	ctx := context.Background()
	orders, mock := newOrders(t, dialect.MySQL, orderDefinition().Shard(4, "customer_id", ""))

	for range 2 {
		mock.ExpectQuery("SELECT id, customer_id, status FROM order_3 WHERE customer_id = ?").
			WithArgs(7).
			WillReturnRows(sqlmock.NewRows(orderColumns))
		_, err := orders.Query(ctx, []matcher.Matcher{matcher.Eq("customer_id", 7)})
		require.NoError(t, err)
	}

	mock.ExpectExec("INSERT INTO order_3 (customer_id, status) VALUES (?, ?)").
		WithArgs(7, "NEW").
		WillReturnResult(sqlmock.NewResult(9, 1))
	_, err := orders.InsertForID(ctx, &Order{CustomerID: 7, Status: "NEW"})
	require.NoError(t, err)

	mock.ExpectExec("UPDATE order_1 SET customer_id = ?, status = ? WHERE id = ?").
		WithArgs(5, "PAID", 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, orders.Update(ctx, &Order{ID: 9, CustomerID: 5, Status: "PAID"}))

	_, err = orders.Get(ctx, 9)
	assert.ErrorIs(t, err, shard.ErrNoShardValue)
	err = orders.Delete(ctx, 9)
	assert.ErrorIs(t, err, shard.ErrNoShardValue)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("nil_data_source", func(t *testing.T) {
		_, err := magicdao.New[int64](nil, orderDefinition())
		assert.ErrorIs(t, err, magicdao.ErrNilDataSource)
	})

	t.Run("config", func(t *testing.T) {
		drv, _ := newMock(t, dialect.MySQL)
		_, err := magicdao.New[int64](magicdao.Single(drv), schema.New("order",
			field.Column("id", func(o *Order) *int64 { return &o.ID }),
		))
		assert.True(t, magicdao.IsConfigError(err))
		assert.ErrorIs(t, err, magicdao.ErrInvalidConfig)
		assert.ErrorIs(t, err, metadata.ErrNoKeyColumns)
	})

	t.Run("accessor", func(t *testing.T) {
		def := schema.New("order",
			field.Key("id", func(o *Order) *int64 { return &o.ID }).AutoIncrement(),
			field.Column("status", func(o *Order) *string { return &o.Status }).
				Getter(func(*Order) (any, error) { return nil, errors.New("locked") }),
		)
		orders, mock := newOrders(t, dialect.MySQL, def)
		err := orders.Insert(ctx, &Order{})
		assert.True(t, magicdao.IsAccessorError(err))
		var ae *magicdao.AccessorError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, "status", ae.Column)
		require.NoError(t, mock.ExpectationsWereMet(), "nothing executed")
	})

	t.Run("driver", func(t *testing.T) {
		orders, mock := newOrders(t, dialect.MySQL, orderDefinition())
		boom := errors.New("deadlock")
		mock.ExpectExec("DELETE FROM order WHERE id = ?").WithArgs(1).WillReturnError(boom)
		assert.ErrorIs(t, orders.Delete(ctx, 1), boom)

		mock.ExpectQuery("SELECT COUNT(1) FROM order").WillReturnError(boom)
		_, err := orders.Count(ctx, nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("unknown_column", func(t *testing.T) {
		orders, _ := newOrders(t, dialect.MySQL, orderDefinition())
		err := orders.UpdateWhere(ctx, map[string]any{"missing": 1}, nil)
		assert.ErrorIs(t, err, magicdao.ErrUnknownColumn)
	})

	t.Run("no_fields", func(t *testing.T) {
		orders, _ := newOrders(t, dialect.MySQL, orderDefinition())
		err := orders.UpdateWhere(ctx, nil, []matcher.Matcher{matcher.Eq("id", 1)})
		assert.ErrorIs(t, err, action.ErrNoFields)
	})

	t.Run("scan", func(t *testing.T) {
		orders, mock := newOrders(t, dialect.MySQL, orderDefinition())
		mock.ExpectQuery("SELECT id, customer_id, status FROM order").
			WillReturnRows(sqlmock.NewRows(orderColumns).AddRow("not-a-number", 1, "NEW"))
		_, err := orders.Query(ctx, nil)
		assert.ErrorContains(t, err, "magicdao: scanning Order")
	})
}

// routed sends reads and writes to different drivers.
type routed struct {
	read, write dialect.Driver
}

func (r routed) Driver(mode action.Mode) dialect.ExecQuerier {
	if mode.IsWrite() {
		return r.write
	}
	return r.read
}

func (r routed) Dialect() string { return r.write.Dialect() }

func TestRouting(t *testing.T) {
	ctx := context.Background()
	read, readMock := newMock(t, dialect.MySQL)
	write, writeMock := newMock(t, dialect.MySQL)
	reg := metadata.NewRegistry(nil)
	orders, err := magicdao.New[int64](routed{read: read, write: write}, orderDefinition(), magicdao.WithRegistry(reg))
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
	assert.Equal(t, []string{"id"}, orders.Metadata().KeyColumns())

	readMock.ExpectQuery("SELECT COUNT(1) FROM order").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
	_, err = orders.Count(ctx, nil)
	require.NoError(t, err)

	writeMock.ExpectExec("DELETE FROM order WHERE id = ?").
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, orders.Delete(ctx, 1))

	require.NoError(t, readMock.ExpectationsWereMet())
	require.NoError(t, writeMock.ExpectationsWereMet())
}
