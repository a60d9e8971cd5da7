// Package action renders parameterized SQL statements for one logical table.
//
// A Factory bound to a Table and an optional shard.Strategy hands out
// single-use builders:
//
//	f := action.NewFactory(action.NewTable("orders", []string{"id"}, cols), nil, dialect.MySQL)
//	q := f.Query().Select(cols).Where([]matcher.Matcher{matcher.Eq("id", 42)})
//	query, args, err := q.SQL()
//	// SELECT id, customer_id, status FROM orders WHERE id = ?  [42]
//
// Values are always bound as positional arguments. Table and column names
// must be plain identifiers. For sharded tables the physical table is
// resolved from the equality condition on the shard column, or from the
// written value of that column.
package action
