// Package magicdao is a generic data access layer for SQL databases.
//
// A DAO maps an entity type to a table through a schema.Definition and
// renders parameterized statements for the common operations: get by key,
// insert, update, delete and filtered, ordered or paged queries. Entities may
// be spread over several physical tables with a shard rule; the physical
// table is then resolved from the value of the shard column.
//
//	drv, err := sql.Open(dialect.MySQL, dsn)
//	if err != nil {
//		return err
//	}
//	orders, err := magicdao.New[int64](magicdao.Single(drv), OrderDefinition())
//	if err != nil {
//		return err
//	}
//	id, err := orders.InsertForID(ctx, &Order{CustomerID: 7, Status: "NEW"})
//	o, err := orders.Get(ctx, id)
//	open, err := orders.Query(ctx, []matcher.Matcher{matcher.Eq("status", "OPEN")})
//
// Statements are routed to a driver picked by the data source for each action
// mode, which allows reads and writes to use different connection pools. See
// the datasource package.
package magicdao
