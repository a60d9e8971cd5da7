// Package datasource opens the connection pools described by a config.Config
// and routes statements to them by action mode: SELECT runs on the read pool,
// INSERT, UPDATE and DELETE on the write pool.
//
//	cfg, err := config.Load("db.yaml")
//	if err != nil {
//		return err
//	}
//	src, err := datasource.Open(cfg, datasource.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer src.Close()
//	go src.Watch(ctx, "db.yaml") // apply stats changes on reload
//	orders, err := magicdao.New[int64](src, OrderDefinition())
//
// The MySQL, Postgres and SQLite drivers are registered by this package.
package datasource
