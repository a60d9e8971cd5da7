// Package metadata extracts and caches the column bindings of entity types.
//
// An Entity is derived once from a schema.Definition and is immutable
// afterwards. It knows the key columns, the insertable and updatable column
// sets, the accessor bound to each column, and it derives the key conditions
// and written values used by the action builders.
//
//	reg := metadata.NewRegistry(logger)
//	orders, err := metadata.Load(reg, OrderDefinition())
//	conds, err := orders.KeyConditions(int64(42))   // id = 42
//	values, err := orders.DataMap(o, orders.InsertableColumns())
package metadata
