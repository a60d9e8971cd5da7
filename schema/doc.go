// Package schema defines entity definitions: the table an entity type maps to,
// its field descriptors and an optional sharding rule.
//
// Definitions are declared explicitly with field descriptors:
//
//	func OrderDefinition() *schema.Definition[Order] {
//		return schema.New("order",
//			field.Key("id", func(o *Order) *int64 { return &o.ID }).AutoIncrement(),
//			field.Column("customer_id", func(o *Order) *int64 { return &o.CustomerID }),
//			field.Column("status", func(o *Order) *string { return &o.Status }),
//		)
//	}
//
// or derived from struct tags with [FromStruct]:
//
//	type Order struct {
//		ID         int64  `dao:"id,key,autoincrement"`
//		CustomerID int64  `dao:"customer_id"`
//		Status     string `dao:"status"`
//		Internal   string // not mapped
//	}
//
//	func (Order) TableName() string { return "order" }
//
//	def := schema.FromStruct[Order]()
//
// The daogen command generates explicit definitions from tagged structs, which
// avoids reflection at runtime.
//
// # Sharding
//
// A sharded definition stores rows in physical tables named
// base + separator + index, where the index is derived from the value of the
// shard column:
//
//	schema.New("order", fields...).Shard(4, "customer_id", "_")
//
// Tagged structs declare sharding with a ShardSpec method:
//
//	func (Order) ShardSpec() schema.ShardSpec {
//		return schema.ShardSpec{Count: 4, Column: "customer_id"}
//	}
package schema
