// Package shard resolves the physical table of a horizontally sharded table.
//
// A sharded table is split into Count physical tables named
// <base><separator><index>. The index is a pure function of the value bound
// to the shard column:
//
//	s, _ := shard.New(4, "customer_id", "_")
//	s.Table("orders", 7) // "orders_3"
package shard
