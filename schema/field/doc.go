// Package field provides typed descriptors that bind entity fields to table
// columns.
//
// A descriptor is created from a column name and a reference function that
// returns the address of the Go field. The reference is used both to read the
// value written by INSERT and UPDATE statements and as the scan destination
// when rows are mapped back into entities:
//
//	field.Key("id", func(o *Order) *int64 { return &o.ID }).AutoIncrement()
//	field.Column("customer_id", func(o *Order) *int64 { return &o.CustomerID })
//	field.Column("created_at", func(o *Order) *time.Time { return &o.CreatedAt }).ReadOnly()
//
// # Options
//
//	Key()            // the column is part of the primary key
//	AutoIncrement()  // the key value is generated by the database
//	ReadOnly()       // the column is never written
//	Getter(fn)       // custom read accessor; errors surface as accessor errors
//
// # Nullability
//
// A value is treated as SQL NULL when it is nil, a nil pointer, or a
// driver.Valuer whose Value method returns nil (for example an invalid
// sql.NullString). NULL values are omitted from INSERT and UPDATE statements.
package field
