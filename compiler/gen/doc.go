// Package gen generates table definitions for dao-tagged struct types.
//
// For each entity loaded by the load package, gen writes a file named
// <entity>_dao.go next to the entity. The file declares a function that
// builds the schema.Definition with typed field references, so the
// definition carries no reflection at run time:
//
//	// OrderDefinition returns the table definition of Order.
//	func OrderDefinition() *schema.Definition[Order] {
//		return schema.New[Order](new(Order).TableName(),
//			field.Key("id", func(e *Order) *int64 {
//				return &e.ID
//			}).AutoIncrement().Name("ID"),
//			field.Column("status", func(e *Order) *string {
//				return &e.Status
//			}).Name("Status"),
//		)
//	}
//
// # Pipeline
//
//	Go package (models/*.go)
//	        ↓
//	   load.Config.Load (go/packages)
//	        ↓
//	   Render (jennifer)
//	        ↓
//	   Writer (goimports, parallel writes)
//
// Accessor methods follow the rules of schema.FromStruct: a Get<Field> or
// Is<Field> method reads the value and a Set<Field> method receives it
// after a scan.
//
// # Usage
//
//	cfg, err := gen.NewConfig(gen.WithTarget("./models"))
//	if err != nil {
//		return err
//	}
//	pkg, err := (&load.Config{Path: "./models"}).Load(ctx)
//	if err != nil {
//		return err
//	}
//	files, err := gen.Generate(ctx, pkg, cfg)
package gen
