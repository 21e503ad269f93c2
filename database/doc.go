// Package database streams SQL query results through streamkit.
//
// A DB wraps a GORM connection (SQLite via gorm.io/driver/sqlite). Rows of
// any query become an async stream, scanned one row per pull:
//
//	db, err := database.Open(ctx, database.Config{DSN: "events.db"}, log)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.MigrateUp(migrations, "migrations"); err != nil {
//	    return err
//	}
//
//	counts, err := stream.IntoAsync(ctx,
//	    stream.MapToAsync(database.NewRowStream[Event](db, func(tx *gorm.DB) *gorm.DB {
//	        return tx.Table("events").Order("id")
//	    }), func(e Event) string { return e.Kind }),
//	    stream.ToCounter[string]())
//
// Migrations are plain SQL files applied with golang-migrate.
package database
