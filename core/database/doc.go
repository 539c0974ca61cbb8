// Package database handles the source databases queries are run against.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to configure
// SQL Server, MySQL, Postgres (through pgx) and SQLite engines from explicit
// configuration, and streams query results as reconcile.RowBatch values.
//
// # Connect
//
// Connect builds the driver specific connection string (SQLServerDSN, MySQLDSN,
// PostgresDSN), opens the engine and verifies it with a ping. A SQL Server source
// without a username uses a trusted connection.
//
// # Pool
//
// Pool holds one engine per backing database, created once at startup and reused by
// every catalog entry that targets it. Execute returns a lazy iter.Seq2 of batches
// bounded by the configured chunk size.
//
// # Usage
//
//	pool := database.Open(cfg.Databases, cfg.Sources.ChunkSize, log)
//	for batch, err := range pool.Execute(ctx, "dw", sql) {
//	    ...
//	}
package database
