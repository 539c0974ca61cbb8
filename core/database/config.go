package database

// Supported drivers.
const (
	DriverSQLServer = "sqlserver"
	DriverMySQL     = "mysql"
	DriverPostgres  = "postgres"
	DriverSQLite    = "sqlite"
)

// Config holds configuration for one backing database.
// It is assembled by core/config from <NAME>_* environment variables.
type Config struct {
	// Name is the source identifier used by catalog entries (e.g. "dw").
	Name string
	// Driver is the database driver (sqlserver, mysql, postgres, sqlite).
	Driver string
	// Address is the server address, host[:port] or host\instance for SQL Server.
	Address string
	// Database is the database name, or the file path for sqlite.
	Database string
	// Username is the database user. Empty means a trusted connection on SQL Server.
	Username string
	// Password is the database password.
	Password string
	// TimeoutSeconds is the connection and I/O timeout in seconds.
	TimeoutSeconds int
}

// SourcesConfig lists the backing databases and shared source settings.
type SourcesConfig struct {
	// Names is the comma separated list of source identifiers.
	Names string `mapstructure:"names" default:"dw,qnxt"`
	// ChunkSize is the number of rows per batch.
	ChunkSize int `mapstructure:"chunk_size" default:"1000"`
	// TimeoutSeconds is the default connection timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
