package database

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the engine for one backing database and verifies it with a ping.
func Connect(cfg Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	// Suppress GORM logging; query failures are reported by the sync runner
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database %s: %w", cfg.Name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Runs are sequential; a small pool is enough
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(4)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), timeout(cfg))
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return db, nil
}

// Dialector builds the GORM dialector for the configured driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLServer, "":
		return sqlserver.Open(SQLServerDSN(cfg)), nil
	case DriverMySQL:
		return mysql.Open(MySQLDSN(cfg)), nil
	case DriverPostgres:
		pgCfg, err := pgx.ParseConfig(PostgresDSN(cfg))
		if err != nil {
			return nil, fmt.Errorf("invalid postgres configuration for %s: %w", cfg.Name, err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*pgCfg)}), nil
	case DriverSQLite:
		return sqlite.Open(cfg.Database), nil
	default:
		return nil, fmt.Errorf("unsupported driver %q for database %s", cfg.Driver, cfg.Name)
	}
}

// SQLServerDSN builds a sqlserver:// URL. Without a username the driver uses
// integrated authentication (a trusted connection).
func SQLServerDSN(cfg Config) string {
	u := &url.URL{Scheme: "sqlserver", Host: cfg.Address}
	if host, instance, ok := strings.Cut(cfg.Address, `\`); ok {
		u.Host = host
		u.Path = "/" + instance
	}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}

	q := url.Values{}
	q.Set("database", cfg.Database)
	q.Set("connection timeout", strconv.Itoa(timeoutSeconds(cfg)))
	q.Set("app name", "sheet-sync")
	u.RawQuery = q.Encode()
	return u.String()
}

// MySQLDSN builds a go-sql-driver DSN:
// [username[:password]@][protocol[(address)]]/dbname[?params]
func MySQLDSN(cfg Config) string {
	// Special characters in the password must be URL encoded
	userInfo := url.UserPassword(cfg.Username, cfg.Password).String()
	address := cfg.Address
	if !strings.Contains(address, ":") {
		address += ":3306"
	}
	t := timeoutSeconds(cfg)
	return fmt.Sprintf("%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, address, cfg.Database, t, t, t)
}

// PostgresDSN builds a postgres:// URL accepted by pgx.ParseConfig.
func PostgresDSN(cfg Config) string {
	u := &url.URL{Scheme: "postgres", Host: cfg.Address, Path: "/" + cfg.Database}
	if cfg.Username != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	q := url.Values{}
	q.Set("connect_timeout", strconv.Itoa(timeoutSeconds(cfg)))
	q.Set("application_name", "sheet-sync")
	u.RawQuery = q.Encode()
	return u.String()
}

func timeoutSeconds(cfg Config) int {
	if cfg.TimeoutSeconds <= 0 {
		return 30
	}
	return cfg.TimeoutSeconds
}

func timeout(cfg Config) time.Duration {
	return time.Duration(timeoutSeconds(cfg)) * time.Second
}
