// Package config provides configuration management for sheet-sync.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file. Defaults come from the `default` struct tags of each section.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Catalog: where the query catalog and SQL files live (directory or bucket)
//   - Sources: backing database names, chunk size and default timeout
//   - Databases: per-source connection settings read from <NAME>_DRIVER, <NAME>_ADDRESS,
//     <NAME>_DATABASE, <NAME>_USERNAME, <NAME>_PASSWORD
//   - Smartsheet: API key, base URL and request rate
//   - Schedule: cron spec for the serve command
//   - Server: status API port and key
//   - Storage: S3/MinIO credentials
//   - Log: logging level, format and output
//
// The configuration is assembled once at startup and passed to constructors; no other
// package reads the process environment.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
