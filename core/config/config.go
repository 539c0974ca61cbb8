package config

import (
	"fmt"
	"reflect"
	"strings"

	"sheet-sync/core/catalog"
	"sheet-sync/core/database"
	"sheet-sync/core/logger"
	"sheet-sync/core/server"
	"sheet-sync/core/smartsheet"
	"sheet-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the status HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage the catalog may live in.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Catalog holds the location of the query catalog.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Smartsheet holds configuration for the remote table API.
	Smartsheet smartsheet.Config `mapstructure:"smartsheet"`
	// Sources lists the backing databases and batch settings.
	Sources database.SourcesConfig `mapstructure:"sources"`
	// Schedule holds the periodic run settings used by the serve command.
	Schedule ScheduleConfig `mapstructure:"schedule"`

	// Databases is the per-source connection configuration, one entry per Sources.Names.
	Databases []database.Config `mapstructure:"-"`
}

// ScheduleConfig holds the periodic run settings.
type ScheduleConfig struct {
	// Cron is the run schedule (standard 5-field spec or descriptor like @hourly).
	Cron string `mapstructure:"cron" default:"@hourly"`
	// RunOnStart triggers one run as soon as the scheduler starts.
	RunOnStart bool `mapstructure:"run_on_start" default:"true"`
}

// databaseKeys are the per-source settings read as <NAME>_<KEY>.
var databaseKeys = []string{"driver", "address", "database", "username", "password", "timeout_seconds"}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SMARTSHEET_API_KEY -> smartsheet.api_key)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	databases, err := loadDatabases(v, config.Sources)
	if err != nil {
		return nil, err
	}
	config.Databases = databases

	return &config, nil
}

// loadDatabases assembles one database.Config per configured source name. Both
// DW_ADDRESS and dw_ADDRESS spellings are accepted.
func loadDatabases(v *viper.Viper, sources database.SourcesConfig) ([]database.Config, error) {
	var out []database.Config
	seen := make(map[string]struct{})

	for _, name := range strings.Split(sources.Names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("source %q listed twice", name)
		}
		seen[name] = struct{}{}

		for _, key := range databaseKeys {
			suffix := "_" + strings.ToUpper(key)
			if err := v.BindEnv(name+"."+key, strings.ToUpper(name)+suffix, name+suffix); err != nil {
				return nil, err
			}
		}
		v.SetDefault(name+".driver", database.DriverSQLServer)
		v.SetDefault(name+".timeout_seconds", sources.TimeoutSeconds)

		out = append(out, database.Config{
			Name:           name,
			Driver:         strings.ToLower(v.GetString(name + ".driver")),
			Address:        v.GetString(name + ".address"),
			Database:       v.GetString(name + ".database"),
			Username:       v.GetString(name + ".username"),
			Password:       v.GetString(name + ".password"),
			TimeoutSeconds: v.GetInt(name + ".timeout_seconds"),
		})
	}

	return out, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip untagged and explicitly ignored fields
		if tag == "" || tag == "-" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
