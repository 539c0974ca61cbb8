package catalog

// Config holds the location of the query catalog.
type Config struct {
	// Path is the catalog file (.json, .yaml, .yml or .toml).
	Path string `mapstructure:"path" default:"queries/queries.json"`
	// SQLDir is the directory SQL references are resolved against.
	SQLDir string `mapstructure:"sql_dir" default:"queries"`
	// Root is the local directory Path and SQLDir are relative to.
	Root string `mapstructure:"root" default:"."`
	// Bucket reads the catalog from object storage instead of Root when set.
	Bucket string `mapstructure:"bucket" default:""`
}
