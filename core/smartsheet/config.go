package smartsheet

// Config holds configuration for the Smartsheet API client.
type Config struct {
	// ApiKey is the API access token.
	ApiKey string `mapstructure:"api_key" default:""`
	// BaseURL is the API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.smartsheet.com/2.0"`
	// TimeoutSeconds bounds every API request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// RequestsPerMinute caps the request rate; 0 disables the limiter.
	RequestsPerMinute int `mapstructure:"requests_per_minute" default:"300"`
}
