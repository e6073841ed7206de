// Package constants provides shared constants for the dcf-calculator application.
package constants

// Forecast horizon bounds
const (
	// MinForecastYears is the shortest accepted forecast horizon
	MinForecastYears = 1

	// MaxForecastYears is the longest accepted forecast horizon
	MaxForecastYears = 30
)

// Financial constants
const (
	// PercentageMultiplier converts percentage inputs to fractional rates
	PercentageMultiplier = 100.0

	// CurrencyDecimalPlaces is the precision for monetary output rounding
	CurrencyDecimalPlaces = 2

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Output format constants
const (
	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"

	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024
)
