package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database DSN
//	-tz civil timezone name for ledger timestamps
//	-fallback-category category assigned to unclassified receipt items
//	-c/-config json file path with configs
//	-parser-base-url expense parser API base URL
//	-parser-api-key expense parser API key
//	-parser-model expense parser model identifier
//	-parser-timeout expense parser request timeout (e.g., "15s")
//	-query-timeout store operation timeout (e.g., "30s", "1m")
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var timezone string
	var fallbackCategory string
	var jsonConfigPath string
	var parserBaseURL string
	var parserAPIKey string
	var parserModel string
	var parserTimeout time.Duration
	var queryTimeout time.Duration

	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&timezone, "tz", "", "Civil timezone for ledger timestamps")
	flag.StringVar(&fallbackCategory, "fallback-category", "", "Category for unclassified receipt items")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&parserBaseURL, "parser-base-url", "", "Expense parser API base URL")
	flag.StringVar(&parserAPIKey, "parser-api-key", "", "Expense parser API key")
	flag.StringVar(&parserModel, "parser-model", "", "Expense parser model identifier")
	flag.DurationVar(&parserTimeout, "parser-timeout", 0, "Expense parser request timeout (e.g., 15s)")
	flag.DurationVar(&queryTimeout, "query-timeout", 0, "Store operation timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Timezone:         timezone,
			FallbackCategory: fallbackCategory,
		},
		Storage: Storage{
			DB: DB{
				DSN:          databaseDSN,
				QueryTimeout: queryTimeout,
			},
		},
		Parser: Parser{
			BaseURL:        parserBaseURL,
			APIKey:         parserAPIKey,
			Model:          parserModel,
			RequestTimeout: parserTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}
}
