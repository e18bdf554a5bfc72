// Package config provides configuration management for stylus-vinyl.
//
// This package handles:
//   - Loading and saving settings as JSON, or TOML for ".toml" paths
//   - Default configuration values
//   - VINYL_* environment overrides, optionally read from a .env file
//   - Conversion to the options of the catalog, cover and source packages
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.toml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	_ = config.LoadDotEnv(".env")
//	if err := settings.ApplyEnv(); err != nil { ... }
//	if err := settings.Validate(); err != nil { ... }
//
// # Saving Settings
//
//	settings.Sources = []config.SourceSettings{{Type: "csv", Location: "catalog.csv"}}
//	err := settings.Save("/path/to/config.json")
package config
