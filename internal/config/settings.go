package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/handiism/stylus-vinyl/internal/catalog"
	"github.com/handiism/stylus-vinyl/internal/cover"
	"github.com/handiism/stylus-vinyl/internal/source"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VINYL_"

// SourceSettings describes one catalog source.
type SourceSettings struct {
	Type     string `json:"type" toml:"type"` // gviz, csv, tags
	Location string `json:"location" toml:"location"`
	Name     string `json:"name,omitempty" toml:"name,omitempty"`
}

// Settings holds all configuration options.
type Settings struct {
	// Catalog settings
	Sources         []SourceSettings `json:"sources" toml:"sources"`
	PageSize        int              `json:"page_size" toml:"page_size"`
	ShufflePolicy   string           `json:"shuffle_policy" toml:"shuffle_policy"` // every-query, once-per-load
	GenreMode       string           `json:"genre_mode" toml:"genre_mode"`         // single, multi
	FullSetMeansAll bool             `json:"full_set_means_all" toml:"full_set_means_all"`
	SplitOnComma    bool             `json:"split_on_comma" toml:"split_on_comma"`
	Locale          string           `json:"locale" toml:"locale"`

	// Cover settings
	CoverProxy       string `json:"cover_proxy" toml:"cover_proxy"`
	CoverPlaceholder string `json:"cover_placeholder" toml:"cover_placeholder"`
	CoverAssetBase   string `json:"cover_asset_base" toml:"cover_asset_base"`
	CoverMaxSize     int    `json:"cover_max_size" toml:"cover_max_size"`
	CoversPath       string `json:"covers_path" toml:"covers_path"`

	// Fetch settings
	FetchTimeout         float64 `json:"fetch_timeout" toml:"fetch_timeout"` // seconds
	FetchMaxRetries      int     `json:"fetch_max_retries" toml:"fetch_max_retries"`
	FetchRetryCooldown   float64 `json:"fetch_retry_cooldown" toml:"fetch_retry_cooldown"`
	FetchRetryExponent   float64 `json:"fetch_retry_exponent" toml:"fetch_retry_exponent"`
	MaxConcurrentFetches int     `json:"max_concurrent_fetches" toml:"max_concurrent_fetches"`

	// Terminal UI settings
	SearchDebounceMs int  `json:"search_debounce_ms" toml:"search_debounce_ms"`
	ShowPreview      bool `json:"show_preview" toml:"show_preview"`
	PreviewCacheSize int  `json:"preview_cache_size" toml:"preview_cache_size"`

	// Logging settings
	LogLevel  string `json:"log_level" toml:"log_level"`
	LogFormat string `json:"log_format" toml:"log_format"` // text, json
	LogFile   string `json:"log_file" toml:"log_file"`
}

// DefaultPath returns the settings file used when no path is given:
// stylus-vinyl/settings.toml under the user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "stylus-vinyl", "settings.toml")
}

// DefaultLogFile returns the log file the TUI writes to when none is set.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "stylus-vinyl", "vinyl.log")
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		PageSize:        40,
		ShufflePolicy:   catalog.ShuffleEveryQuery.String(),
		GenreMode:       catalog.GenreSingle.String(),
		FullSetMeansAll: false,
		Locale:          "ko",

		CoverProxy:       cover.DefaultProxy,
		CoverPlaceholder: cover.DefaultPlaceholder,
		CoverMaxSize:     900,
		CoversPath:       filepath.Join(homeDir, "Pictures", "Vinyl"),

		FetchTimeout:         30,
		FetchMaxRetries:      3,
		FetchRetryCooldown:   0.2,
		FetchRetryExponent:   4.0,
		MaxConcurrentFetches: 4,

		SearchDebounceMs: 200,
		ShowPreview:      true,
		PreviewCacheSize: 64,

		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads settings from a JSON or, for ".toml" paths, TOML file. A
// missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if isTOML(path) {
		if _, err := toml.Decode(string(data), settings); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		return settings, nil
	}

	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return settings, nil
}

// Save writes settings to path, as TOML for ".toml" paths and as JSON
// otherwise.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if isTOML(path) {
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer file.Close()

		if err := toml.NewEncoder(file).Encode(s); err != nil {
			return fmt.Errorf("failed to encode config to TOML: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadDotEnv loads a .env file into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overlays VINYL_* environment variables onto s.
//
// Recognized variables:
//   - VINYL_SOURCE: a single source location, replacing configured sources
//     (the type is taken from VINYL_SOURCE_TYPE, defaulting to gviz)
//   - VINYL_PAGE_SIZE, VINYL_SHUFFLE_POLICY, VINYL_GENRE_MODE
//   - VINYL_COVER_PROXY, VINYL_COVER_ASSET_BASE
//   - VINYL_LOG_LEVEL, VINYL_LOG_FORMAT, VINYL_LOG_FILE
func (s *Settings) ApplyEnv() error {
	if loc := os.Getenv(EnvPrefix + "SOURCE"); loc != "" {
		s.Sources = []SourceSettings{{Type: os.Getenv(EnvPrefix + "SOURCE_TYPE"), Location: loc}}
	}
	if v := os.Getenv(EnvPrefix + "PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sPAGE_SIZE: %w", EnvPrefix, err)
		}
		s.PageSize = n
	}

	strs := map[string]*string{
		"SHUFFLE_POLICY":   &s.ShufflePolicy,
		"GENRE_MODE":       &s.GenreMode,
		"COVER_PROXY":      &s.CoverProxy,
		"COVER_ASSET_BASE": &s.CoverAssetBase,
		"LOG_LEVEL":        &s.LogLevel,
		"LOG_FORMAT":       &s.LogFormat,
		"LOG_FILE":         &s.LogFile,
	}
	for name, dst := range strs {
		if v := os.Getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	return nil
}

// Validate checks if the settings are usable.
func (s *Settings) Validate() error {
	if len(s.Sources) == 0 {
		return fmt.Errorf("at least one source must be configured")
	}
	for i, src := range s.Sources {
		if strings.TrimSpace(src.Location) == "" {
			return fmt.Errorf("source %d: location cannot be empty", i)
		}
		switch strings.ToLower(src.Type) {
		case "", source.TypeGViz, source.TypeCSV, source.TypeTags:
		default:
			return fmt.Errorf("source %d: invalid type %q (must be gviz, csv, or tags)", i, src.Type)
		}
	}
	if s.PageSize < 1 {
		return fmt.Errorf("page size must be at least 1")
	}
	if !strings.EqualFold(s.ShufflePolicy, catalog.ShuffleEveryQuery.String()) && !strings.EqualFold(s.ShufflePolicy, catalog.ShuffleOncePerLoad.String()) {
		return fmt.Errorf("invalid shuffle policy: %s (must be every-query or once-per-load)", s.ShufflePolicy)
	}
	if !strings.EqualFold(s.GenreMode, catalog.GenreSingle.String()) && !strings.EqualFold(s.GenreMode, catalog.GenreMulti.String()) {
		return fmt.Errorf("invalid genre mode: %s (must be single or multi)", s.GenreMode)
	}
	if _, err := language.Parse(s.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", s.Locale, err)
	}
	if s.MaxConcurrentFetches < 1 {
		return fmt.Errorf("max concurrent fetches must be at least 1")
	}
	if s.FetchMaxRetries < 1 {
		return fmt.Errorf("fetch max retries must be at least 1")
	}
	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s", s.LogLevel)
	}
	if s.LogFormat != "text" && s.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", s.LogFormat)
	}
	return nil
}

// Timeout returns the per-request fetch timeout.
func (s *Settings) Timeout() time.Duration {
	return time.Duration(s.FetchTimeout * float64(time.Second))
}

// SearchDebounce returns the delay between the last keystroke and the query.
func (s *Settings) SearchDebounce() time.Duration {
	return time.Duration(s.SearchDebounceMs) * time.Millisecond
}

// ToStoreOptions converts settings to catalog store options.
func (s *Settings) ToStoreOptions(logger logrus.FieldLogger) catalog.Options {
	locale, err := language.Parse(s.Locale)
	if err != nil {
		locale = language.Korean
	}
	return catalog.Options{
		ShufflePolicy:   catalog.ParseShufflePolicy(s.ShufflePolicy),
		GenreMode:       s.ToGenreMode(),
		FullSetMeansAll: s.FullSetMeansAll,
		Locale:          locale,
		SplitOnComma:    s.SplitOnComma,
		Logger:          logger,
	}
}

// ToGenreMode converts the genre mode setting.
func (s *Settings) ToGenreMode() catalog.GenreMode {
	return catalog.ParseGenreMode(s.GenreMode)
}

// ToCoverConfig converts settings to a cover resolver configuration.
func (s *Settings) ToCoverConfig() cover.Config {
	cfg := cover.DefaultConfig()
	if s.CoverProxy != "" {
		cfg.Proxy = s.CoverProxy
	}
	if s.CoverPlaceholder != "" {
		cfg.Placeholder = s.CoverPlaceholder
	}
	cfg.AssetBase = s.CoverAssetBase
	return cfg
}

// ToSourceSpecs converts the configured sources.
func (s *Settings) ToSourceSpecs() []source.Spec {
	specs := make([]source.Spec, len(s.Sources))
	for i, src := range s.Sources {
		specs[i] = source.Spec{Type: src.Type, Location: src.Location, Name: src.Name}
	}
	return specs
}
