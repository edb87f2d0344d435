package contract

import (
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/huangsam/archivepulse/schema"
)

// Default values for configuration.
const (
	DefaultIndexEndpoint = "https://web.archive.org/cdx/search/cdx"
	DefaultMaxPages      = 2000
	DefaultTimeout       = 60 * time.Second
	DefaultResultLimit   = 30
	MaxResultLimit       = 100000
	DefaultPrecision     = 5
	MaxPrecision         = 10
	DefaultCacheTTL      = 7 * 24 * time.Hour
	DefaultServeAddr     = "127.0.0.1:8080"
)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// SigmoidParamsRaw holds an optional override for one curve category.
// Fields left out of the config file keep their defaults.
type SigmoidParamsRaw struct {
	Shift  *float64 `mapstructure:"shift"`
	Slope  *float64 `mapstructure:"slope"`
	Spread *float64 `mapstructure:"spread"`
}

// Config holds the runtime configuration for one pipeline run.
// This struct remains the "final, validated" config.
type Config struct {
	TargetURL string

	FillLimit  int // -1 = unlimited, 0 = disabled
	FillPolicy schema.FillPolicy
	AsOf       time.Time // Zero means today
	SigParams  map[schema.Category]schema.SigmoidParams

	IndexEndpoint string
	MaxPages      int
	Timeout       time.Duration

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
	CacheTTL       time.Duration

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	MetricsFile string
	Addr        string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	TargetURLStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Fill             int    `mapstructure:"fill"`
	Policy           string `mapstructure:"policy"`
	AsOf             string `mapstructure:"as-of"`
	IndexEndpoint    string `mapstructure:"index-endpoint"`
	MaxPages         int    `mapstructure:"max-pages"`
	Timeout          string `mapstructure:"timeout"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	CacheTTL         string `mapstructure:"cache-ttl"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	MetricsFile      string `mapstructure:"metrics-file"`

	// --- Fields from serveCmd.Flags() ---
	Addr string `mapstructure:"addr"`

	// --- Curve overrides from config file ---
	SigParams map[string]SigmoidParamsRaw `mapstructure:"sigparams"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.SigParams != nil {
		clone.SigParams = make(map[schema.Category]schema.SigmoidParams, len(c.SigParams))
		maps.Copy(clone.SigParams, c.SigParams)
	}
	return &clone
}

// Today returns the as-of day, defaulting to the current local day.
func (c *Config) Today() time.Time {
	if c.AsOf.IsZero() {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	return c.AsOf
}

// TrendParams returns the parameters that fill and curve stages depend on.
func (c *Config) TrendParams() schema.TrendParams {
	sig := make(map[schema.Category]schema.SigmoidParams, len(c.SigParams))
	maps.Copy(sig, c.SigParams)
	return schema.TrendParams{
		FillLimit:  c.FillLimit,
		FillPolicy: c.FillPolicy,
		SigParams:  sig,
		AsOf:       c.Today(),
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processFetchOptions(cfg, input); err != nil {
		return err
	}
	if err := processTrendOptions(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveTargetURL(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ProcessSigParams merges raw overrides into the default parameter table and validates the result.
func ProcessSigParams(raw map[string]SigmoidParamsRaw) (map[schema.Category]schema.SigmoidParams, error) {
	params := schema.DefaultSigmoidParams()
	for key, override := range raw {
		category := schema.Category(key)
		if _, ok := schema.ValidCategories[category]; !ok {
			return nil, fmt.Errorf("invalid sigparams category '%s'", key)
		}
		p := params[category]
		if override.Shift != nil {
			p.Shift = *override.Shift
		}
		if override.Slope != nil {
			p.Slope = *override.Slope
		}
		if override.Spread != nil {
			p.Spread = *override.Spread
		}
		params[category] = p
	}
	if err := schema.ValidateSigmoidParams(params); err != nil {
		return nil, err
	}
	return params, nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// validateSimpleInputs processes and validates the presentation fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	cfg.Addr = input.Addr
	if cfg.Addr == "" {
		cfg.Addr = DefaultServeAddr
	}
	return nil
}

// processFetchOptions validates the index endpoint, page cap and timeout.
func processFetchOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.IndexEndpoint = strings.TrimSpace(input.IndexEndpoint)
	if cfg.IndexEndpoint == "" {
		cfg.IndexEndpoint = DefaultIndexEndpoint
	}
	u, err := url.Parse(cfg.IndexEndpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid index endpoint '%s'. must be an absolute http(s) URL", input.IndexEndpoint)
	}

	if input.MaxPages < 1 || input.MaxPages > DefaultMaxPages {
		return fmt.Errorf("max-pages must be between 1 and %d (received %d)", DefaultMaxPages, input.MaxPages)
	}
	cfg.MaxPages = input.MaxPages

	cfg.Timeout = DefaultTimeout
	if input.Timeout != "" {
		timeout, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		if timeout <= 0 {
			return fmt.Errorf("timeout must be greater than 0 (received %s)", input.Timeout)
		}
		cfg.Timeout = timeout
	}
	return nil
}

// processTrendOptions validates fill, policy, as-of and the curve parameters.
func processTrendOptions(cfg *Config, input *ConfigRawInput) error {
	if input.Fill < -1 {
		return fmt.Errorf("fill must be -1 (unlimited), 0 (disabled) or a positive day count (received %d)", input.Fill)
	}
	cfg.FillLimit = input.Fill

	policy, err := ParseFillPolicy(input.Policy)
	if err != nil {
		return err
	}
	cfg.FillPolicy = policy

	cfg.AsOf = time.Time{}
	if input.AsOf != "" {
		asOf, err := schema.ParseDay(input.AsOf)
		if err != nil {
			return fmt.Errorf("invalid as-of date '%s'. expected YYYY-MM-DD: %w", input.AsOf, err)
		}
		cfg.AsOf = asOf
	}

	params, err := ProcessSigParams(input.SigParams)
	if err != nil {
		return err
	}
	cfg.SigParams = params
	return nil
}

// ParseFillPolicy parses a policy name, defaulting to identical when empty.
func ParseFillPolicy(s string) (schema.FillPolicy, error) {
	if s == "" {
		return schema.FillIdentical, nil
	}
	policy := schema.FillPolicy(strings.ToLower(s))
	if _, ok := schema.ValidFillPolicies[policy]; !ok {
		return "", fmt.Errorf("invalid fill policy '%s'. must be identical, closest, forward, backward", s)
	}
	return policy, nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidCacheBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.CacheTTL = DefaultCacheTTL
	if input.CacheTTL != "" {
		ttl, err := time.ParseDuration(input.CacheTTL)
		if err != nil {
			return fmt.Errorf("invalid cache-ttl '%s': %w", input.CacheTTL, err)
		}
		if ttl < 0 {
			return fmt.Errorf("cache-ttl cannot be negative (received %s)", input.CacheTTL)
		}
		cfg.CacheTTL = ttl
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidCacheBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share a database
	if cfg.CacheBackend == cfg.HistoryBackend && cfg.CacheBackend != schema.NoneBackend {
		cachePath := cfg.CacheDBConnect
		historyPath := cfg.HistoryDBConnect
		if cfg.CacheBackend == schema.SQLiteBackend {
			if cachePath == "" {
				cachePath = GetCacheDBFilePath()
			}
			if historyPath == "" {
				historyPath = GetHistoryDBFilePath()
			}
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different databases. Both resolve to %q", cachePath)
		}
	}

	return nil
}

// resolveTargetURL trims and checks the positional URL. Commands without one leave it empty.
func resolveTargetURL(cfg *Config, input *ConfigRawInput) error {
	target := strings.TrimSpace(input.TargetURLStr)
	if strings.ContainsAny(target, " \t\n") {
		return fmt.Errorf("target URL cannot contain whitespace: %q", input.TargetURLStr)
	}
	cfg.TargetURL = target
	return nil
}

// TrendOverrides are the per-request pipeline inputs accepted by the servers.
// Nil or empty fields keep the base configuration.
type TrendOverrides struct {
	TargetURL string
	Fill      *int
	Policy    string
	AsOf      string
}

// ApplyTrendOverrides validates the overrides and applies them to cfg.
// Callers pass a clone so the base configuration stays untouched.
func ApplyTrendOverrides(cfg *Config, o TrendOverrides) error {
	if err := resolveTargetURL(cfg, &ConfigRawInput{TargetURLStr: o.TargetURL}); err != nil {
		return err
	}
	if cfg.TargetURL == "" {
		return fmt.Errorf("url is required")
	}

	if o.Fill != nil {
		if *o.Fill < -1 {
			return fmt.Errorf("fill must be -1 (unlimited), 0 (disabled) or a positive day count (received %d)", *o.Fill)
		}
		cfg.FillLimit = *o.Fill
	}

	if o.Policy != "" {
		policy, err := ParseFillPolicy(o.Policy)
		if err != nil {
			return err
		}
		cfg.FillPolicy = policy
	}

	if o.AsOf != "" {
		asOf, err := schema.ParseDay(o.AsOf)
		if err != nil {
			return fmt.Errorf("invalid as_of date '%s'. expected YYYY-MM-DD: %w", o.AsOf, err)
		}
		cfg.AsOf = asOf
	}
	return nil
}
