package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const (
	// MountsEnv overrides exporter.mounts when set.
	MountsEnv = "SQUO_MOUNTS"

	defaultLogLevel      = "info"
	defaultLogFormat     = "line"
	defaultListen        = "0.0.0.0:9100"
	defaultMetricsPath   = "/metrics"
	defaultMounts        = "/"
	defaultScrapeTimeout = 5 * time.Second
	defaultPprofListen   = "127.0.0.1:6060"
)

// Duration wraps time.Duration for TOML parsing.
// Params: text duration string (e.g. "5s", "1m").
// Returns: parse error on invalid duration.
type Duration struct {
	time.Duration
}

// UnmarshalText parses TOML duration values.
// Params: text is raw duration bytes from TOML.
// Returns: error when value is not a valid Go duration.
func (d *Duration) UnmarshalText(text []byte) error {
	value := strings.TrimSpace(string(text))
	if value == "" {
		d.Duration = 0
		return nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value, err)
	}

	d.Duration = parsed
	return nil
}

// Config represents the root exporter configuration.
// Params: TOML document sections.
// Returns: validated runtime configuration.
type Config struct {
	Exporter ExporterConfig `toml:"exporter"`
	Log      LogConfig      `toml:"log"`
	Pprof    PprofConfig    `toml:"pprof"`
}

// ExporterConfig defines the scrape endpoint and collector inputs.
// Params: listen address, HTTP path, mount list, scrape timeout, and device exclusions.
// Returns: exporter runtime settings.
type ExporterConfig struct {
	Listen         string   `toml:"listen"`
	Path           string   `toml:"path"`
	Mounts         string   `toml:"mounts"`
	ScrapeTimeout  Duration `toml:"scrape_timeout"`
	ExcludeDevices []string `toml:"exclude_devices"`
}

// PprofConfig defines optional runtime pprof HTTP endpoint.
// Params: enabled flag and listen address in host:port format.
// Returns: pprof runtime settings.
type PprofConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`
}

// LogConfig contains console/file logging configuration.
// Params: console and file sink options.
// Returns: logger sink settings.
type LogConfig struct {
	Console LogSinkConfig `toml:"console"`
	File    LogSinkConfig `toml:"file"`
}

// LogSinkConfig defines one logging sink.
// Params: sink options from TOML.
// Returns: sink setup.
type LogSinkConfig struct {
	Enabled bool   `toml:"enabled"`
	Level   string `toml:"level"`
	Format  string `toml:"format"`
	Path    string `toml:"path"`
}

// Load reads, expands, validates, and returns config from path.
// Params: path to TOML config file or directory with *.toml files; empty path uses defaults only.
// Returns: validated config pointer or error.
func Load(path string) (*Config, error) {
	var cfg Config

	if strings.TrimSpace(path) != "" {
		raw, err := readConfigSource(path)
		if err != nil {
			return nil, err
		}

		expanded := os.ExpandEnv(string(raw))
		if err := toml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("decode TOML %q: %w", path, err)
		}
	}

	cfg.applyEnv(os.LookupEnv)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns validated defaults merged with environment overrides.
// Params: none.
// Returns: config pointer or validation error.
func Default() (*Config, error) {
	return Load("")
}

// readConfigSource reads one TOML file or concatenates *.toml files from directory.
// Params: path to config file or directory.
// Returns: raw TOML bytes or error.
func readConfigSource(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config %q: %w", path, err)
	}

	if !info.IsDir() {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read config %q: %w", path, readErr)
		}
		return raw, nil
	}

	return readConfigDir(path)
}

// readConfigDir concatenates config snippets from one directory.
// Params: path to directory that contains *.toml files.
// Returns: concatenated TOML content or error.
func readConfigDir(path string) ([]byte, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read config dir %q: %w", path, err)
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".toml") {
			files = append(files, entry.Name())
		}
	}

	sort.Strings(files)
	if len(files) == 0 {
		return nil, fmt.Errorf("read config dir %q: no *.toml files", path)
	}

	var builder strings.Builder
	for _, name := range files {
		filePath := filepath.Join(path, name)
		raw, readErr := os.ReadFile(filePath)
		if readErr != nil {
			return nil, fmt.Errorf("read config %q: %w", filePath, readErr)
		}
		builder.Write(raw)
		if len(raw) == 0 || raw[len(raw)-1] != '\n' {
			builder.WriteByte('\n')
		}
		builder.WriteByte('\n')
	}

	return []byte(builder.String()), nil
}

// applyEnv applies environment overrides on top of file values.
// Params: lookup resolves environment variables.
// Returns: none.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if mounts, ok := lookup(MountsEnv); ok && strings.TrimSpace(mounts) != "" {
		c.Exporter.Mounts = mounts
	}
}

// applyDefaults fills defaults for optional configuration fields.
// Params: receiver config pointer.
// Returns: none.
func (c *Config) applyDefaults() {
	c.Log.Console.Level = lowerOrDefault(c.Log.Console.Level, defaultLogLevel)
	c.Log.Console.Format = lowerOrDefault(c.Log.Console.Format, defaultLogFormat)
	c.Log.File.Level = lowerOrDefault(c.Log.File.Level, defaultLogLevel)
	c.Log.File.Format = lowerOrDefault(c.Log.File.Format, "json")

	if !c.Log.Console.Enabled && !c.Log.File.Enabled {
		c.Log.Console.Enabled = true
	}

	if strings.TrimSpace(c.Exporter.Listen) == "" {
		c.Exporter.Listen = defaultListen
	}
	if strings.TrimSpace(c.Exporter.Path) == "" {
		c.Exporter.Path = defaultMetricsPath
	}
	if strings.TrimSpace(c.Exporter.Mounts) == "" {
		c.Exporter.Mounts = defaultMounts
	}
	if c.Exporter.ScrapeTimeout.Duration == 0 {
		c.Exporter.ScrapeTimeout.Duration = defaultScrapeTimeout
	}

	if c.Pprof.Enabled && strings.TrimSpace(c.Pprof.Listen) == "" {
		c.Pprof.Listen = defaultPprofListen
	}
}

// validate checks config consistency and required fields.
// Params: receiver config pointer.
// Returns: validation error for invalid or incomplete config.
func (c *Config) validate() error {
	if err := validateSink("log.console", c.Log.Console, false); err != nil {
		return err
	}
	if err := validateSink("log.file", c.Log.File, true); err != nil {
		return err
	}
	if err := validateExporterConfig("exporter", c.Exporter); err != nil {
		return err
	}
	if err := validatePprofConfig("pprof", c.Pprof); err != nil {
		return err
	}
	if c.Pprof.Enabled && c.Pprof.Listen == c.Exporter.Listen {
		return fmt.Errorf("pprof.listen must differ from exporter.listen")
	}

	return nil
}

// validateExporterConfig validates scrape endpoint settings.
// Params: path is config path prefix; cfg exporter section.
// Returns: validation error or nil.
func validateExporterConfig(path string, cfg ExporterConfig) error {
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return fmt.Errorf("%s.listen must be host:port: %w", path, err)
	}
	if !strings.HasPrefix(cfg.Path, "/") {
		return fmt.Errorf("%s.path must start with '/'", path)
	}
	if cfg.ScrapeTimeout.Duration < 0 {
		return fmt.Errorf("%s.scrape_timeout must be > 0", path)
	}
	for _, mount := range strings.Fields(cfg.Mounts) {
		if !filepath.IsAbs(mount) {
			return fmt.Errorf("%s.mounts: %q must be an absolute path", path, mount)
		}
	}
	for idx, pattern := range cfg.ExcludeDevices {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%s.exclude_devices[%d] cannot be empty", path, idx)
		}
	}
	return nil
}

// validateSink validates one logging sink configuration.
// Params: name is sink path for errors; sink is sink config; requirePath means path required when enabled.
// Returns: validation error or nil.
func validateSink(name string, sink LogSinkConfig, requirePath bool) error {
	if sink.Enabled && requirePath && strings.TrimSpace(sink.Path) == "" {
		return fmt.Errorf("%s.path is required when sink is enabled", name)
	}

	if err := validateLogLevel(sink.Level); err != nil {
		return fmt.Errorf("%s.level: %w", name, err)
	}
	if err := validateLogFormat(sink.Format); err != nil {
		return fmt.Errorf("%s.format: %w", name, err)
	}

	return nil
}

// validateLogLevel validates known log levels.
// Params: level is lower-case level name.
// Returns: error when level is unsupported.
func validateLogLevel(level string) error {
	switch strings.TrimSpace(strings.ToLower(level)) {
	case "info", "warn", "error", "debug":
		return nil
	default:
		return fmt.Errorf("unsupported value %q", level)
	}
}

// validateLogFormat validates supported sink formats.
// Params: format is lower-case format name.
// Returns: error when format is unsupported.
func validateLogFormat(format string) error {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "line", "json":
		return nil
	default:
		return fmt.Errorf("unsupported value %q", format)
	}
}

// validatePprofConfig validates optional pprof endpoint settings.
// Params: path is config path prefix; cfg pprof section.
// Returns: validation error for invalid listen endpoint.
func validatePprofConfig(path string, cfg PprofConfig) error {
	if !cfg.Enabled {
		return nil
	}
	if strings.TrimSpace(cfg.Listen) == "" {
		return fmt.Errorf("%s.listen cannot be empty when enabled", path)
	}
	if _, _, err := net.SplitHostPort(cfg.Listen); err != nil {
		return fmt.Errorf("%s.listen must be host:port: %w", path, err)
	}
	return nil
}

// lowerOrDefault returns a trimmed lower-case value or default fallback.
// Params: value to normalize; fallback value when empty.
// Returns: normalized value.
func lowerOrDefault(value, fallback string) string {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return fallback
	}
	return normalized
}
