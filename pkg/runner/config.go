package runner

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lcalzada-xor/xssdynagen/pkg/config"
)

// Options holds all configuration options for the runner
type Options struct {
	// Input
	Domain  string `yaml:"domain"`
	URLList string `yaml:"url_list"`

	// Scanning
	MaxConnections int           `yaml:"connections"`
	BatchSize      int           `yaml:"batch_size"`
	Timeout        time.Duration `yaml:"timeout"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	RateLimit      float64       `yaml:"rate_limit"`
	Proxy          string        `yaml:"proxy"`
	Headers        []string      `yaml:"headers"`
	CharFile       string        `yaml:"char_file"`

	// Generation
	StrictJS bool `yaml:"strict_js"`
	NoWAF    bool `yaml:"no_waf"`

	// Output
	OutputName  string `yaml:"output"`
	OutputDir   string `yaml:"output_dir"`
	ReportFile  string `yaml:"report"`
	LogFile     string `yaml:"log_file"`
	Verbose     bool   `yaml:"verbose"`
	VeryVerbose bool   `yaml:"very_verbose"`
	Silent      bool   `yaml:"silent"`
}

// DefaultOptions returns a new Options struct with default values
func DefaultOptions() *Options {
	return &Options{
		MaxConnections: config.DefaultMaxConnections,
		BatchSize:      config.DefaultBatchSize,
		Timeout:        config.DefaultSessionTimeout,
		ProbeTimeout:   config.DefaultProbeTimeout,
		CacheTTL:       config.DefaultCacheTTL,
		OutputName:     config.DefaultOutputName,
		OutputDir:      config.DefaultOutputDir,
		LogFile:        config.DefaultLogFile,
	}
}

// LoadOptions overlays the YAML file at path onto opts. Keys absent from
// the file keep their current values.
func LoadOptions(path string, opts *Options) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, opts); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// normalize replaces invalid numeric settings with their defaults
func (o *Options) normalize() {
	if o.MaxConnections <= 0 {
		o.MaxConnections = config.DefaultMaxConnections
	}
	if o.BatchSize <= 0 {
		o.BatchSize = config.DefaultBatchSize
	}
	if o.Timeout <= 0 {
		o.Timeout = config.DefaultSessionTimeout
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = config.DefaultProbeTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = config.DefaultCacheTTL
	}
	if o.OutputName == "" {
		o.OutputName = config.DefaultOutputName
	}
	if o.OutputDir == "" {
		o.OutputDir = config.DefaultOutputDir
	}
}

// verboseLevel maps the verbosity flags to a logger level
func (o *Options) verboseLevel() int {
	switch {
	case o.VeryVerbose:
		return 2
	case o.Verbose:
		return 1
	default:
		return 0
	}
}

// headerMap parses "Name: Value" headers. Malformed entries are returned
// separately so they can be reported.
func (o *Options) headerMap() (map[string]string, []string) {
	headers := make(map[string]string)
	var bad []string
	for _, h := range o.Headers {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			bad = append(bad, h)
			continue
		}
		headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return headers, bad
}
