// Package config loads urlmd settings from flags, URLMD_* environment
// variables, an optional .urlmd.yaml file and built-in defaults, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gaurav-prasanna/urlmd/core/convert"
	"github.com/gaurav-prasanna/urlmd/core/fetch"
	"github.com/gaurav-prasanna/urlmd/crawl"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "URLMD"
	FileName  = ".urlmd"
)

// Engines are the accepted convert.engine values.
var Engines = []string{"native", "library"}

type Config struct {
	Convert ConvertConfig `mapstructure:"convert"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Server  ServerConfig  `mapstructure:"server"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Log     LogConfig     `mapstructure:"log"`
}

type ConvertConfig struct {
	SkipTags []string `mapstructure:"skip_tags"`
	MaxDepth int      `mapstructure:"max_depth"`
	Engine   string   `mapstructure:"engine"`
}

type FetchConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	UserAgent    string        `mapstructure:"user_agent"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	Charset      string        `mapstructure:"charset"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	ConvertTimeout time.Duration `mapstructure:"convert_timeout"`
}

type CrawlConfig struct {
	MaxPages int `mapstructure:"max_pages"`
}

type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`
	JSON    bool `mapstructure:"json"`
}

// SetDefaults registers every key with its default so environment
// variables and Unmarshal see the full key set.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("convert.skip_tags", convert.DefaultSkipTags())
	v.SetDefault("convert.max_depth", convert.DefaultMaxDepth)
	v.SetDefault("convert.engine", "native")

	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)
	v.SetDefault("fetch.user_agent", fetch.DefaultUserAgent)
	v.SetDefault("fetch.max_attempts", fetch.DefaultMaxAttempts)
	v.SetDefault("fetch.charset", "")
	v.SetDefault("fetch.max_body_bytes", fetch.DefaultMaxBodyBytes)

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 90*time.Second)
	v.SetDefault("server.convert_timeout", 60*time.Second)

	v.SetDefault("crawl.max_pages", crawl.DefaultMaxPages)

	v.SetDefault("log.verbose", false)
	v.SetDefault("log.quiet", false)
	v.SetDefault("log.json", false)
}

// Init prepares v: defaults, environment binding and the config file.
// A missing default config file is not an error; a missing explicit one is.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.Convert.Engine = strings.ToLower(strings.TrimSpace(cfg.Convert.Engine))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Convert.MaxDepth <= 0 || c.Convert.MaxDepth > convert.MaxDepthLimit {
		errs = append(errs, fmt.Errorf("convert.max_depth must be between 1 and %d, got %d", convert.MaxDepthLimit, c.Convert.MaxDepth))
	}
	switch c.Convert.Engine {
	case "native", "library":
	default:
		errs = append(errs, fmt.Errorf("convert.engine must be one of %s, got %q", strings.Join(Engines, ", "), c.Convert.Engine))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive"))
	}
	if c.Fetch.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("fetch.max_attempts must be at least 1, got %d", c.Fetch.MaxAttempts))
	}
	if c.Fetch.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("fetch.max_body_bytes must be positive"))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ConvertTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.convert_timeout must be positive"))
	}
	if c.Crawl.MaxPages < 1 {
		errs = append(errs, fmt.Errorf("crawl.max_pages must be at least 1, got %d", c.Crawl.MaxPages))
	}
	if c.Log.Verbose && c.Log.Quiet {
		errs = append(errs, fmt.Errorf("log.verbose and log.quiet are mutually exclusive"))
	}
	return errors.Join(errs...)
}

// ConverterConfig returns the settings for the native engine.
func (c Config) ConverterConfig() convert.Config {
	return convert.Config{SkipTags: c.Convert.SkipTags, MaxDepth: c.Convert.MaxDepth}
}

// FetcherConfig returns the settings for the HTTP fetcher.
func (c Config) FetcherConfig() fetch.Config {
	return fetch.Config{
		Timeout:      c.Fetch.Timeout,
		UserAgent:    c.Fetch.UserAgent,
		MaxAttempts:  c.Fetch.MaxAttempts,
		Charset:      c.Fetch.Charset,
		MaxBodyBytes: c.Fetch.MaxBodyBytes,
	}
}
