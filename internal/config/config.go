// Package config loads the exampledoc CLI configuration: a YAML file read with
// viper, then EXAMPLEDOC_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "EXAMPLEDOC_"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "exampledoc"

// Fragment kinds understood by the build command.
const (
	KindJSON     = "json"
	KindJSONBody = "json_body"
	KindBody     = "body"
	KindHeaders  = "headers"
	KindCharts   = "charts"
	KindPage     = "page"
)

// Config is the resolved CLI configuration.
type Config struct {
	// Fixtures are extra example documents (paths or URLs).
	Fixtures []string `mapstructure:"fixtures"`
	// OpenAPI documents whose components.examples are imported.
	OpenAPI          []string `mapstructure:"openapi"`
	OpenAPIPrefix    string   `mapstructure:"openapi_prefix"`
	ResponseExamples bool     `mapstructure:"response_examples"`
	// SkipBuiltin leaves the embedded examples out of the registry.
	SkipBuiltin   bool          `mapstructure:"skip_builtin"`
	Style         string        `mapstructure:"style"`
	OutputDir     string        `mapstructure:"output_dir"`
	LenientStatus bool          `mapstructure:"lenient_status"`
	HTTPTimeout   time.Duration `mapstructure:"http_timeout"`
	Fragments     []Fragment    `mapstructure:"fragments"`
}

// Fragment is one entry of the build manifest.
type Fragment struct {
	Name     string            `mapstructure:"name"`
	Kind     string            `mapstructure:"kind"`
	Example  string            `mapstructure:"example"`
	Status   int               `mapstructure:"status"`
	Body     string            `mapstructure:"body"`
	BodyFile string            `mapstructure:"body_file"`
	Headers  map[string]string `mapstructure:"headers"`
	Set      []string          `mapstructure:"set"`
	// Page is a Markdown page source, relative to the config file.
	Page     string            `mapstructure:"page"`
}

// overrides lists the settings the environment may replace. Pointer and
// slice fields stay nil when the variable is unset.
type overrides struct {
	Fixtures      []string       `env:"FIXTURES" envSeparator:","`
	OpenAPI       []string       `env:"OPENAPI" envSeparator:","`
	OpenAPIPrefix *string        `env:"OPENAPI_PREFIX"`
	SkipBuiltin   *bool          `env:"SKIP_BUILTIN"`
	Style         *string        `env:"STYLE"`
	OutputDir     *string        `env:"OUTPUT_DIR"`
	LenientStatus *bool          `env:"LENIENT_STATUS"`
	HTTPTimeout   *time.Duration `env:"HTTP_TIMEOUT"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Style:       "github",
		OutputDir:   "docs/fragments",
		HTTPTimeout: 10 * time.Second,
	}
}

// Load reads path (or ./exampledoc.yaml when path is empty and the file
// exists) and applies environment overrides from the process environment.
func Load(path string) (Config, error) {
	return LoadWithEnv(path, nil)
}

// LoadWithEnv is Load with an explicit environment; nil means os.Environ.
func LoadWithEnv(path string, environ map[string]string) (Config, error) {
	v := viper.New()
	defaults := Defaults()
	v.SetDefault("style", defaults.Style)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("http_timeout", defaults.HTTPTimeout)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFile)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}

	var env overrides
	if err := parseEnv(&env, environ); err != nil {
		return Config{}, err
	}
	env.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseEnv(target *overrides, environ map[string]string) error {
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func (o overrides) apply(cfg *Config) {
	if o.Fixtures != nil {
		cfg.Fixtures = o.Fixtures
	}
	if o.OpenAPI != nil {
		cfg.OpenAPI = o.OpenAPI
	}
	if o.OpenAPIPrefix != nil {
		cfg.OpenAPIPrefix = *o.OpenAPIPrefix
	}
	if o.SkipBuiltin != nil {
		cfg.SkipBuiltin = *o.SkipBuiltin
	}
	if o.Style != nil {
		cfg.Style = *o.Style
	}
	if o.OutputDir != nil {
		cfg.OutputDir = *o.OutputDir
	}
	if o.LenientStatus != nil {
		cfg.LenientStatus = *o.LenientStatus
	}
	if o.HTTPTimeout != nil {
		cfg.HTTPTimeout = *o.HTTPTimeout
	}
}

// Validate checks the manifest. It does not resolve example names.
func (c Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("config: output_dir is required")
	}
	if c.HTTPTimeout < 0 {
		return errors.New("config: http_timeout must not be negative")
	}

	seen := make(map[string]struct{}, len(c.Fragments))
	var errs []error
	for i, fragment := range c.Fragments {
		name := strings.TrimSpace(fragment.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("fragment %d: name is required", i))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("fragment %q: duplicate name", name))
		}
		seen[name] = struct{}{}
		if err := fragment.validate(); err != nil {
			errs = append(errs, fmt.Errorf("fragment %q: %w", name, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: invalid manifest: %w", errors.Join(errs...))
	}
	return nil
}

func (f Fragment) validate() error {
	switch f.Kind {
	case KindJSON:
		if f.Example == "" {
			return errors.New("example is required")
		}
	case KindJSONBody:
		if f.Example == "" {
			return errors.New("example is required")
		}
		if f.Status == 0 {
			return errors.New("status is required")
		}
	case KindBody:
		if f.Status == 0 {
			return errors.New("status is required")
		}
		if f.Body != "" && f.BodyFile != "" {
			return errors.New("body and body_file are mutually exclusive")
		}
	case KindHeaders:
		if f.Status == 0 {
			return errors.New("status is required")
		}
	case KindCharts:
	case KindPage:
		if f.Page == "" {
			return errors.New("page is required")
		}
	case "":
		return errors.New("kind is required")
	default:
		return fmt.Errorf("unknown kind %q", f.Kind)
	}
	return nil
}
