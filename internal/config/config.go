// Package config loads downwind settings from flags, environment variables,
// an optional .env file and an optional YAML config file.
//
// Example .downwind.yaml:
//
//	category: [layout, styling]
//	prefixes:
//	  styling: [glass, neon]
//	  layout: [stack]
package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feli0x/Downwind/pkg/stripper"
)

// EnvPrefix is the prefix for environment variables (DOWNWIND_DEBUG, ...).
const EnvPrefix = "DOWNWIND"

// Config holds the settings shared by all commands.
type Config struct {
	Debug   bool `mapstructure:"debug"`
	Quiet   bool `mapstructure:"quiet"`
	LogJSON bool `mapstructure:"log_json"`

	// Categories is the default category list for strip and watch.
	Categories []string `mapstructure:"category"`

	// Prefixes adds class prefixes to the built-in categories.
	Prefixes map[string][]string `mapstructure:"prefixes" validate:"dive,keys,oneof=typography layout styling,endkeys,dive,classprefix"`
}

// FieldError describes a single invalid config value.
type FieldError struct {
	Field   string
	Message string
	Value   any
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s (got %v)", e.Field, e.Message, e.Value)
}

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_-]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("classprefix", func(fl validator.FieldLevel) bool {
		p := fl.Field().String()
		return prefixPattern.MatchString(p) && !strings.HasSuffix(p, "-")
	})
	return v
}

// Init prepares v to read configuration. An explicit cfgFile wins over the
// default search path ($HOME/.downwind.yaml, ./.downwind.yaml). A .env file in
// the working directory is loaded into the environment when present.
func Init(v *viper.Viper, cfgFile, home string) error {
	_ = godotenv.Load()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home != "" {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".downwind")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	_ = v.BindEnv("category")

	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	// An explicitly named file must exist and parse.
	if cfgFile != "" {
		return fmt.Errorf("reading config %s: %w", cfgFile, err)
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("reading config: %w", err)
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the prefix table. Category names are not validated here:
// unknown names fall back to blanking class attributes.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, e := range verrs {
		errs = append(errs, FieldError{
			Field:   e.Namespace(),
			Message: formatValidationError(e),
			Value:   e.Value(),
		})
	}
	return fmt.Errorf("invalid config: %w", errors.Join(errs...))
}

// StripperConfig converts the prefix table for stripper.New.
func (c *Config) StripperConfig() *stripper.Config {
	extra := stripper.DefaultConfig()
	for name, prefixes := range c.Prefixes {
		cat := stripper.ParseCategory(name)
		extra.ExtraPrefixes[cat] = append(extra.ExtraPrefixes[cat], prefixes...)
	}
	return stripper.DefaultConfig().Merge(extra)
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("must be one of: %s", e.Param())
	case "classprefix":
		return "must be a class prefix (letters, digits, '-' or '_', not ending in '-')"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
