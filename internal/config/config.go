package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped to
// config keys: MOVIETRACKER_MOVIES_FILE -> movies_file.
const EnvPrefix = "MOVIETRACKER_"

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = EnvPrefix + "CONFIG"

// DefaultConfigPaths are searched in order when ConfigPathEnvVar is unset.
var DefaultConfigPaths = []string{
	"movietracker.yaml",
	"movietracker.yml",
}

// Credential modes understood by the auth layer.
const (
	CredentialPlaintext = "plaintext"
	CredentialBcrypt    = "bcrypt"
)

// Config captures runtime configuration: struct defaults, then an optional
// YAML file, then environment variables.
type Config struct {
	MoviesFile        string `koanf:"movies_file" validate:"required"`
	UsersFile         string `koanf:"users_file" validate:"required"`
	LogLevel          string `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn warning error disabled off"`
	LogFormat         string `koanf:"log_format" validate:"omitempty,oneof=json console"`
	MinPasswordLength int    `koanf:"min_password_length" validate:"gte=1"`
	DefaultTopN       int    `koanf:"default_top_n" validate:"gte=1"`
	CredentialMode    string `koanf:"credential_mode" validate:"oneof=plaintext bcrypt"`
	AtomicSave        bool   `koanf:"atomic_save"`
}

func defaultConfig() Config {
	return Config{
		MoviesFile:        "movies.csv",
		UsersFile:         "users.csv",
		LogLevel:          "info",
		LogFormat:         "console",
		MinPasswordLength: 4,
		DefaultTopN:       5,
		CredentialMode:    CredentialPlaintext,
		AtomicSave:        false,
	}
}

// envKeys names the environment variable behind each field for error messages.
var envKeys = map[string]string{
	"MoviesFile":        EnvPrefix + "MOVIES_FILE",
	"UsersFile":         EnvPrefix + "USERS_FILE",
	"LogLevel":          EnvPrefix + "LOG_LEVEL",
	"LogFormat":         EnvPrefix + "LOG_FORMAT",
	"MinPasswordLength": EnvPrefix + "MIN_PASSWORD_LENGTH",
	"DefaultTopN":       EnvPrefix + "DEFAULT_TOP_N",
	"CredentialMode":    EnvPrefix + "CREDENTIAL_MODE",
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds the configuration, applying defaults and validation.
func Load() (Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(&defaults, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and reports the first violation by its
// environment variable name.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate config: %w", err)
	}
	fe := verrs[0]
	key := envKeys[fe.StructField()]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", key)
	case "gte":
		return fmt.Errorf("%s must be at least %s", key, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", key, fe.Param())
	default:
		return fmt.Errorf("%s is invalid", key)
	}
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
