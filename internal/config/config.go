package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

const (
	// DefaultEnvFile is loaded from the working directory when present.
	DefaultEnvFile = ".env"
)

type Config struct {
	LogZilla *logzillaConfig
	Storage  *storageConfig
}

type logzillaConfig struct {
	// Instance is the base URL of the LogZilla server (the part before /api/...).
	Instance string `envconfig:"LOGZILLA_INSTANCE" validate:"required,url,startswith=http"`
	APIKey   string `envconfig:"API_KEY" validate:"required"`
}

// storageConfig describes the optional S3 compatible bucket the report is
// published to. Publishing is disabled while Endpoint is empty.
type storageConfig struct {
	Endpoint  string `envconfig:"REPORT_S3_ENDPOINT" default:""`
	Bucket    string `envconfig:"REPORT_S3_BUCKET" default:"" validate:"required_with=Endpoint"`
	AccessKey string `envconfig:"REPORT_S3_ACCESS_KEY" default:""`
	SecretKey string `envconfig:"REPORT_S3_SECRET_KEY" default:""`
	UseSSL    bool   `envconfig:"REPORT_S3_USE_SSL" default:"false"`
	Object    string `envconfig:"REPORT_S3_OBJECT" default:""`
}

func (s *storageConfig) Enabled() bool {
	return s != nil && s.Endpoint != ""
}

type ErrInvalidConfig struct {
	error
}

func NewErrInvalidConfig(err error) *ErrInvalidConfig {
	return &ErrInvalidConfig{fmt.Errorf("invalid configuration: %w", err)}
}

func (e *ErrInvalidConfig) Unwrap() error {
	return e.error
}

// New loads envFile (if it exists) on top of the process environment and
// builds a validated configuration. Variables already set in the process
// environment take precedence over the file.
func New(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, NewErrInvalidConfig(fmt.Errorf("loading %s: %w", envFile, err))
		}
	}

	cfg := &Config{
		LogZilla: new(logzillaConfig),
		Storage:  new(storageConfig),
	}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, NewErrInvalidConfig(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validationErrors := make([]error, 0)
	for _, section := range []any{c.LogZilla, c.Storage} {
		err := validate.Struct(section)
		if err == nil {
			continue
		}
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			validationErrors = append(validationErrors, err)
			continue
		}
		for _, fe := range fieldErrors {
			validationErrors = append(validationErrors, fmt.Errorf("%s failed on %q", fe.Namespace(), fe.Tag()))
		}
	}

	if len(validationErrors) > 0 {
		return NewErrInvalidConfig(utilerrors.NewAggregate(validationErrors))
	}
	return nil
}
