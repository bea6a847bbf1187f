package ols

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL  = "https://www.ebi.ac.uk/ols4/api"
	DefaultOntology = "foodon"
)

type Config struct {
	BaseURL    string
	Ontology   string
	Timeout    time.Duration
	MaxRetries int
	RetryBase  time.Duration
}

type ConfigErrorCode string

const (
	ConfigErrorInvalidURL      ConfigErrorCode = "invalid_url"
	ConfigErrorMissingOntology ConfigErrorCode = "missing_ontology"
	ConfigErrorInvalidRetries  ConfigErrorCode = "invalid_retries"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid ols config"
	}
	switch e.Code {
	case ConfigErrorInvalidURL:
		return fmt.Sprintf("invalid OLS_BASE_URL=%q; expected absolute URL like %s", e.Value, DefaultBaseURL)
	case ConfigErrorMissingOntology:
		return "OLS_ONTOLOGY is required"
	case ConfigErrorInvalidRetries:
		return fmt.Sprintf("invalid OLS_MAX_RETRIES=%q; expected zero or more", e.Value)
	default:
		return "invalid ols config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// withDefaults fills zero values; it never overrides explicit settings.
func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if strings.TrimSpace(c.Ontology) == "" {
		c.Ontology = DefaultOntology
	}
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.RetryBase <= 0 {
		c.RetryBase = 500 * time.Millisecond
	}
	return c
}

func ValidateConfig(cfg Config) error {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return &ConfigError{Code: ConfigErrorInvalidURL, Value: cfg.BaseURL, Cause: err}
	}
	if strings.TrimSpace(cfg.Ontology) == "" {
		return &ConfigError{Code: ConfigErrorMissingOntology}
	}
	if cfg.MaxRetries < 0 {
		return &ConfigError{Code: ConfigErrorInvalidRetries, Value: fmt.Sprint(cfg.MaxRetries)}
	}
	return nil
}
