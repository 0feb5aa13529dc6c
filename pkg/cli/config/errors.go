package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrInvalidDuration = goerr.New("invalid duration")
	ErrInvalidTimeZone = goerr.New("invalid time zone")
	ErrInvalidBackend  = goerr.New("invalid backend")
	ErrMissingOption   = goerr.New("required option is missing")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	FieldKey      = "field"
	BackendKey    = "backend"
)
