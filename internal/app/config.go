package app

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Locations []string `validate:"required,min=1,dive,required"`

	LogFormat       string `validate:"oneof=text json"`
	LogLevel        string `validate:"oneof=debug info warn error"`
	Output          string `validate:"oneof=text json"`
	HealthcheckPort int    `validate:"min=0,max=65535"`

	// Watch keeps the app running and rebuilds the context when a loaded
	// file changes.
	Watch    bool
	Debounce time.Duration `validate:"min=0"`
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
