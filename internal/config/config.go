package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// New parses environment variables into a struct of type T built from the
// section types in this package.
func New[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
