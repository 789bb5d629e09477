package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Validator is implemented by config structs with checks that span fields.
type Validator interface {
	Validate() error
}

// Load fills cfg from the environment using its `env` tags, then runs
// Validate when cfg implements Validator.
func Load(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	v, ok := cfg.(Validator)
	if !ok {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}
