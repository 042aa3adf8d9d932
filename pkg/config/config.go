// Package config holds the runtime options. Options come from the
// environment so embedding applications can flip checking behavior without a
// rebuild.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// CheckingMode selects how context component access is verified.
type CheckingMode string

const (
	// CheckingStatic trusts the caller: hot accessors skip presence checks.
	CheckingStatic CheckingMode = "static"
	// CheckingDynamic verifies every lookup and reports component-not-found.
	CheckingDynamic CheckingMode = "dynamic"
)

// Options configures a runtime system.
type Options struct {
	CheckingMode CheckingMode `env:"REFLOW_CHECKING_MODE" envDefault:"static"`
	LogLevel     string       `env:"REFLOW_LOG_LEVEL" envDefault:"info"`
}

// Default returns the built-in option set.
func Default() Options {
	return Options{
		CheckingMode: CheckingStatic,
		LogLevel:     "info",
	}
}

// FromEnv parses options from the process environment.
func FromEnv() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Default(), fmt.Errorf("failed to parse options from environment: %w", err)
	}
	if opts.CheckingMode != CheckingStatic && opts.CheckingMode != CheckingDynamic {
		return Default(), fmt.Errorf("invalid checking mode %q", opts.CheckingMode)
	}
	return opts, nil
}
