package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// New reads configuration from the process environment into a struct of
// type T composed of the section types of this package.
func New[T any]() (T, error) {
	return parse[T](env.Options{})
}

// NewFromEnviron reads configuration from environ only, ignoring the process
// environment.
func NewFromEnviron[T any](environ map[string]string) (T, error) {
	return parse[T](env.Options{Environment: environ})
}

func parse[T any](opts env.Options) (T, error) {
	var cfg T
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}
