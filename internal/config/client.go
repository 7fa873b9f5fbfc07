package config

import "time"

type Client struct {
	BaseURL string        `env:"CATALOG_API_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"CATALOG_API_TIMEOUT" envDefault:"10s"`
}
