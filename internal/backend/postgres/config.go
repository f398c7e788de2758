package postgres

import "time"

type Config struct {
	DSN string `yaml:"dsn"`

	Pool struct {
		MaxOpen     int           `yaml:"max_open"`
		MaxIdle     int           `yaml:"max_idle"`
		MaxLifetime time.Duration `yaml:"max_lifetime"`
	} `yaml:"pool"`
}
