package main

import (
	"flag"

	"github.com/nikmy/txnguard/internal/api"
	"github.com/nikmy/txnguard/internal/backend/mongo"
	"github.com/nikmy/txnguard/internal/backend/postgres"
	"github.com/nikmy/txnguard/internal/registry"
	"github.com/nikmy/txnguard/internal/retry"
	"github.com/nikmy/txnguard/internal/session"
	"github.com/nikmy/txnguard/pkg/config"
	"github.com/nikmy/txnguard/pkg/environment"
	"github.com/nikmy/txnguard/pkg/errors"
)

const (
	backendPostgres = "postgres"
	backendMongo    = "mongo"
)

type Config struct {
	Environment environment.Env `yaml:"Environment"`

	Control registry.Config `yaml:"Control"`
	Retry   retry.Config    `yaml:"Retry"`
	Session session.Config  `yaml:"Session"`

	Backend struct {
		Kind string `yaml:"kind"`
	} `yaml:"Backend"`

	Postgres postgres.Config `yaml:"Postgres"`
	Mongo    mongo.Config    `yaml:"Mongo"`

	API api.Config `yaml:"API"`
}

func defaults(cfg *Config) {
	cfg.Environment = environment.Development
	cfg.Control = registry.Config{MaxBackends: 100, MaxConflicts: registry.DefaultMaxConflicts}
	cfg.Retry = retry.DefaultConfig()
	cfg.Session.EstimatedVariables = session.DefaultEstimatedVariables
	cfg.Backend.Kind = backendPostgres
	cfg.API.HTTP.Addr = ":8080"
}

func loadConfig() (*Config, error) {
	path := flag.String("config", "config.yaml", "path to config")
	env := flag.String("env", "", "environment (dev, prod)")
	flag.Parse()

	cfg, err := config.Load(*path, defaults)
	if err != nil {
		return nil, errors.WrapFail(err, "load config")
	}

	if *env != "" {
		cfg.Environment = environment.FromString(*env)
	}

	return cfg, nil
}
