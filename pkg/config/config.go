package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nikmy/txnguard/pkg/errors"
)

// Load reads a yaml document at path into a fresh T. Fields absent from
// the document keep the values set by defaults, when it is not nil.
func Load[T any](path string, defaults func(*T)) (*T, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.WrapFail(err, "build path to config")
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.WrapFailf(err, "read %q", abs)
	}

	return Parse(data, defaults)
}

func Parse[T any](data []byte, defaults func(*T)) (*T, error) {
	cfg := new(T)
	if defaults != nil {
		defaults(cfg)
	}

	err := yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, errors.WrapFail(err, "parse yaml")
	}

	return cfg, nil
}
