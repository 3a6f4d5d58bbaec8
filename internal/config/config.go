// Copyright 2025.
// SPDX-License-Identifier: Apache-2.0

// Package config implements the operator's configuration surface (spec.md
// §6, "Configuration"): a layered defaults -> file -> environment loader
// built on koanf, with go-playground/validator struct validation and the
// OAuth1-vs-bearer-only presence rule spec.md §6 requires.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/go-playground/validator/v10"
)

// envPrefix and envDelim implement spec.md §6's "prefix CLEVER_OPERATOR_
// and __ as nesting separator" rule, e.g. CLEVER_OPERATOR_API__TOKEN maps
// to api.token.
const (
	envPrefix = "CLEVER_OPERATOR_"
	envDelim  = "."
)

// searchPaths are searched, in order, for a config.{toml,yaml,json} file
// when no explicit path is given (spec.md §6, "Configuration"). Later
// entries take priority: each one that exists is loaded on top of the last.
func searchPaths() []string {
	var dirs []string
	dirs = append(dirs, "/usr/share/clever-operator", "/etc/clever-operator")
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "clever-operator"))
		dirs = append(dirs, filepath.Join(home, ".local", "share", "clever-operator"))
	}
	dirs = append(dirs, ".")
	return dirs
}

var fileExtensions = []string{"toml", "yaml", "yml", "json"}

// Operator is the top-level configuration shape (spec.md §6's key table).
type Operator struct {
	Operator OperatorSection `koanf:"operator" validate:"required"`
	API      APISection      `koanf:"api" validate:"required"`
}

// OperatorSection holds process-level settings.
type OperatorSection struct {
	Listen string `koanf:"listen" validate:"required,hostname_port"`
}

// APISection holds the vendor API credentials and endpoint.
type APISection struct {
	Endpoint       string `koanf:"endpoint" validate:"required,url"`
	Token          string `koanf:"token" validate:"required"`
	Secret         string `koanf:"secret"`
	ConsumerKey    string `koanf:"consumerKey"`
	ConsumerSecret string `koanf:"consumerSecret"`
}

// Defaults returns the struct defaults loaded before any file or
// environment override (spec.md §6's Default column).
func Defaults() Operator {
	return Operator{
		Operator: OperatorSection{Listen: "0.0.0.0:7080"},
		API:      APISection{Endpoint: "https://api.clever-cloud.com"},
	}
}

// Load implements the defaults -> file -> env priority chain. explicitPath,
// when non-empty, is used instead of the search-path scan and it is an
// error for it not to exist; an empty explicitPath with no file found on
// any search path is not an error (spec.md's config file is optional,
// defaults plus environment variables are a complete configuration).
func Load(explicitPath string) (Operator, error) {
	k := koanf.New(envDelim)

	cfg := Defaults()
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return Operator{}, fmt.Errorf("load defaults: %w", err)
	}

	if explicitPath != "" {
		if err := loadFile(k, explicitPath); err != nil {
			return Operator{}, fmt.Errorf("load --config %s: %w", explicitPath, err)
		}
	} else {
		for _, dir := range searchPaths() {
			for _, ext := range fileExtensions {
				path := filepath.Join(dir, "config."+ext)
				if _, err := os.Stat(path); err != nil {
					continue
				}
				if err := loadFile(k, path); err != nil {
					return Operator{}, fmt.Errorf("load %s: %w", path, err)
				}
			}
		}
	}

	envProvider := env.Provider(envPrefix, envDelim, func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", envDelim)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Operator{}, fmt.Errorf("load environment: %w", err)
	}

	var out Operator
	if err := k.Unmarshal("", &out); err != nil {
		return Operator{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(out); err != nil {
		return Operator{}, err
	}
	return out, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return k.Load(file.Provider(path), toml.Parser())
	case ".yaml", ".yml":
		return k.Load(file.Provider(path), yaml.Parser())
	case ".json":
		return k.Load(file.Provider(path), json.Parser())
	default:
		return fmt.Errorf("unrecognized config file extension: %s", path)
	}
}

var validate = validator.New()

// Validate applies struct tag validation and the OAuth1-vs-bearer-only
// presence rule from spec.md §6: "if only api.token is set, use
// bearer-only mode; otherwise all four OAuth1 fields must be set."
func Validate(cfg Operator) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	set := 0
	for _, v := range []string{cfg.API.Secret, cfg.API.ConsumerKey, cfg.API.ConsumerSecret} {
		if v != "" {
			set++
		}
	}
	if set != 0 && set != 3 {
		return fmt.Errorf("config invalid: api.secret, api.consumerKey and api.consumerSecret must all be set together or all be empty")
	}
	return nil
}
