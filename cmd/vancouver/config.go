package main

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/arloliu/vancouver"
)

const envPrefix = "VANCOUVER_"

// loadConfig layers the YAML file at path (optional) and VANCOUVER_*
// environment variables over the built-in defaults.
//
// Environment names are matched against config keys ignoring case, dots and
// underscores, so VANCOUVER_ESTIMATOR_MAX_GRADE sets estimator.maxGrade.
// Unknown variables are ignored.
func loadConfig(path string) (*vancouver.Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(vancouver.DefaultConfig(), "yaml"), nil); err != nil {
		return nil, fmt.Errorf("load default config: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var cfg vancouver.Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	vancouver.SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// envKeyMapper maps VANCOUVER_SECTION_FIELD_NAME to the matching key in keys.
func envKeyMapper(keys []string) func(string) string {
	known := make(map[string]string, len(keys))
	for _, key := range keys {
		known[normalizeKey(key)] = key
	}

	return func(name string) string {
		return known[normalizeKey(strings.TrimPrefix(name, envPrefix))]
	}
}

func normalizeKey(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")

	return strings.ReplaceAll(s, "_", "")
}
