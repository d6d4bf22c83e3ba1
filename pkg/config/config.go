package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	envFilePath string
	parseOnce   sync.Once
)

// MustNew loads T from the environment, panicking on failure. Intended for
// process startup where a missing required variable should abort.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(fmt.Sprintf("config %q: %v", prefix, err))
	}
	return conf
}

// New loads T from the environment. An env file given via the -env flag or
// the ENV_FILE variable is exported first; otherwise ./.env is used when
// present.
func New[T any](prefix string) (*T, error) {
	switch filepath := resolveEnvPath(); {
	case filepath != "":
		if err := exportEnvironment(filepath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", filepath, err)
		}
	default:
		if err := exportEnvironmentIfExists(".env"); err != nil {
			return nil, fmt.Errorf("failed to load default env file: %w", err)
		}
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}

	return &conf, nil
}

func resolveEnvPath() string {
	parseOnce.Do(func() {
		if flag.Lookup("env") == nil {
			flag.StringVar(&envFilePath, "env", "", "path to .env file")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	if trimmed := strings.TrimSpace(envFilePath); trimmed != "" {
		return trimmed
	}
	return strings.TrimSpace(os.Getenv("ENV_FILE"))
}

func exportEnvironmentIfExists(filepath string) error {
	info, err := os.Stat(filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportEnvironment(filepath)
}

func exportEnvironment(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for k, value := range v.AllSettings() {
		key := strings.ToUpper(k)
		// values already present in the real environment win
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(value)); err != nil {
			return err
		}
	}

	return nil
}
