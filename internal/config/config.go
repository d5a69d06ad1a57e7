package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Listen             string  `yaml:"listen"`
	ArtifactPath       string  `yaml:"artifactPath"`
	MinimumFreeSpaceGB int     `yaml:"minimumFreeSpaceGB"`
	LogLevel           string  `yaml:"logLevel"`
	DefaultChaosKey    float64 `yaml:"defaultChaosKey"`
}

// Defaults returns the configuration used when no file is present.
func Defaults() Config {
	return Config{
		Listen:             ":5050",
		ArtifactPath:       "./artifacts",
		MinimumFreeSpaceGB: 1,
		LogLevel:           "info",
		DefaultChaosKey:    3.99,
	}
}

// Load reads a YAML config file and applies defaults for unset values. A
// missing file is not an error; the defaults are returned as-is.
func Load(path string) (Config, error) {
	config := Defaults()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("config: parse %s: %w", path, err)
	}

	defaults := Defaults()
	if config.Listen == "" {
		config.Listen = defaults.Listen
	}
	if config.ArtifactPath == "" {
		config.ArtifactPath = defaults.ArtifactPath
	}
	if config.MinimumFreeSpaceGB == 0 {
		config.MinimumFreeSpaceGB = defaults.MinimumFreeSpaceGB
	}
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.DefaultChaosKey == 0 {
		config.DefaultChaosKey = defaults.DefaultChaosKey
	}

	return config, nil
}
