package main

import (
	"fmt"
	"os"
	"time"

	yaml "go.yaml.in/yaml/v4"
)

// fileConfig mirrors the shared client flags so invocations against the
// same API can keep their settings in a YAML file. Explicitly set flags
// always win over file values.
type fileConfig struct {
	BaseURL           string            `yaml:"baseURL"`
	Timeout           string            `yaml:"timeout"`
	ServerIndex       *int              `yaml:"serverIndex"`
	ServerDescription string            `yaml:"serverDescription"`
	ServerVariables   map[string]string `yaml:"serverVariables"`
	Headers           map[string]string `yaml:"headers"`
	StrictPathParams  bool              `yaml:"strictPathParams"`

	timeout time.Duration
}

func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	cfg := &fileConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parsing config file %s: invalid timeout %q: %w", path, cfg.Timeout, err)
		}
		cfg.timeout = d
	}
	return cfg, nil
}

// applyTo fills flag values the user did not set explicitly.
func (c *fileConfig) applyTo(flags *clientFlags, set map[string]bool) {
	if c.BaseURL != "" && !set["base-url"] {
		flags.baseURL = c.BaseURL
	}
	if c.timeout > 0 && !set["timeout"] {
		flags.timeout = c.timeout
	}
	if c.ServerIndex != nil && !set["server-index"] {
		flags.serverIndex = *c.ServerIndex
	}
	if c.ServerDescription != "" && !set["server-description"] {
		flags.serverDesc = c.ServerDescription
	}
	for name, value := range c.ServerVariables {
		if _, exists := flags.serverVars[name]; !exists {
			flags.serverVars[name] = value
		}
	}
	for name, value := range c.Headers {
		if _, exists := flags.headers[name]; !exists {
			flags.headers[name] = value
		}
	}
	if c.StrictPathParams && !set["strict-path-params"] {
		flags.strict = true
	}
}
