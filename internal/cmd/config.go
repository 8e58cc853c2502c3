// SPDX-FileCopyrightText: 2025 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lysmarine/proot/internal/binding"
)

// Config is the effective run configuration, assembled from defaults, an
// optional YAML file and command line flags. Flags take precedence over the
// file.
type Config struct {
	Root     string          `yaml:"root"`
	Cwd      string          `yaml:"cwd"`
	Archive  string          `yaml:"archive"`
	Bindings []ConfigBinding `yaml:"bindings"`
}

type ConfigBinding struct {
	Host  string `yaml:"host"`
	Guest string `yaml:"guest"`
}

func newConfig(flags *flags) (*Config, error) {
	config := &Config{
		Root: "/",
		Cwd:  "/",
	}

	if flags.configFile != "" {
		err := loadConfigFile(string(flags.configFile), config)
		if err != nil {
			return nil, err
		}
	}

	if flags.root != "" {
		config.Root = flags.root
	}

	if flags.cwd != "" {
		config.Cwd = flags.cwd
	}

	if flags.archive != "" {
		config.Archive = string(flags.archive)
	}

	for _, bnd := range flags.bindings {
		config.Bindings = append(config.Bindings, ConfigBinding{
			Host:  bnd.Host,
			Guest: bnd.Guest,
		})
	}

	return config, nil
}

func loadConfigFile(file string, config *Config) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	return nil
}

func (c *Config) bindings() []binding.Binding {
	bindings := make([]binding.Binding, len(c.Bindings))
	for idx, bnd := range c.Bindings {
		bindings[idx] = binding.Binding{Host: bnd.Host, Guest: bnd.Guest}
	}

	return bindings
}
