// Copyright (c) 2026 Tigera, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/projectcalico/maglev/pkg/maglev"
)

// EnvPrefix is prepended to every environment variable, e.g. MAGLEV_LOG_LEVEL.
const EnvPrefix = "MAGLEV"

// Output formats understood by the CLI.
const (
	OutputIndices = "indices"
	OutputJSON    = "json"
	OutputYAML    = "yaml"
	OutputSummary = "summary"
)

var OutputFormats = []string{OutputIndices, OutputJSON, OutputYAML, OutputSummary}

type Config struct {
	// LogLevel is the log level to use.
	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL" default:"warning"`

	// Hash names the built-in hash pair used to derive backend offsets and skips.
	Hash string `json:"hash" envconfig:"HASH" default:"murmur2-djb"`

	// Output is the format tables are printed in.
	Output string `json:"output" envconfig:"OUTPUT" default:"indices"`

	// StrictCoverage rejects tables with fewer slots than backends.
	StrictCoverage bool `json:"strict_coverage" envconfig:"STRICT_COVERAGE" default:"false"`
}

// FromEnv loads the configuration from MAGLEV_* environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if _, err := maglev.HashPairByName(cfg.Hash); err != nil {
		return err
	}
	for _, f := range OutputFormats {
		if cfg.Output == f {
			return nil
		}
	}
	return errors.Errorf("unknown output format %q (known: %v)", cfg.Output, OutputFormats)
}

// BuildOptions converts the configuration into options for maglev.Build.
func (cfg *Config) BuildOptions() ([]maglev.Option, error) {
	pair, err := maglev.HashPairByName(cfg.Hash)
	if err != nil {
		return nil, err
	}
	opts := []maglev.Option{maglev.WithHasher(pair)}
	if cfg.StrictCoverage {
		opts = append(opts, maglev.WithStrictCoverage())
	}
	return opts, nil
}

func (cfg *Config) String() string {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(cfg)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// BuildSpec describes one table: its size and its backends in index order.
type BuildSpec struct {
	TableSize int      `yaml:"tableSize" json:"tableSize"`
	Backends  []string `yaml:"backends" json:"backends"`
}

// LoadBuildSpec reads a BuildSpec from a YAML (or JSON) file.
func LoadBuildSpec(file string) (*BuildSpec, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return ParseBuildSpec(content)
}

func ParseBuildSpec(content []byte) (*BuildSpec, error) {
	spec := &BuildSpec{}
	if err := yaml.Unmarshal(content, spec); err != nil {
		return nil, errors.Wrap(err, "failed to parse build spec")
	}
	if spec.TableSize == 0 {
		return nil, errors.New("build spec has no tableSize")
	}
	if len(spec.Backends) == 0 {
		return nil, errors.New("build spec has no backends")
	}
	return spec, nil
}
