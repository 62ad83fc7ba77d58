package core

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ParseSuite parses YAML content into a Suite.
func ParseSuite(data []byte) (*Suite, error) {
	var suite Suite
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, errors.Wrap(err, "invalid suite document")
	}
	if suite.RunPrefix == "" {
		return nil, errors.New("suite: run_prefix is required")
	}
	if len(suite.Jobs) == 0 {
		return nil, errors.New("suite: no jobs listed")
	}
	if suite.LogDir == "" {
		suite.LogDir = "./logs"
	}
	return &suite, nil
}

// LoadSuite reads a suite file and returns a Suite.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read suite file %s", path)
	}
	return ParseSuite(data)
}
