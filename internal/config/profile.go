package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Profile is the device-cloud account used for remote status queries.
type Profile struct {
	Username  string `yaml:"username"`
	AccessKey string `yaml:"access_key"`
	Endpoint  string `yaml:"endpoint"`
}

// LoadProfile reads the profile file. A missing or incomplete profile is a
// setup error: remote polling cannot run without credentials.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read profile %s", path)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrapf(err, "invalid profile %s", path)
	}
	if p.Username == "" || p.AccessKey == "" {
		return nil, errors.Errorf("profile %s: username and access_key are required", path)
	}
	if p.Endpoint == "" {
		return nil, errors.Errorf("profile %s: endpoint is required", path)
	}
	return &p, nil
}
