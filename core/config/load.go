package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory.
func Load(path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	fs, err := dirFs(path)
	if err != nil {
		return nil, err
	}
	return LoadFs(fs)
}

// LoadFs loads config.yaml from the root of fs. Missing fields keep their
// default values.
func LoadFs(fs afero.Fs) (*Configuration, error) {
	configContents, err := afero.ReadFile(fs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	out := defaultConfig()
	if err := yaml.UnmarshalStrict(configContents, out); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ConfigurationName, err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigurationName, err)
	}
	out.configFs = fs
	return out, nil
}

func dirFs(path string) (afero.Fs, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return afero.NewBasePathFs(afero.NewOsFs(), abs), nil
}
