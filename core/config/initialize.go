package config

import (
	"log"
	"os"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir and loads it. An
// existing configuration is kept.
func Initialize(dir string, logger *log.Logger) (*Configuration, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	fs, err := dirFs(dir)
	if err != nil {
		return nil, err
	}
	return InitializeFs(fs, logger)
}

// InitializeFs writes the default configuration to the root of fs and loads
// it.
func InitializeFs(fs afero.Fs, logger *log.Logger) (*Configuration, error) {
	exists, err := afero.Exists(fs, ConfigurationName)
	if err != nil {
		return nil, err
	}

	if exists {
		logger.Printf("%s already exists, keeping it\n", ConfigurationName)
	} else {
		logger.Printf("writing %s\n", ConfigurationName)
		if err := afero.WriteFile(fs, ConfigurationName, defaultConfigData, 0644); err != nil {
			return nil, err
		}
	}

	return LoadFs(fs)
}
