package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	configFs afero.Fs

	MaxExpansionDepth int `json:"max_expansion_depth" validate:"gte=1"`
	MaxExpansions     int `json:"max_expansions" validate:"gte=1"`

	Color string `json:"color" validate:"oneof=always auto never"`

	Prelude []string `json:"prelude" validate:"unique,dive,required"`

	EventLog string `json:"event_log"`

	Prompt Prompt `json:"prompt"`

	HistoryFile string `json:"history_file"`
}

type Prompt struct {
	Primary      string `json:"primary" validate:"required"`
	Continuation string `json:"continuation" validate:"required"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Fs returns the filesystem rooted at the configuration directory.
func (c *Configuration) Fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewMemMapFs()
	}
	return c.configFs
}

// ReadPrelude returns the contents of a prelude script.
func (c *Configuration) ReadPrelude(name string) ([]byte, error) {
	return afero.ReadFile(c.Fs(), name)
}

// OpenEventLog opens the event log in an append only state. It returns nil
// if the event log is disabled.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	if c.EventLog == "" {
		return nil, nil
	}
	return c.Fs().OpenFile(c.EventLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// HistoryPath returns the path of the REPL history on the OS filesystem, or
// "" if history is disabled or the configuration isn't on disk.
func (c *Configuration) HistoryPath() string {
	if c.HistoryFile == "" {
		return ""
	}
	base, ok := c.configFs.(*afero.BasePathFs)
	if !ok {
		return ""
	}
	path, err := base.RealPath(c.HistoryFile)
	if err != nil {
		return ""
	}
	return path
}

// Default returns the built-in configuration backed by fs.
func Default(fs afero.Fs) *Configuration {
	cfg := defaultConfig()
	cfg.configFs = fs
	return cfg
}

func defaultConfig() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
