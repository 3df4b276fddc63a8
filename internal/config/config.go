// Package config loads the checker configuration file.
package config

import (
	"strings"

	"emgcheck/internal/explorer"
	"emgcheck/internal/scenario"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Root struct {
	Explorer explorer.Options `mapstructure:"explorer"`
	Workers  int              `mapstructure:"workers"`
	LogLevel string           `mapstructure:"log_level"`
	Store    Store            `mapstructure:"store"`

	// Presets are added to the built-in scenarios, replacing those with the same name.
	Presets []*scenario.Template `mapstructure:"presets"`
}

type Store struct {
	// Path of the result database; empty disables history.
	Path string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	d := explorer.DefaultOptions()
	v.SetDefault("explorer.mode", d.Mode)
	v.SetDefault("explorer.strategy", d.Strategy)
	v.SetDefault("explorer.max_depth", d.MaxDepth)
	v.SetDefault("explorer.max_paths", d.MaxPaths)
	v.SetDefault("explorer.samples", d.Samples)
	v.SetDefault("explorer.seed", d.Seed)
	v.SetDefault("workers", 4)
	v.SetDefault("log_level", "info")
	v.SetDefault("store.path", "")
}

// ReadConfig reads path (yaml, json or toml) on top of the defaults.
// An empty path yields the defaults. EMGCHECK_* environment variables
// override both, e.g. EMGCHECK_EXPLORER_MAX_DEPTH.
func ReadConfig(path string) (Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("emgcheck")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Root{}, errors.Wrapf(err, "ReadInConfig %s", path)
		}
		log.Debugf("using config file %s", v.ConfigFileUsed())
	}
	var c Root
	if err := v.Unmarshal(&c); err != nil {
		return Root{}, errors.Wrap(err, "Unmarshal")
	}
	if err := c.Validate(); err != nil {
		return Root{}, err
	}
	return c, nil
}

func (c Root) Validate() error {
	if err := c.Explorer.Validate(); err != nil {
		return errors.Wrap(err, "explorer")
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

// Catalog returns the built-in scenarios extended with c.Presets.
func (c Root) Catalog() (*scenario.Catalog, error) {
	return scenario.NewCatalog(c.Presets...)
}
