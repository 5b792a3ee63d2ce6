package server

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseServerConfig struct {
	ShutdownTimeout string `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`

	Log       LogServerConfig       `mapstructure:"log"       yaml:"log"`
	Metadata  MetadataServerConfig  `mapstructure:"metadata"  yaml:"metadata"`
	HTTP      HTTPServerConfig      `mapstructure:"http"      yaml:"http"`
	Lookup    LookupServerConfig    `mapstructure:"lookup"    yaml:"lookup"`
	Bootstrap BootstrapServerConfig `mapstructure:"bootstrap" yaml:"bootstrap"`
}

func LoadServerConfig() (*BaseServerConfig, error) {
	cfg := &BaseServerConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate rejects settings the agent cannot start with.
func (cfg *BaseServerConfig) Validate() error {
	if cfg.Metadata.Type != "sqlite" {
		return fmt.Errorf("unsupported metadata type '%s'", cfg.Metadata.Type)
	}
	if cfg.Metadata.SQLite.Path == "" {
		return fmt.Errorf("metadata.sqlite.path is required")
	}
	if cfg.Lookup.MaxIDs <= 0 {
		return fmt.Errorf("lookup.max_ids must be positive, got %d", cfg.Lookup.MaxIDs)
	}
	for i, user := range cfg.Bootstrap.Users {
		if user.Username == "" || user.Password == "" {
			return fmt.Errorf("bootstrap.users[%d] requires username and password", i)
		}
	}
	return nil
}
