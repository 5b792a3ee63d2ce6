package server

import "github.com/spf13/viper"

func GetServerDefault() BaseServerConfig {
	return BaseServerConfig{
		ShutdownTimeout: "10s",

		Log: LogServerConfig{
			Name:       "samanvaya",
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogServerRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},

		Metadata: MetadataServerConfig{
			Type: "sqlite",
			SQLite: MetadataSQLiteConfig{
				Path:          "db/samanvaya.db",
				SlowThreshold: "200ms",
				TraceQueries:  false,
			},
		},

		HTTP: HTTPServerConfig{
			Address:      ":5000",
			Mode:         "release",
			ReadTimeout:  "15s",
			WriteTimeout: "30s",
		},

		Lookup: LookupServerConfig{
			MaxIDs: 4,
		},

		Bootstrap: BootstrapServerConfig{
			Users: []BootstrapUserConfig{
				{Username: "admin", Password: "admin", Role: "admin"},
			},
			TagInformation: true,
		},
	}
}

func setDefaults() {
	defaults := GetServerDefault()

	viper.SetDefault("shutdown_timeout", defaults.ShutdownTimeout)

	viper.SetDefault("log.name", defaults.Log.Name)
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)
	viper.SetDefault("metadata.sqlite.slow_threshold", defaults.Metadata.SQLite.SlowThreshold)
	viper.SetDefault("metadata.sqlite.trace_queries", defaults.Metadata.SQLite.TraceQueries)

	viper.SetDefault("http.address", defaults.HTTP.Address)
	viper.SetDefault("http.mode", defaults.HTTP.Mode)
	viper.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	viper.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)

	viper.SetDefault("lookup.max_ids", defaults.Lookup.MaxIDs)

	viper.SetDefault("bootstrap.users", defaults.Bootstrap.Users)
	viper.SetDefault("bootstrap.tag_information", defaults.Bootstrap.TagInformation)
}
