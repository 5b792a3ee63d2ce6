package server

// MetadataServerConfig holds metadata store configuration
type MetadataServerConfig struct {
	Type   string               `mapstructure:"type"   yaml:"type"`
	SQLite MetadataSQLiteConfig `mapstructure:"sqlite" yaml:"sqlite"`
}

// MetadataSQLiteConfig holds SQLite-specific configuration
type MetadataSQLiteConfig struct {
	Path          string `mapstructure:"path"           yaml:"path"`
	SlowThreshold string `mapstructure:"slow_threshold" yaml:"slow_threshold"`
	TraceQueries  bool   `mapstructure:"trace_queries"  yaml:"trace_queries"`
}
