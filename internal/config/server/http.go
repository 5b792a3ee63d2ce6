package server

// HTTPServerConfig controls the API listener.
type HTTPServerConfig struct {
	Address      string `mapstructure:"address"       yaml:"address"`
	Mode         string `mapstructure:"mode"          yaml:"mode"`
	ReadTimeout  string `mapstructure:"read_timeout"  yaml:"read_timeout"`
	WriteTimeout string `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// LookupServerConfig bounds the comparison view.
type LookupServerConfig struct {
	MaxIDs int `mapstructure:"max_ids" yaml:"max_ids"`
}
