package server

// BootstrapServerConfig lists what is seeded on startup. Seeding is skipped
// for anything that already exists.
type BootstrapServerConfig struct {
	Users          []BootstrapUserConfig `mapstructure:"users"           yaml:"users"`
	TagInformation bool                  `mapstructure:"tag_information" yaml:"tag_information"`
}

type BootstrapUserConfig struct {
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Role     string `mapstructure:"role"     yaml:"role"`
}
