package world

// DefaultDriver is the driver used when none is configured.
const DefaultDriver = "memory"

// Config holds the parameters a driver needs to open a world connection.
// Drivers ignore fields that do not apply to them.
type Config struct {
	Driver    string `json:"driver,omitempty" yaml:"driver,omitempty" env:"WORLDBACKUP_WORLD_DRIVER"`
	Host      string `json:"host,omitempty" yaml:"host,omitempty" env:"WORLDBACKUP_WORLD_HOST"`
	Port      int    `json:"port,omitempty" yaml:"port,omitempty" env:"WORLDBACKUP_WORLD_PORT"`
	World     string `json:"world,omitempty" yaml:"world,omitempty" env:"WORLDBACKUP_WORLD_NAME"`
	Citizen   string `json:"citizen,omitempty" yaml:"citizen,omitempty" env:"WORLDBACKUP_WORLD_CITIZEN"`
	Password  string `json:"password,omitempty" yaml:"password,omitempty" env:"WORLDBACKUP_WORLD_PASSWORD"`
	StatePath string `json:"state_path,omitempty" yaml:"state_path,omitempty" env:"WORLDBACKUP_WORLD_STATE_PATH"` // memory driver snapshot file
}

// DefaultConfig returns the default world configuration.
func DefaultConfig() Config {
	return Config{Driver: DefaultDriver}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Driver != "" {
		c.Driver = source.Driver
	}
	if source.Host != "" {
		c.Host = source.Host
	}
	if source.Port != 0 {
		c.Port = source.Port
	}
	if source.World != "" {
		c.World = source.World
	}
	if source.Citizen != "" {
		c.Citizen = source.Citizen
	}
	if source.Password != "" {
		c.Password = source.Password
	}
	if source.StatePath != "" {
		c.StatePath = source.StatePath
	}
}
