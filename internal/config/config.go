package config

// Config is the aggregate configuration surface consumed by the client wiring.
// Values resolve in order: environment variable, config file, built-in default.
type Config interface {
	EnvConfig
	SessionConfig
}

type EnvConfig interface {
	GetBaseURL() string
	GetAppName() string
	GetDataFolder() string
	GetCredentialsFile() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Session
}

func New() Config {
	return mainConfig{}
}

// NewFromFile loads a TOML config file and layers it under the environment
// variables. A missing file is not an error; defaults apply.
func NewFromFile(path string) (Config, error) {
	file, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return mainConfig{
		EnvVars: EnvVars{file: file},
		Session: Session{file: file},
	}, nil
}
