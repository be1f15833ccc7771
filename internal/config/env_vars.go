package config

import (
	"os"
	"path/filepath"
)

const (
	baseURLVar = "NUBARTE_BASE_URL"
	appNameVar = "NUBARTE_APP_NAME"
	folderVar  = "NUBARTE_FOLDER"
)

type EnvVars struct {
	file File
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetBaseURL() string {
	if v := os.Getenv(baseURLVar); v != "" {
		return v
	}
	if e.file.BaseURL != "" {
		return e.file.BaseURL
	}
	return "https://api.nubarte.mx"
}

func (e EnvVars) GetAppName() string {
	if v := os.Getenv(appNameVar); v != "" {
		return v
	}
	if e.file.AppName != "" {
		return e.file.AppName
	}
	return "Nubarte"
}

func (e EnvVars) GetDataFolder() string {
	if v := os.Getenv(folderVar); v != "" {
		return v
	}
	if e.file.DataFolder != "" {
		return e.file.DataFolder
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nubarte"
	}
	return filepath.Join(home, ".nubarte")
}

func (e EnvVars) GetCredentialsFile() string {
	return filepath.Join(e.GetDataFolder(), "credentials.bin")
}

func (e EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
