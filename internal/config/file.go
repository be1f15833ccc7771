package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// File is the on-disk TOML configuration schema.
type File struct {
	BaseURL               string `toml:"base_url"`
	AppName               string `toml:"app_name"`
	DataFolder            string `toml:"data_folder"`
	InactivityMinutes     int    `toml:"inactivity_minutes"`
	SessionCheckSeconds   int    `toml:"session_check_seconds"`
	CodeCountdownSeconds  int    `toml:"code_countdown_seconds"`
	ResendCooldownSeconds int    `toml:"resend_cooldown_seconds"`
	HTTPTimeoutSeconds    int    `toml:"http_timeout_seconds"`
}

// LoadFile parses a TOML config file. A missing file yields zero values so that
// defaults apply.
func LoadFile(path string) (File, error) {
	var f File
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return f, nil
	}
	if _, err := toml.DecodeFile(path, &f); err != nil {
		return File{}, err
	}
	return f, nil
}
