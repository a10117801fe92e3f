package config

import (
	"os"
	"path/filepath"

	"github.com/rileyhilliard/speedo/internal/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".speedo.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/speedo"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'speedo init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .speedo.yaml in current directory
// 3. .speedo.yaml in parent directories (stops at home)
// 4. ~/.config/speedo/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	home, _ := os.UserHomeDir()
	dir := cwd
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && dir == home) {
			break
		}
		dir = parent
	}

	if home != "" {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(global); err == nil {
			return global, nil
		}
	}

	return "", nil
}

// LoadOrDefault loads the config found by Find(explicit), or returns defaults
// when there is none. The returned path is empty for defaults.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		cfg := DefaultConfig()
		expandPaths(cfg)
		return cfg, "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+path)
	}

	expandPaths(cfg)
	return cfg, nil
}

func expandPaths(cfg *Config) {
	cfg.Recorder.Path = ExpandPath(cfg.Recorder.Path)
	cfg.Log.File = ExpandPath(cfg.Log.File)
	cfg.Link.SSH.IdentityFile = ExpandPath(cfg.Link.SSH.IdentityFile)
	if cfg.Link.Type == LinkSerial {
		cfg.Link.Address = ExpandPath(cfg.Link.Address)
	}
}

// starter is the subset written by 'speedo init'; everything else comes
// from defaults on load.
type starter struct {
	Version  int            `yaml:"version"`
	Link     starterLink    `yaml:"link"`
	Recorder *starterRecord `yaml:"recorder,omitempty"`
}

type starterLink struct {
	Type    string `yaml:"type"`
	Peer    string `yaml:"peer,omitempty"`
	Address string `yaml:"address,omitempty"`
	Baud    int    `yaml:"baud,omitempty"`
	Command string `yaml:"command,omitempty"`
}

type starterRecord struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// MarshalStarter renders a minimal config file for the given link settings.
func MarshalStarter(link LinkConfig, rec RecorderConfig) ([]byte, error) {
	s := starter{
		Version: CurrentConfigVersion,
		Link: starterLink{
			Type:    link.Type,
			Peer:    link.Peer,
			Address: link.Address,
			Command: link.Command,
		},
	}
	if link.Type == LinkSerial {
		s.Link.Baud = link.Baud
	}
	if link.Type != LinkSSH {
		s.Link.Command = ""
	}
	if rec.Enabled {
		s.Recorder = &starterRecord{Enabled: true, Path: rec.Path}
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to generate config", "")
	}
	return data, nil
}
