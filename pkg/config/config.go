/*
Package config manages configuration for wordcheck.

Two layers exist. The TOML file (config.toml in the user config directory)
holds the [speller], [server] and [cli] sections. The engine itself only
sees SpellerConfig, which can also be built from the flat string Options
map ("language", "personal-path", ...) that -o key=value flags feed.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Speller SpellerConfig `toml:"speller"`
	Server  ServerConfig  `toml:"server"`
	CLI     CliConfig     `toml:"cli"`
}

// SpellerConfig has the engine options.
type SpellerConfig struct {
	Language     string `toml:"language"`
	DictPath     string `toml:"dict_path"`
	PersonalPath string `toml:"personal_path"`
	ReplPath     string `toml:"repl_path"`
	Encoding     string `toml:"encoding"`
	CaseMode     string `toml:"case_mode"`
	MaxDistance  int    `toml:"max_distance"`
	Phonetic     string `toml:"phonetic"`
	SuggestLimit int    `toml:"suggest_limit"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	MaxWordLen    int `toml:"max_word_len"`
	MaxLimit      int `toml:"max_limit"`
	AutosaveEvery int `toml:"autosave_every"`
}

// CliConfig holds pipe mode options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppDirName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	// Not conventional, fallback from ~/.config if not writable
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppDirName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordcheck/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultSpellerConfig returns the engine defaults, matching Keys.
func DefaultSpellerConfig() SpellerConfig {
	return SpellerConfig{
		Language:     "en",
		DictPath:     "data/",
		Encoding:     "utf-8",
		CaseMode:     CaseFallback,
		MaxDistance:  2,
		Phonetic:     "metaphone",
		SuggestLimit: 10,
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Speller: DefaultSpellerConfig(),
		Server: ServerConfig{
			MaxWordLen:    64,
			MaxLimit:      64,
			AutosaveEvery: 20,
		},
		CLI: CliConfig{
			DefaultLimit: 10,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file. Speller values that fail validation
// are replaced by their defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	config.sanitize()
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if spellerSection, ok := utils.ExtractSection(tempConfig, "speller"); ok {
		extractSpellerConfig(spellerSection, &config.Speller)
	}
	if serverSection, ok := utils.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	if cliSection, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		extractCliConfig(cliSection, &config.CLI)
	}
	config.sanitize()
	return config, nil
}

// sanitize resets invalid speller fields one by one.
func (c *Config) sanitize() {
	defaults := DefaultSpellerConfig().Options()
	opts := c.Speller.Options()
	for _, k := range keyTable {
		if err := k.check(opts[k.Name]); err != nil {
			log.Warnf("Invalid config value: %v. Using default %q", err, defaults[k.Name])
			opts[k.Name] = defaults[k.Name]
		}
	}
	if opts["language"] == "" {
		opts["language"] = defaults["language"]
	}
	fixed := DefaultSpellerConfig()
	if err := fixed.Apply(opts); err == nil {
		c.Speller = fixed
	}
	if c.Server.MaxLimit < 0 {
		c.Server.MaxLimit = DefaultConfig().Server.MaxLimit
	}
	if c.Server.AutosaveEvery < 0 {
		c.Server.AutosaveEvery = 0
	}
}

// extractSpellerConfig extracts speller configuration from a map
func extractSpellerConfig(data map[string]any, speller *SpellerConfig) {
	fields := map[string]*string{
		"language":      &speller.Language,
		"dict_path":     &speller.DictPath,
		"personal_path": &speller.PersonalPath,
		"repl_path":     &speller.ReplPath,
		"encoding":      &speller.Encoding,
		"case_mode":     &speller.CaseMode,
		"phonetic":      &speller.Phonetic,
	}
	for key, field := range fields {
		if val, ok := utils.ExtractString(data, key); ok {
			*field = val
		}
	}
	if val, ok := utils.ExtractInt64(data, "max_distance"); ok {
		speller.MaxDistance = val
	}
	if val, ok := utils.ExtractInt64(data, "suggest_limit"); ok {
		speller.SuggestLimit = val
	}
}

// extractServerConfig extracts server configuration from a map
func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt64(data, "max_word_len"); ok {
		server.MaxWordLen = val
	}
	if val, ok := utils.ExtractInt64(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt64(data, "autosave_every"); ok {
		server.AutosaveEvery = val
	}
}

// extractCliConfig extracts CLI config from a map
func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt64(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	return SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}
