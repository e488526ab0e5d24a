package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pyforge-dev/pyforge/internal/branding"
	"github.com/pyforge-dev/pyforge/internal/project"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Dir returns the path to the PyForge config directory (~/.pyforge/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the config file (~/.pyforge/config.yaml).
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// EnsureDir creates the config directory if it does not exist.
func EnsureDir() error {
	dir := Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.AutomaticEnv()

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// knownKeys are the default-store keys consulted when a project is built.
var knownKeys = map[string]bool{
	project.KeyCreator:              true,
	project.KeyCreatorEmail:         true,
	project.KeyLicense:              true,
	project.KeyPythonVersion:        true,
	project.KeyMinPythonVersion:     true,
	project.KeyTestedVersions:       true,
	project.KeyManager:              true,
	project.KeyKind:                 true,
	project.KeyMaxLineLength:        true,
	project.KeyDependabot:           true,
	project.KeyDependabotSchedule:   true,
	project.KeyContinuousDeployment: true,
	project.KeyReleaseDrafter:       true,
	project.KeyMultiOSCI:            true,
	project.KeyDocs:                 true,
}

// KnownKeys returns the settable key names, sorted.
func KnownKeys() []string {
	keys := make([]string, 0, len(knownKeys))
	for key := range knownKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// All returns every stored setting.
func All() map[string]any {
	return viper.AllSettings()
}

// Set writes a config key-value pair and saves the config file. The key must
// be one of KnownKeys; value validation happens later, when a project build
// consults the store.
func Set(key, value string) error {
	if !knownKeys[key] {
		return fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(KnownKeys(), ", "))
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	// The tested-versions key holds a list; accept a comma-separated value.
	if key == project.KeyTestedVersions {
		parts := strings.Split(value, ",")
		versions := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				versions = append(versions, p)
			}
		}
		viper.Set(key, versions)
	} else {
		viper.Set(key, value)
	}

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Unset removes one stored key and rewrites the config file. Removing a key
// that is not stored is not an error.
func Unset(key string) error {
	settings := viper.AllSettings()
	if _, ok := settings[key]; !ok {
		return nil
	}
	delete(settings, key)

	if err := EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(FilePath(), data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	viper.Reset()
	Load()
	return nil
}

// Reset deletes the config file, dropping every stored default.
func Reset() error {
	if err := os.Remove(FilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing config file: %w", err)
	}
	viper.Reset()
	Load()
	return nil
}

// Store adapts the loaded settings to the defaults interface consulted when
// a project is built. The zero lookup result means "nothing stored".
type Store struct{}

func (Store) GetString(key string) (string, bool) {
	if !viper.IsSet(key) {
		return "", false
	}
	return viper.GetString(key), true
}

func (Store) GetBool(key string) (bool, bool) {
	if !viper.IsSet(key) {
		return false, false
	}
	return viper.GetBool(key), true
}

func (Store) GetInt(key string) (int, bool) {
	if !viper.IsSet(key) {
		return 0, false
	}
	return viper.GetInt(key), true
}

func (Store) GetStringSlice(key string) ([]string, bool) {
	if !viper.IsSet(key) {
		return nil, false
	}
	return viper.GetStringSlice(key), true
}
