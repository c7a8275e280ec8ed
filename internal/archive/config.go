package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tailscale/hujson"

	"github.com/angch/vimp/internal/outline"
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	TodoFile     string `json:"todo_file"`
	HistoryFile  string `json:"history_file"`
	HistoryTitle string `json:"history_title,omitempty"`
	Lock         *bool  `json:"lock,omitempty"`
	LockTimeout  string `json:"lock_timeout,omitempty"`

	// Resolved values (computed, not serialized)
	EffectiveCwd        string        `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	TodoFileAbs         string        `json:"-"` // Absolute path to the live document
	HistoryFileAbs      string        `json:"-"` // Absolute path to the archive
	UseLock             bool          `json:"-"`
	LockTimeoutDuration time.Duration `json:"-"`

	// Sources tracks which config files were loaded (for diagnostics)
	Sources ConfigSources `json:"-"`
}

// ConfigSources tracks which config files were loaded.
type ConfigSources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Defaults.
const (
	DefaultTodoFile    = "TODO.md"
	DefaultHistoryFile = "archived/HISTORY.md"
	DefaultLockTimeout = 2 * time.Second
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TodoFile:     DefaultTodoFile,
		HistoryFile:  DefaultHistoryFile,
		HistoryTitle: outline.DefaultHistoryTitle,
		LockTimeout:  DefaultLockTimeout.String(),
	}
}

// ConfigFileName is the default project config file name.
const ConfigFileName = ".todoclean.json"

// getGlobalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/todoclean/config.json if set, otherwise
// ~/.config/todoclean/config.json. Returns empty string if home directory
// cannot be determined.
func getGlobalConfigPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "todoclean", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "todoclean", "config.json")
	}

	return ""
}

// LoadConfigInput holds the inputs for LoadConfig.
type LoadConfigInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	TodoOverride    string            // --todo flag value; empty means no override
	HistoryOverride string            // --history flag value; empty means no override
	TitleOverride   string            // --title flag value; empty means no override
	Env             map[string]string // environment variables
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/todoclean/config.json)
// 3. Project config file at default location (.todoclean.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty, replaces 3)
// 5. CLI overrides.
//
// All paths in the returned Config are resolved to absolute paths.
func LoadConfig(input LoadConfigInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving working directory: %w", err)
		}

		workDir = abs
	}

	cfg := DefaultConfig()

	globalCfg, globalPath, err := loadGlobalConfig(input.Env)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = globalPath
	cfg = mergeConfig(cfg, globalCfg)

	projectCfg, projectPath, err := loadProjectConfig(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = mergeConfig(cfg, projectCfg)

	// Apply CLI overrides
	if input.TodoOverride != "" {
		cfg.TodoFile = input.TodoOverride
	}

	if input.HistoryOverride != "" {
		cfg.HistoryFile = input.HistoryOverride
	}

	if input.TitleOverride != "" {
		cfg.HistoryTitle = input.TitleOverride
	}

	if err := resolveConfig(&cfg, workDir); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// resolveConfig validates cfg and fills in its computed fields.
func resolveConfig(cfg *Config, workDir string) error {
	if cfg.TodoFile == "" {
		return ErrTodoFileEmpty
	}

	if cfg.HistoryFile == "" {
		return ErrHistoryFileEmpty
	}

	timeout, err := time.ParseDuration(cfg.LockTimeout)
	if err != nil || timeout <= 0 {
		return fmt.Errorf("%w: %q", ErrLockTimeoutInvalid, cfg.LockTimeout)
	}

	cfg.EffectiveCwd = workDir
	cfg.TodoFileAbs = absPath(workDir, cfg.TodoFile)
	cfg.HistoryFileAbs = absPath(workDir, cfg.HistoryFile)
	cfg.UseLock = cfg.Lock == nil || *cfg.Lock
	cfg.LockTimeoutDuration = timeout

	if cfg.TodoFileAbs == cfg.HistoryFileAbs {
		return fmt.Errorf("%w: %s", ErrSameFile, cfg.TodoFile)
	}

	return nil
}

func absPath(workDir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}

	return filepath.Join(workDir, path)
}

// loadGlobalConfig loads the global user config file if it exists.
// Returns the config, the path if loaded, and any error.
func loadGlobalConfig(env map[string]string) (Config, string, error) {
	globalCfgPath := getGlobalConfigPath(env)
	if globalCfgPath == "" {
		return Config{}, "", nil
	}

	globalCfg, loaded, err := loadConfigFile(globalCfgPath, false)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return globalCfg, globalCfgPath, nil
}

// loadProjectConfig loads the project config file (.todoclean.json) or an
// explicit config file. Returns the config, the path if loaded, and any error.
func loadProjectConfig(workDir, configPath string) (Config, string, error) {
	var cfgFile string

	var mustExist bool

	if configPath != "" {
		// Explicit config file - must exist
		cfgFile = configPath
		if !filepath.IsAbs(cfgFile) {
			cfgFile = filepath.Join(workDir, cfgFile)
		}

		mustExist = true

		if _, statErr := os.Stat(cfgFile); statErr != nil {
			return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
		}
	} else {
		cfgFile = filepath.Join(workDir, ConfigFileName)
	}

	fileCfg, loaded, err := loadConfigFile(cfgFile, mustExist)
	if err != nil {
		return Config{}, "", err
	}

	if !loaded {
		return Config{}, "", nil
	}

	return fileCfg, cfgFile, nil
}

// loadConfigFile loads a config file. If mustExist is false, missing files
// return zero config. Returns the config, whether the file was loaded, and
// any error.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicit "" would otherwise be indistinguishable from "not set".
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	for key, errEmpty := range map[string]error{
		"todo_file":    ErrTodoFileEmpty,
		"history_file": ErrHistoryFileEmpty,
	} {
		if val, exists := raw[key]; exists {
			if str, ok := val.(string); ok && str == "" {
				return Config{}, errEmpty
			}
		}
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.TodoFile != "" {
		base.TodoFile = overlay.TodoFile
	}

	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}

	if overlay.HistoryTitle != "" {
		base.HistoryTitle = overlay.HistoryTitle
	}

	if overlay.Lock != nil {
		base.Lock = overlay.Lock
	}

	if overlay.LockTimeout != "" {
		base.LockTimeout = overlay.LockTimeout
	}

	return base
}
