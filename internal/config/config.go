package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultSessionDBName  = "session.db"
	DefaultLogFileName    = "daftar.log"

	appDirName = "daftar"
)

type Keymap struct {
	Quit          string `toml:"quit"`
	Add           string `toml:"add"`
	Up            string `toml:"up"`
	Down          string `toml:"down"`
	Detail        string `toml:"detail"`
	Confirm       string `toml:"confirm"`
	Cancel        string `toml:"cancel"`
	Edit          string `toml:"edit"`
	Delete        string `toml:"delete"`
	Search        string `toml:"search"`
	CycleCategory string `toml:"cycle_category"`
	CyclePriority string `toml:"cycle_priority"`
	CycleStatus   string `toml:"cycle_status"`
	CycleSort     string `toml:"cycle_sort"`
	ResetFilters  string `toml:"reset_filters"`
	Reload        string `toml:"reload"`
	SignOut       string `toml:"sign_out"`
}

type Config struct {
	SessionDBPath string `toml:"session_db_path"`
	LogPath       string `toml:"log_path"`
	DefaultSort   string `toml:"default_sort"`
	Keys          Keymap `toml:"keys"`

	// Backend credentials come from the environment, not the config file.
	BackendURL string `toml:"-"`
	AnonKey    string `toml:"-"`
}

// ResolveConfigPath places the config under the user config dir, falling
// back to the working directory.
func ResolveConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(base, appDirName, DefaultConfigFileName)
}

// LoadOrCreate reads the TOML config, writing the defaults first when the
// file does not exist yet. Backend credentials come from DAFTAR_URL and
// DAFTAR_ANON_KEY, with a .env file honored when present.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig(filepath.Dir(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return applyEnv(cfg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.SessionDBPath == "" {
		cfg.SessionDBPath = DefaultSessionDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogFileName
	}
	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	_ = godotenv.Load()

	cfg.BackendURL = os.Getenv("DAFTAR_URL")
	cfg.AnonKey = os.Getenv("DAFTAR_ANON_KEY")
	if cfg.BackendURL == "" || cfg.AnonKey == "" {
		return cfg, fmt.Errorf("DAFTAR_URL and DAFTAR_ANON_KEY must be set in the environment or a .env file")
	}
	return cfg, nil
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig(dir string) Config {
	return Config{
		SessionDBPath: filepath.Join(dir, DefaultSessionDBName),
		LogPath:       filepath.Join(dir, DefaultLogFileName),
		DefaultSort:   "latest",
		Keys: Keymap{
			Quit:          "q",
			Add:           "a",
			Up:            "k",
			Down:          "j",
			Detail:        "enter",
			Confirm:       "enter",
			Cancel:        "esc",
			Edit:          "e",
			Delete:        "d",
			Search:        "/",
			CycleCategory: "c",
			CyclePriority: "p",
			CycleStatus:   "s",
			CycleSort:     "o",
			ResetFilters:  "r",
			Reload:        "R",
			SignOut:       "Q",
		},
	}
}
