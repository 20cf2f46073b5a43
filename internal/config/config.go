package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mytasks/internal/task"
)

const (
	AppName               = "mytasks"
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "mytasks.db"
	DefaultLogName        = "mytasks.log"
	EnvConfigPath         = "MYTASKS_CONFIG"
)

type Keymap struct {
	Quit       string `toml:"quit" yaml:"quit"`
	Add        string `toml:"add" yaml:"add"`
	Up         string `toml:"up" yaml:"up"`
	Down       string `toml:"down" yaml:"down"`
	Edit       string `toml:"edit" yaml:"edit"`
	Delete     string `toml:"delete" yaml:"delete"`
	Duplicate  string `toml:"duplicate" yaml:"duplicate"`
	Detail     string `toml:"detail" yaml:"detail"`
	Confirm    string `toml:"confirm" yaml:"confirm"`
	Cancel     string `toml:"cancel" yaml:"cancel"`
	Search     string `toml:"search" yaml:"search"`
	Filter     string `toml:"filter" yaml:"filter"`
	StatusNext string `toml:"status_next" yaml:"status_next"`
	NotStarted string `toml:"not_started" yaml:"not_started"`
	InProgress string `toml:"in_progress" yaml:"in_progress"`
	Done       string `toml:"done" yaml:"done"`
	Export     string `toml:"export" yaml:"export"`
	Import     string `toml:"import" yaml:"import"`
	ClearAll   string `toml:"clear_all" yaml:"clear_all"`
	DarkMode   string `toml:"dark_mode" yaml:"dark_mode"`
	NextField  string `toml:"next_field" yaml:"next_field"`
	PrevField  string `toml:"prev_field" yaml:"prev_field"`
	Save       string `toml:"save" yaml:"save"`
}

type Backup struct {
	// Schedule is a cron spec with seconds, e.g. "0 0 * * * *". Empty disables backups.
	Schedule string `toml:"schedule" yaml:"schedule"`
	Dir      string `toml:"dir" yaml:"dir"`
}

type Config struct {
	DBPath        string `toml:"db_path" yaml:"db_path"`
	DefaultFilter string `toml:"default_filter" yaml:"default_filter"`
	ExportDir     string `toml:"export_dir" yaml:"export_dir"`
	LogPath       string `toml:"log_path" yaml:"log_path"`
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	MetricsPath   string `toml:"metrics_path" yaml:"metrics_path"`
	Backup        Backup `toml:"backup" yaml:"backup"`
	Keys          Keymap `toml:"keys" yaml:"keys"`
}

// ResolveConfigPath honours $MYTASKS_CONFIG, then $XDG_CONFIG_HOME, then
// ~/.config. It falls back to the working directory when no home is known.
func ResolveConfigPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p
	}
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, AppName, DefaultConfigFileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(home, ".config", AppName, DefaultConfigFileName)
}

// LoadOrCreate reads the config at path, writing the defaults first when
// the file does not exist. Relative paths inside the config are resolved
// against the config file's directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return resolve(cfg, filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return cfg, err
	}
	return resolve(cfg, filepath.Dir(path)), nil
}

// Default returns the built-in configuration with relative paths left as-is.
func Default() Config {
	return resolve(defaultConfig(), "")
}

func (c Config) FilterMode() task.FilterMode {
	m, _ := task.ParseFilterMode(c.DefaultFilter)
	return m
}

func resolve(cfg Config, base string) Config {
	def := defaultConfig()
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	if cfg.LogPath == "" {
		cfg.LogPath = DefaultLogName
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	if _, ok := task.ParseFilterMode(cfg.DefaultFilter); !ok {
		cfg.DefaultFilter = def.DefaultFilter
	}
	cfg.DBPath = absUnder(base, cfg.DBPath)
	cfg.LogPath = absUnder(base, cfg.LogPath)
	if cfg.MetricsPath != "" {
		cfg.MetricsPath = absUnder(base, cfg.MetricsPath)
	}
	if cfg.Backup.Dir == "" {
		cfg.Backup.Dir = "backups"
	}
	cfg.Backup.Dir = absUnder(base, cfg.Backup.Dir)
	cfg.Keys = fillKeys(cfg.Keys, def.Keys)
	return cfg
}

// absUnder expands ~/ and anchors relative paths at base.
func absUnder(base, p string) string {
	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	if filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

func fillKeys(k, def Keymap) Keymap {
	pairs := []struct {
		dst *string
		def string
	}{
		{&k.Quit, def.Quit}, {&k.Add, def.Add}, {&k.Up, def.Up}, {&k.Down, def.Down},
		{&k.Edit, def.Edit}, {&k.Delete, def.Delete}, {&k.Duplicate, def.Duplicate},
		{&k.Detail, def.Detail}, {&k.Confirm, def.Confirm}, {&k.Cancel, def.Cancel},
		{&k.Search, def.Search}, {&k.Filter, def.Filter}, {&k.StatusNext, def.StatusNext},
		{&k.NotStarted, def.NotStarted}, {&k.InProgress, def.InProgress}, {&k.Done, def.Done},
		{&k.Export, def.Export}, {&k.Import, def.Import}, {&k.ClearAll, def.ClearAll},
		{&k.DarkMode, def.DarkMode}, {&k.NextField, def.NextField}, {&k.PrevField, def.PrevField},
		{&k.Save, def.Save},
	}
	for _, p := range pairs {
		if *p.dst == "" {
			*p.dst = p.def
		}
	}
	return k
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func write(path string, cfg Config) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = toml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultConfig() Config {
	return Config{
		DBPath:        DefaultDBName,
		DefaultFilter: task.FilterAll.String(),
		ExportDir:     ".",
		LogPath:       DefaultLogName,
		LogLevel:      "info",
		Backup: Backup{
			Dir: "backups",
		},
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Edit:       "e",
			Delete:     "d",
			Duplicate:  "c",
			Detail:     "enter",
			Confirm:    "enter",
			Cancel:     "esc",
			Search:     "/",
			Filter:     "f",
			StatusNext: " ",
			NotStarted: "1",
			InProgress: "2",
			Done:       "3",
			Export:     "x",
			Import:     "i",
			ClearAll:   "C",
			DarkMode:   "D",
			NextField:  "tab",
			PrevField:  "shift+tab",
			Save:       "ctrl+s",
		},
	}
}
