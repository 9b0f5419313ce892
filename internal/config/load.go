package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load applies every configuration source and validates the result. fs may be nil; args are the
// arguments left after the subcommand name.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Defaults()

	files := []string{findUserConfigFile(), findProjectConfigFile()}
	explicit := explicitConfigFile(args)
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fmt.Errorf("config file %s: %w", explicit, err)
		}
		files = append(files, explicit)
	}
	for _, path := range files {
		if path == "" {
			continue
		}
		if err := loadConfigFile(&cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
		cfg.ConfigFiles = append(cfg.ConfigFiles, path)
	}

	cfg = FromEnv(cfg)

	if err := parseFlags(&cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	finalize(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFile decodes over cfg. A [[users]] table in the file replaces the default accounts.
func loadConfigFile(cfg *Config, path string) error {
	users := cfg.Users
	cfg.Users = nil
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		cfg.Users = users
		return err
	}
	if !md.IsDefined("users") {
		cfg.Users = users
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todolist", flag.ContinueOnError)
	}
	var configFile string
	fs.StringVar(&configFile, "config", "", "Path to a TOML config file")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite task database")
	fs.StringVar(&cfg.DateLayout, "date-layout", cfg.DateLayout, "Display layout for due dates (Go reference layout)")
	fs.StringVar(&cfg.DuePlaceholder, "due-placeholder", cfg.DuePlaceholder, "Text shown for tasks without a due date")
	fs.StringVar(&cfg.DefaultSort, "sort", cfg.DefaultSort, "Initial sort key: due, created, status or id")
	fs.StringVar(&cfg.HTTPAddr, "addr", cfg.HTTPAddr, "Listen address for serve")
	fs.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Where the login token is kept between runs")
	fs.BoolVar(&cfg.AllowDefaultCredentials, "allow-default-credentials", cfg.AllowDefaultCredentials, "Let serve start with the built-in token secret or demo password")
	fs.IntVar(&cfg.SessionTTLDays, "session-days", cfg.SessionTTLDays, "Days a login stays valid")
	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Log level: debug, info, warn, error")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Log format: text, json, logfmt")
	fs.StringVar(&cfg.Log.File, "log-file", cfg.Log.File, "Log file for the terminal UI")
	return fs.Parse(args)
}

func finalize(cfg *Config) {
	cfg.DBPath = expandPath(strings.TrimSpace(cfg.DBPath))
	cfg.SessionFile = expandPath(strings.TrimSpace(cfg.SessionFile))
	cfg.Log.File = expandPath(strings.TrimSpace(cfg.Log.File))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	cfg.DefaultSort = strings.ToLower(strings.TrimSpace(cfg.DefaultSort))
}

// explicitConfigFile finds -config before the flag set is parsed, so the file can sit below env and
// flags in priority.
func explicitConfigFile(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if v, ok := strings.CutPrefix(name, "config="); ok {
			return expandPath(v)
		}
		if name == "config" && i+1 < len(args) {
			return expandPath(args[i+1])
		}
	}
	return expandPath(strings.TrimSpace(os.Getenv("TODOLIST_CONFIG")))
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return existing(filepath.Join(dir, "todolist", "config.toml"))
}

func findProjectConfigFile() string {
	for _, name := range []string{"todolist.toml", ".todolist.toml"} {
		if path := existing(name); path != "" {
			return path
		}
	}
	return ""
}

func existing(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		if expanded == "~" {
			return home
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}
