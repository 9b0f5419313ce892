// Package config loads todolist settings.
//
// Sources are applied in priority order, each overriding the previous one:
//  1. Built-in defaults
//  2. User config file ($XDG_CONFIG_HOME/todolist/config.toml or the OS equivalent)
//  3. Project config file (./todolist.toml or ./.todolist.toml)
//  4. Explicit file named by TODOLIST_CONFIG or -config
//  5. Environment variables (TODOLIST_*)
//  6. CLI flags
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/todolist/internal/auth"
	"github.com/sandeepkv93/todolist/internal/datecodec"
	"github.com/sandeepkv93/todolist/internal/model"
)

const (
	DefaultDBPath         = "todo.db"
	DefaultHTTPAddr       = "127.0.0.1:8080"
	DefaultSessionFile    = "~/.todolist/session"
	DefaultSessionTTLDays = 30
	DefaultTokenSecret    = "todo_app:abcdef"
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultLogFile        = "todolist.log"

	defaultUsername = "demo"
	defaultPassword = "demo123"
)

// ErrDefaultCredentials is returned by CheckServe while the built-in secret or demo account is active.
var ErrDefaultCredentials = errors.New("config: built-in credentials are active")

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// UserConfig is one login account. Password is accepted in plain text for local setups and hashed at
// startup; PasswordHash wins when both are set.
type UserConfig struct {
	Username     string `toml:"username"`
	Name         string `toml:"name"`
	Password     string `toml:"password"`
	PasswordHash string `toml:"password_hash"`
}

type Config struct {
	DBPath         string       `toml:"db_path"`
	DateLayout     string       `toml:"date_layout"`
	DuePlaceholder string       `toml:"due_placeholder"`
	DefaultSort    string       `toml:"default_sort"`
	HTTPAddr       string       `toml:"http_addr"`
	TokenSecret    string       `toml:"token_secret"`
	SessionTTLDays int          `toml:"session_ttl_days"`
	SessionFile    string       `toml:"session_file"`
	Log            LogConfig    `toml:"log"`
	Users          []UserConfig `toml:"users"`

	AllowDefaultCredentials bool `toml:"allow_default_credentials"`

	// ConfigFiles lists the files that were applied, lowest priority first.
	ConfigFiles []string `toml:"-"`
}

func Defaults() Config {
	return Config{
		DBPath:         DefaultDBPath,
		DateLayout:     datecodec.DefaultDisplayLayout,
		DuePlaceholder: datecodec.DefaultPlaceholder,
		DefaultSort:    string(model.SortByDue),
		HTTPAddr:       DefaultHTTPAddr,
		TokenSecret:    DefaultTokenSecret,
		SessionTTLDays: DefaultSessionTTLDays,
		SessionFile:    DefaultSessionFile,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			File:   DefaultLogFile,
		},
		Users: []UserConfig{{Username: defaultUsername, Name: "Demo User", Password: defaultPassword}},
	}
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

func (c Config) Sort() model.SortKey {
	return model.ParseSortKey(c.DefaultSort)
}

func (c Config) Codec() (*datecodec.Codec, error) {
	return datecodec.New(c.DateLayout, c.DuePlaceholder)
}

func (c Config) UsesDefaultSecret() bool {
	return c.TokenSecret == DefaultTokenSecret
}

// UsesDefaultUser reports whether the demo account still logs in with its built-in password.
func (c Config) UsesDefaultUser() bool {
	for _, u := range c.Users {
		if u.Username == defaultUsername && strings.TrimSpace(u.PasswordHash) == "" && u.Password == defaultPassword {
			return true
		}
	}
	return false
}

// CheckServe refuses the network surface while the built-in secret or demo password is in use, unless
// allow_default_credentials is set.
func (c Config) CheckServe() error {
	if c.AllowDefaultCredentials {
		return nil
	}
	var errs []error
	if c.UsesDefaultSecret() {
		errs = append(errs, errors.New("set token_secret or TODOLIST_TOKEN_SECRET"))
	}
	if c.UsesDefaultUser() {
		errs = append(errs, fmt.Errorf("change the password of user %q", defaultUsername))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w (pass -allow-default-credentials to serve anyway): %w", ErrDefaultCredentials, errors.Join(errs...))
}

// AuthUsers converts the configured accounts, hashing any plain-text passwords.
func (c Config) AuthUsers(hasher *auth.PasswordHasher) ([]auth.User, error) {
	users := make([]auth.User, 0, len(c.Users))
	for _, u := range c.Users {
		hash := strings.TrimSpace(u.PasswordHash)
		if hash == "" {
			if u.Password == "" {
				return nil, fmt.Errorf("config: user %q needs password or password_hash", u.Username)
			}
			h, err := hasher.Hash(u.Password)
			if err != nil {
				return nil, fmt.Errorf("config: hash password for %q: %w", u.Username, err)
			}
			hash = h
		}
		users = append(users, auth.User{Username: u.Username, DisplayName: u.Name, PasswordHash: hash})
	}
	return users, nil
}

func (c Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if _, err := c.Codec(); err != nil {
		errs = append(errs, err)
	}
	if !model.SortKey(c.DefaultSort).IsKnown() {
		errs = append(errs, fmt.Errorf("default_sort %q is not one of %v", c.DefaultSort, model.SortKeys()))
	}
	if c.SessionTTLDays <= 0 {
		errs = append(errs, errors.New("session_ttl_days must be positive"))
	}
	if len(c.TokenSecret) < 8 {
		errs = append(errs, errors.New("token_secret must be at least 8 characters"))
	}
	if len(c.Users) == 0 {
		errs = append(errs, errors.New("at least one user is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
