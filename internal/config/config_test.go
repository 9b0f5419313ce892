package config

import (
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sandeepkv93/todolist/internal/auth"
	"github.com/sandeepkv93/todolist/internal/model"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	t.Setenv("TODOLIST_CONFIG", "")
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(name, "TODOLIST_") {
			t.Setenv(name, "")
		}
	}
}

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != DefaultDBPath || cfg.DateLayout != "02/01/06" || cfg.DuePlaceholder != "-" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Sort() != model.SortByDue {
		t.Fatalf("expected due sort by default, got %q", cfg.Sort())
	}
	if cfg.SessionTTLDays != 30 || !cfg.UsesDefaultSecret() {
		t.Fatalf("unexpected session defaults: %+v", cfg)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Username != "demo" || cfg.Users[0].Name != "Demo User" {
		t.Fatalf("unexpected default users: %+v", cfg.Users)
	}
	if len(cfg.ConfigFiles) != 0 {
		t.Fatalf("expected no config files, got %v", cfg.ConfigFiles)
	}
}

func TestLayeredPriority(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "todolist.toml")
	writeFile(t, path, `
db_path = "from-file.db"
default_sort = "created"
date_layout = "2006-01-02"

[log]
level = "debug"

[[users]]
username = "alice"
name = "Alice"
password_hash = "$2a$04$abcdefghijklmnopqrstuu"
`)
	t.Setenv("TODOLIST_CONFIG", path)
	t.Setenv("TODOLIST_SORT", "status")
	t.Setenv("TODOLIST_SESSION_DAYS", "7")

	cfg, err := Load(newFlagSet(), []string{"-db", "from-flag.db"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "from-flag.db" {
		t.Fatalf("flag should win over file, got %q", cfg.DBPath)
	}
	if cfg.DefaultSort != "status" {
		t.Fatalf("env should win over file, got %q", cfg.DefaultSort)
	}
	if cfg.DateLayout != "2006-01-02" || cfg.Log.Level != "debug" || cfg.Log.Format != DefaultLogFormat {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.SessionTTLDays != 7 {
		t.Fatalf("expected 7 session days, got %d", cfg.SessionTTLDays)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Username != "alice" {
		t.Fatalf("file users should replace defaults: %+v", cfg.Users)
	}
	if len(cfg.ConfigFiles) != 1 || cfg.ConfigFiles[0] != path {
		t.Fatalf("unexpected config files: %v", cfg.ConfigFiles)
	}
}

func TestConfigFlagSelectsFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.toml")
	writeFile(t, path, `http_addr = "0.0.0.0:9999"`)

	cfg, err := Load(newFlagSet(), []string{"-config", path})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9999" {
		t.Fatalf("expected addr from -config file, got %q", cfg.HTTPAddr)
	}
	if len(cfg.Users) != 1 || cfg.Users[0].Username != "demo" {
		t.Fatalf("default users should survive a file without [[users]]: %+v", cfg.Users)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown sort", args: []string{"-sort", "priority"}, want: "default_sort"},
		{name: "bad layout", args: []string{"-date-layout", "dd/mm/yy"}, want: "layout"},
		{name: "zero ttl", args: []string{"-session-days", "0"}, want: "session_ttl_days"},
		{name: "empty db", args: []string{"-db", " "}, want: "db_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(newFlagSet(), tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRejectsUnknownFileKeys(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "typo.toml")
	writeFile(t, path, `db_pth = "x.db"`)
	if _, err := Load(newFlagSet(), []string{"-config=" + path}); err == nil || !strings.Contains(err.Error(), "db_pth") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TODOLIST_DB", "env.db")
	t.Setenv("TODOLIST_DUE_PLACEHOLDER", "n/a")
	t.Setenv("TODOLIST_SESSION_DAYS", "not-a-number")
	t.Setenv("TODOLIST_REMEMBER_LOGIN", "off")
	t.Setenv("TODOLIST_LOG_FORMAT", "json")

	cfg := FromEnv(Defaults())
	if cfg.DBPath != "env.db" || cfg.Log.Format != "json" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.DuePlaceholder != "n/a" {
		t.Fatalf("unexpected placeholder: %q", cfg.DuePlaceholder)
	}
	if cfg.SessionTTLDays != DefaultSessionTTLDays {
		t.Fatalf("invalid int should keep default, got %d", cfg.SessionTTLDays)
	}
	if cfg.SessionFile != "" {
		t.Fatalf("remember-login off should clear session file, got %q", cfg.SessionFile)
	}
}

func TestCheckServeRefusesBuiltInCredentials(t *testing.T) {
	isolate(t)
	cfg, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	err = cfg.CheckServe()
	if !errors.Is(err, ErrDefaultCredentials) {
		t.Fatalf("expected ErrDefaultCredentials, got %v", err)
	}
	if !strings.Contains(err.Error(), "token_secret") || !strings.Contains(err.Error(), `"demo"`) {
		t.Fatalf("error should name both problems: %v", err)
	}

	cfg.TokenSecret = "a-real-secret"
	if err := cfg.CheckServe(); !errors.Is(err, ErrDefaultCredentials) || strings.Contains(err.Error(), "token_secret") {
		t.Fatalf("expected only the demo password to be reported, got %v", err)
	}
	cfg.Users[0].Password = "changed"
	if err := cfg.CheckServe(); err != nil {
		t.Fatalf("custom credentials should pass: %v", err)
	}

	t.Setenv("TODOLIST_ALLOW_DEFAULT_CREDENTIALS", "yes")
	allowed, err := Load(newFlagSet(), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := allowed.CheckServe(); err != nil {
		t.Fatalf("env override should allow defaults: %v", err)
	}

	t.Setenv("TODOLIST_ALLOW_DEFAULT_CREDENTIALS", "")
	flagged, err := Load(newFlagSet(), []string{"-allow-default-credentials"})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !flagged.AllowDefaultCredentials || flagged.CheckServe() != nil {
		t.Fatalf("flag should allow defaults: %+v", flagged)
	}
}

func TestExpandPath(t *testing.T) {
	isolate(t)
	home, _ := os.UserHomeDir()
	if got := expandPath("~/x/session"); got != filepath.Join(home, "x", "session") {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got := expandPath("plain.db"); got != "plain.db" {
		t.Fatalf("plain path changed: %q", got)
	}
}

func TestAuthUsersHashesPlainPasswords(t *testing.T) {
	hasher := auth.NewPasswordHasher(bcrypt.MinCost)
	cfg := Defaults()
	cfg.Users = append(cfg.Users, UserConfig{Username: "bob", PasswordHash: "$2a$04$existing"})

	users, err := cfg.AuthUsers(hasher)
	if err != nil {
		t.Fatalf("auth users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if !hasher.Verify("demo123", users[0].PasswordHash) {
		t.Fatal("plain password was not hashed")
	}
	if users[1].PasswordHash != "$2a$04$existing" {
		t.Fatalf("existing hash altered: %q", users[1].PasswordHash)
	}

	cfg.Users = []UserConfig{{Username: "nopass"}}
	if _, err := cfg.AuthUsers(hasher); err == nil {
		t.Fatal("expected error for user without password")
	}
}
