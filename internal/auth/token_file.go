package auth

import (
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the session token between runs, like a login cookie.
type TokenFile struct {
	Path string
}

func (f TokenFile) Save(token string) error {
	if strings.TrimSpace(f.Path) == "" {
		return nil
	}
	dir := filepath.Dir(f.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

// Load returns "" when no token has been saved.
func (f TokenFile) Load() (string, error) {
	if strings.TrimSpace(f.Path) == "" {
		return "", nil
	}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

func (f TokenFile) Clear() error {
	if strings.TrimSpace(f.Path) == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
