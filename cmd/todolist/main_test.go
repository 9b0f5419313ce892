package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/sandeepkv93/todolist/internal/config"
)

func TestHashPasswordFromArgument(t *testing.T) {
	var out bytes.Buffer
	if err := runHashPassword([]string{"-cost", "4", "demo123"}, strings.NewReader(""), &out); err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("demo123")); err != nil {
		t.Fatalf("printed hash does not verify: %v", err)
	}
}

func TestHashPasswordFromStdin(t *testing.T) {
	var out bytes.Buffer
	if err := runHashPassword([]string{"-cost", "4"}, strings.NewReader("s3cret\n"), &out); err != nil {
		t.Fatalf("hash-password: %v", err)
	}
	hash := strings.TrimSpace(out.String())
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")); err != nil {
		t.Fatalf("trailing newline should not be hashed: %v", err)
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := runHashPassword(nil, strings.NewReader("\n"), &out); err == nil {
		t.Fatal("expected error for empty password")
	}
	if err := runHashPassword([]string{"a", "b"}, strings.NewReader(""), &out); err == nil {
		t.Fatal("expected error for extra arguments")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if code := run([]string{"frobnicate"}); code != 2 {
		t.Fatalf("expected exit code 2, got %d", code)
	}
}

func TestServeRefusesBuiltInCredentials(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	for _, name := range []string{"TODOLIST_CONFIG", "TODOLIST_TOKEN_SECRET", "TODOLIST_ALLOW_DEFAULT_CREDENTIALS"} {
		t.Setenv(name, "")
	}
	db := filepath.Join(dir, "tasks.db")

	err := runServe([]string{"-db", db, "-addr", "127.0.0.1:0"})
	if !errors.Is(err, config.ErrDefaultCredentials) {
		t.Fatalf("expected serve to refuse built-in credentials, got %v", err)
	}
	if _, err := os.Stat(db); !os.IsNotExist(err) {
		t.Fatalf("store should not be opened, stat err: %v", err)
	}
}
