package config

import (
	"os"
	"strconv"
	"strings"
)

func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("TODOLIST_DB"); ok {
		cfg.DBPath = v
	}
	if v, ok := getEnvString("TODOLIST_DATE_LAYOUT"); ok {
		cfg.DateLayout = v
	}
	if v, ok := getEnvString("TODOLIST_DUE_PLACEHOLDER"); ok {
		cfg.DuePlaceholder = v
	}
	if v, ok := getEnvString("TODOLIST_SORT"); ok {
		cfg.DefaultSort = v
	}
	if v, ok := getEnvString("TODOLIST_HTTP_ADDR"); ok {
		cfg.HTTPAddr = v
	}
	if v, ok := getEnvString("TODOLIST_TOKEN_SECRET"); ok {
		cfg.TokenSecret = v
	}
	if v, ok := getEnvBool("TODOLIST_ALLOW_DEFAULT_CREDENTIALS"); ok {
		cfg.AllowDefaultCredentials = v
	}
	if v, ok := getEnvInt("TODOLIST_SESSION_DAYS"); ok && v > 0 {
		cfg.SessionTTLDays = v
	}
	if v, ok := getEnvString("TODOLIST_SESSION_FILE"); ok {
		cfg.SessionFile = v
	}
	if v, ok := getEnvBool("TODOLIST_REMEMBER_LOGIN"); ok && !v {
		cfg.SessionFile = ""
	}
	if v, ok := getEnvString("TODOLIST_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := getEnvString("TODOLIST_LOG_FORMAT"); ok {
		cfg.Log.Format = v
	}
	if v, ok := getEnvString("TODOLIST_LOG_FILE"); ok {
		cfg.Log.File = v
	}
	return cfg
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
