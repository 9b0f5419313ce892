package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/sandeepkv93/todolist/internal/auth"
	"github.com/sandeepkv93/todolist/internal/config"
	"github.com/sandeepkv93/todolist/internal/httpapi"
	"github.com/sandeepkv93/todolist/internal/logging"
	"github.com/sandeepkv93/todolist/internal/storage"
	"github.com/sandeepkv93/todolist/internal/todo"
	"github.com/sandeepkv93/todolist/internal/update"
)

const shutdownTimeout = 15 * time.Second

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}
	var err error
	switch cmd {
	case "", "tui":
		err = runTUI(args)
	case "serve":
		err = runServe(args)
	case "hash-password":
		err = runHashPassword(args, os.Stdin, os.Stdout)
	case "help":
		usage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "todolist: unknown command %q\n\n", cmd)
		usage(os.Stderr)
		return 2
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "todolist failed: %v\n", err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: todolist [tui|serve|hash-password] [flags]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui            interactive task list (default)")
	fmt.Fprintln(w, "  serve          JSON API on -addr")
	fmt.Fprintln(w, "  hash-password  print a bcrypt hash for a users entry in the config file")
}

type app struct {
	repo    *storage.SQLiteRepository
	service *todo.Service
	authn   *auth.Authenticator
}

// openApp opens the task store and builds the login path shared by every surface.
func openApp(ctx context.Context, cfg *config.Config, logger *log.Logger) (*app, error) {
	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}
	repo, err := storage.OpenSQLite(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := repo.Initialize(ctx); err != nil {
		_ = repo.Close()
		return nil, err
	}

	hasher := auth.NewPasswordHasher(auth.DefaultBcryptCost)
	users, err := cfg.AuthUsers(hasher)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	tokens, err := auth.NewTokenManager(auth.TokenConfig{SecretKey: cfg.TokenSecret, TTL: cfg.SessionTTL()})
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	authn, err := auth.NewAuthenticator(users, hasher, tokens)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	if cfg.UsesDefaultSecret() {
		logger.Warn("using the built-in token secret; set token_secret or TODOLIST_TOKEN_SECRET")
	}
	logger.Info("task store ready", "db", cfg.DBPath, "users", len(users), "config_files", cfg.ConfigFiles)
	return &app{repo: repo, service: todo.NewService(repo, codec, logger), authn: authn}, nil
}

func runTUI(args []string) error {
	fs := flag.NewFlagSet("todolist", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	logger, closer, err := logging.NewFile(cfg.Log.File, logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Prefix:     "todolist",
		Timestamps: true,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx := context.Background()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.repo.Close()

	var tokens update.TokenStore
	if cfg.SessionFile != "" {
		tokens = auth.TokenFile{Path: cfg.SessionFile}
	}
	program := tea.NewProgram(update.NewModel(update.Options{
		Context:       ctx,
		Service:       a.service,
		Authenticator: a.authn,
		Tokens:        tokens,
		Logger:        logger,
		Sort:          cfg.Sort(),
	}), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("todolist serve", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}
	if err := cfg.CheckServe(); err != nil {
		return err
	}
	logger := logging.New(os.Stderr, logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Prefix:     "todolist",
		Timestamps: true,
	})

	ctx := context.Background()
	a, err := openApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := httpapi.NewServer(a.service, a.authn, logger, cfg.Sort())
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	wait := gfshutdown.GracefulShutdown(ctx, shutdownTimeout, map[string]gfshutdown.Operation{
		"http-server": func(ctx context.Context) error {
			logger.Info("shutting down http server")
			err := server.Shutdown(ctx)
			// in-flight requests are drained before the store goes away
			return errors.Join(err, a.repo.Close())
		},
	})

	select {
	case err, ok := <-serveErr:
		if ok && err != nil {
			_ = a.repo.Close()
			return fmt.Errorf("serve: %w", err)
		}
		code := <-wait
		logger.Info("exited", "code", code)
	case code := <-wait:
		logger.Info("exited", "code", code)
		if code != 0 {
			return fmt.Errorf("shutdown finished with code %d", code)
		}
	}
	return nil
}

// runHashPassword prints the bcrypt hash of the password given as the only argument, or read from in.
func runHashPassword(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("todolist hash-password", flag.ContinueOnError)
	cost := fs.Int("cost", auth.DefaultBcryptCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var password string
	switch fs.NArg() {
	case 0:
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		password = strings.TrimRight(line, "\r\n")
	case 1:
		password = fs.Arg(0)
	default:
		return errors.New("hash-password takes at most one argument")
	}
	if password == "" {
		return errors.New("password is required")
	}
	hash, err := auth.NewPasswordHasher(*cost).Hash(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
