package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/johnsaigle/repo-showcase/pkg/cache"
	"github.com/johnsaigle/repo-showcase/pkg/config"
	"github.com/johnsaigle/repo-showcase/pkg/fetcher"
	"github.com/johnsaigle/repo-showcase/pkg/github"
	"github.com/johnsaigle/repo-showcase/pkg/session"
)

// ExitError carries a process exit code. Err may be nil when the command
// already reported its outcome.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type rootOptions struct {
	configPath string
	account    string
	backend    string
	logLevel   string
}

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "repo-showcase",
		Short:         "Browse an account's public GitHub repositories",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file")
	rootCmd.PersistentFlags().StringVar(&opts.account, "account", "", "GitHub account to list (default from config or "+config.AccountEnv+")")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "session", "", "session store backend: memory, file, redis or bolt")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newListCmd(opts),
		newBrowseCmd(opts),
		newCacheCmd(opts),
	)

	return rootCmd
}

// app is the wired pipeline shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   session.Store
	cache   *cache.Cache
	fetcher *fetcher.Fetcher
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if o.account != "" {
		cfg.Account = o.account
	}
	if o.backend != "" {
		cfg.Session.Backend = session.Backend(o.backend)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}

// open wires config, logging, the session store, the cache and the fetcher.
// Logs go to logOut, or stderr when nil.
func (o *rootOptions) open(cmd *cobra.Command, requireAccount bool, logOut io.Writer) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	if requireAccount && cfg.Account == "" {
		return nil, errors.New("must provide an account (--account, config file or " + config.AccountEnv + ")")
	}

	if logOut == nil {
		logOut = cmd.ErrOrStderr()
	}
	logger := setupLogger(cfg.LogLevel, cfg.LogFormat, logOut)

	store, err := session.Open(cmd.Context(), cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	c := cache.New(store, cache.WithDuration(cfg.Cache.Duration), cache.WithLogger(logger))

	client, err := github.NewClient(github.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("create GitHub client: %w", err)
	}

	logger.Debug("pipeline ready",
		"account", cfg.Account,
		"session_backend", cfg.Session.Backend,
		"cache_duration", cfg.Cache.Duration,
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		cache:   c,
		fetcher: fetcher.New(client, c, logger),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close session store", "error", err)
	}
}

func setupLogger(level, format string, w io.Writer) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
