package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	accountsadapter "github.com/avigier/rhcases/internal/adapters/accounts"
	"github.com/avigier/rhcases/internal/adapters/redhat"
	"github.com/avigier/rhcases/internal/application"
	"github.com/avigier/rhcases/internal/domain"
	"github.com/avigier/rhcases/internal/logging"
	"github.com/avigier/rhcases/internal/ports"
	"github.com/spf13/viper"
)

// credentialEnvVar supplies the offline token when it is not passed as an
// argument. The value is never logged or echoed.
const credentialEnvVar = "RHCASES_OFFLINE_TOKEN"

type settings struct {
	RefreshInterval time.Duration
	CallTimeout     time.Duration
	SafetyMargin    time.Duration
	BackoffFallback time.Duration
	Sort            string
	ClientID        string
	SSOBaseURL      string
	APIBaseURL      string
	LogFile         string
}

// loadSettings resolves tunables from an optional config file; a missing
// file just means defaults.
func loadSettings() (settings, error) {
	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	if homeDir, err := os.UserHomeDir(); err == nil {
		cfg.AddConfigPath(filepath.Join(homeDir, ".config", "rhcases"))
	}

	cfg.SetDefault("refresh.interval", "15m")
	cfg.SetDefault("refresh.call_timeout", "10s")
	cfg.SetDefault("refresh.backoff_fallback", "60s")
	cfg.SetDefault("refresh.sort", "")
	cfg.SetDefault("auth.safety_margin", "30s")
	cfg.SetDefault("auth.client_id", redhat.DefaultClientID)
	cfg.SetDefault("auth.sso_url", redhat.DefaultSSOBaseURL)
	cfg.SetDefault("api.url", redhat.DefaultAPIBaseURL)
	cfg.SetDefault("log.file", "")

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return settings{
		RefreshInterval: cfg.GetDuration("refresh.interval"),
		CallTimeout:     cfg.GetDuration("refresh.call_timeout"),
		BackoffFallback: cfg.GetDuration("refresh.backoff_fallback"),
		Sort:            cfg.GetString("refresh.sort"),
		SafetyMargin:    cfg.GetDuration("auth.safety_margin"),
		ClientID:        cfg.GetString("auth.client_id"),
		SSOBaseURL:      cfg.GetString("auth.sso_url"),
		APIBaseURL:      cfg.GetString("api.url"),
		LogFile:         cfg.GetString("log.file"),
	}, nil
}

type app struct {
	accounts  []domain.Account
	tokens    ports.TokenSource
	refresher *application.Refresher
	settings  settings
	logger    *slog.Logger
	closeLog  func() error
}

// wireApp builds the full dependency graph for one command invocation.
// Config problems surface here, before any screen state is touched.
func wireApp(accountsPath, credential string, s settings) (*app, error) {
	if credential == "" {
		credential = os.Getenv(credentialEnvVar)
	}

	accountList, err := accountsadapter.Load(accountsPath)
	if err != nil {
		return nil, err
	}

	if !application.SortKey(s.Sort).Valid() {
		return nil, &domain.ConfigError{Detail: fmt.Sprintf("unknown sort key %q (valid: severity, modified)", s.Sort)}
	}

	tokenManager, err := redhat.NewTokenManager(credential, redhat.TokenConfig{
		SSOBaseURL:     s.SSOBaseURL,
		ClientID:       s.ClientID,
		SafetyMargin:   s.SafetyMargin,
		RequestTimeout: s.CallTimeout,
	}, nil, ports.SystemClock{})
	if err != nil {
		return nil, fmt.Errorf("offline token missing: pass it as an argument or set %s: %w", credentialEnvVar, err)
	}

	logger, closeLog, err := logging.New(s.LogFile)
	if err != nil {
		return nil, err
	}

	caseClient := redhat.NewCaseClient(redhat.CaseConfig{
		APIBaseURL:     s.APIBaseURL,
		RequestTimeout: s.CallTimeout,
	}, nil)

	refresher := application.NewRefresher(tokenManager, caseClient, application.RefresherOptions{
		CallTimeout:     s.CallTimeout,
		BackoffFallback: s.BackoffFallback,
		Logger:          logger,
	})

	return &app{
		accounts:  accountList,
		tokens:    tokenManager,
		refresher: refresher,
		settings:  s,
		logger:    logger,
		closeLog:  closeLog,
	}, nil
}

func (a *app) close() {
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}
