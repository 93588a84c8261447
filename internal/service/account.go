package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmcdole/mcc/internal/api"
	"github.com/mmcdole/mcc/internal/domain"
)

// ErrSignupDisabled indicates the server does not accept new accounts
var ErrSignupDisabled = errors.New("account creation is disabled on this server")

// ErrMissingCredentials indicates an empty username or password
var ErrMissingCredentials = errors.New("username and password are required")

// Account handles login, signup and account-level queries
type Account struct {
	sessions SessionReplacer
	logger   *slog.Logger
}

// NewAccount creates a new account service
func NewAccount(sessions SessionReplacer, logger *slog.Logger) *Account {
	if logger == nil {
		logger = slog.Default()
	}
	return &Account{sessions: sessions, logger: logger}
}

// anonymous returns an unauthenticated client for a server base URL
func (s *Account) anonymous(serverURL string) *api.Client {
	return api.NewClient(domain.SanitizeBaseURL(serverURL)+"/api", nil, nil, s.logger)
}

// Info returns the service info of the server at serverURL
func (s *Account) Info(ctx context.Context, serverURL string) (*domain.ServiceInfo, error) {
	info, err := s.anonymous(serverURL).GetServiceInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get service info: %w", err)
	}
	return info, nil
}

// Login authenticates against serverURL and makes the result the current session
func (s *Account) Login(ctx context.Context, serverURL string, creds domain.Credentials) (*domain.Session, error) {
	if err := checkCredentials(creds); err != nil {
		return nil, err
	}

	token, err := s.anonymous(serverURL).Login(ctx, creds)
	if err != nil {
		s.logger.Error("login failed", "server", serverURL, "username", creds.Username, "error", err)
		return nil, fmt.Errorf("failed to log in: %w", err)
	}

	session := domain.NewSession(serverURL, *token)
	if err := s.sessions.Replace(&session); err != nil {
		return nil, err
	}
	s.logger.Info("logged in", "server", session.APIBaseURL, "username", creds.Username)
	return &session, nil
}

// Signup creates an account. It checks the server allows signups first.
func (s *Account) Signup(ctx context.Context, serverURL string, creds domain.Credentials) (*domain.User, error) {
	if err := checkCredentials(creds); err != nil {
		return nil, err
	}

	client := s.anonymous(serverURL)
	info, err := client.GetServiceInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get service info: %w", err)
	}
	if !info.AccountCreation {
		return nil, ErrSignupDisabled
	}

	user, err := client.CreateAccount(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.logger.Info("account created", "username", user.Username)
	return user, nil
}

// Logout clears the current session
func (s *Account) Logout() error {
	return s.sessions.Replace(nil)
}

// Stats returns counters for the logged in account
func (s *Account) Stats(ctx context.Context) (*domain.AccountStats, error) {
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}
	stats, err := remote.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

func checkCredentials(creds domain.Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return ErrMissingCredentials
	}
	return nil
}
