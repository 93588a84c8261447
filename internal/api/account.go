package api

import (
	"context"
	"net/http"

	"github.com/mmcdole/mcc/internal/domain"
)

// GetServiceInfo returns the server version and whether signups are open
func (c *Client) GetServiceInfo(ctx context.Context) (*domain.ServiceInfo, error) {
	var resp apiInfoDTO
	if err := c.getJSON(ctx, "/info/", nil, &resp); err != nil {
		return nil, err
	}
	return &domain.ServiceInfo{
		Version:         resp.Version,
		AccountCreation: resp.AccountCreation,
	}, nil
}

// Login exchanges credentials for a login token
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginToken, error) {
	var resp loginTokenDTO
	payload := credentialsDTO{Username: creds.Username, Password: creds.Password}
	if err := c.sendJSON(ctx, http.MethodPost, "/login/", payload, &resp); err != nil {
		return nil, err
	}
	return &domain.LoginToken{
		Type:   resp.Type,
		Value:  resp.Token,
		Expiry: resp.Expiry,
	}, nil
}

// CreateAccount registers a new user
func (c *Client) CreateAccount(ctx context.Context, creds domain.Credentials) (*domain.User, error) {
	var resp userDTO
	payload := credentialsDTO{Username: creds.Username, Password: creds.Password}
	if err := c.sendJSON(ctx, http.MethodPost, "/users/", payload, &resp); err != nil {
		return nil, err
	}
	return &domain.User{ID: resp.ID, Username: resp.Username}, nil
}

// GetStats returns counters for the logged in account
func (c *Client) GetStats(ctx context.Context) (*domain.AccountStats, error) {
	var resp accountStatsDTO
	if err := c.getJSON(ctx, "/stats/me/", nil, &resp); err != nil {
		return nil, err
	}
	return &domain.AccountStats{
		UserCount:       resp.UserCount,
		RecipeCount:     resp.RecipeCount,
		PantryItemCount: resp.PantryItemCount,
		LabelCount:      resp.LabelCount,
	}, nil
}

// GetLabels returns every label in use by the account
func (c *Client) GetLabels(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.getJSON(ctx, "/labels/", nil, &resp); err != nil {
		return nil, err
	}
	return nonNil(resp), nil
}
