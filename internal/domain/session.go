package domain

import (
	"fmt"
	"strings"
	"time"
)

// LoginToken is the credential issued by the server on login
type LoginToken struct {
	Type   string // e.g. "Bearer"
	Value  string
	Expiry time.Time
}

// AuthorizationValue returns the Authorization header value ("<type> <token>")
func (t LoginToken) AuthorizationValue() string {
	return fmt.Sprintf("%s %s", t.Type, t.Value)
}

// Expired returns true if the token expiry has passed. A zero expiry never expires.
func (t LoginToken) Expired(now time.Time) bool {
	return !t.Expiry.IsZero() && !now.Before(t.Expiry)
}

// Session is the authenticated context the client acts under.
// There is at most one per process; see session.Manager.
type Session struct {
	APIBaseURL   string
	MediaBaseURL string
	Token        LoginToken
}

// NewSession derives the API and media locations from a server base URL
func NewSession(serverURL string, token LoginToken) Session {
	base := SanitizeBaseURL(serverURL)
	return Session{
		APIBaseURL:   base + "/api",
		MediaBaseURL: base + "/media",
		Token:        token,
	}
}

// RecipeImageURL returns the media URL of a recipe image
func (s Session) RecipeImageURL(imageID string) string {
	if imageID == "" {
		return ""
	}
	return fmt.Sprintf("%s/recipe-image/%s", s.MediaBaseURL, imageID)
}

// SanitizeBaseURL trims whitespace and trailing slashes from a base URL
func SanitizeBaseURL(base string) string {
	return strings.TrimRight(strings.TrimSpace(base), "/")
}
