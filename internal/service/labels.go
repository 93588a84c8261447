package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/mcc/internal/domain"
	"github.com/mmcdole/mcc/internal/search"
)

// Labels lists the account's labels, falling back to the last fetched list
// when the server cannot be reached.
type Labels struct {
	sessions Sessions
	store    domain.Store
	logger   *slog.Logger

	// concurrent fetches share one request
	sfGroup singleflight.Group
}

// NewLabels creates a new labels service
func NewLabels(sessions Sessions, store domain.Store, logger *slog.Logger) *Labels {
	if logger == nil {
		logger = slog.Default()
	}
	return &Labels{sessions: sessions, store: store, logger: logger}
}

// Fetch returns the current labels. On a connection failure the cached list
// is returned instead, if there is one.
func (s *Labels) Fetch(ctx context.Context) ([]string, error) {
	remote, err := s.sessions.Remote()
	if err != nil {
		return nil, err
	}

	v, err, _ := s.sfGroup.Do("labels", func() (any, error) {
		return remote.GetLabels(ctx)
	})
	if err != nil {
		if errors.Is(err, domain.ErrServerOffline) {
			if cached, ok := s.store.GetLabels(); ok {
				s.logger.Warn("server unreachable, using cached labels", "count", len(cached))
				return cached, nil
			}
		}
		return nil, fmt.Errorf("failed to fetch labels: %w", err)
	}

	labels := v.([]string)
	if err := s.store.SaveLabels(labels); err != nil {
		s.logger.Error("failed to cache labels", "error", err)
	}
	s.logger.Debug("fetched labels", "count", len(labels))
	return labels, nil
}

// Suggest ranks the account's labels against query
func (s *Labels) Suggest(ctx context.Context, query string) ([]search.LabelMatch, error) {
	labels, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return search.RankLabels(query, labels), nil
}
