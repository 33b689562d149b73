package assets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"portfolioapi/internal/storage"
)

// DefaultMaxAge is how long a staged file may live without being composed.
const DefaultMaxAge = time.Hour

// SweepStale removes staged images strictly older than maxAge, whatever session owns them,
// and forgets registry entries of the same age. It returns the number of files removed.
func (s *Store) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	now := s.now()

	objs, err := s.backend.List(ctx, "")
	if err != nil {
		return 0, fmt.Errorf("list staging area: %w", err)
	}

	removed := 0
	var errs []error
	for _, o := range objs {
		if !Allowed(o.Key) || now.Sub(o.LastModified) <= maxAge {
			continue
		}
		if err := s.backend.Delete(ctx, o.Key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", o.Key, err))
			continue
		}
		removed++
	}

	if n, err := s.registry.Cleanup(ctx, now.Add(-maxAge)); err != nil {
		errs = append(errs, fmt.Errorf("cleanup sessions: %w", err))
	} else if n > 0 {
		log.Debug().Int("sessions", n).Msg("stale sessions forgotten")
	}

	s.metrics.FilesSwept(removed)
	return removed, errors.Join(errs...)
}

// RunSweeper calls SweepStale every interval until ctx is cancelled.
func (s *Store) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := s.SweepStale(ctx, maxAge)
			if err != nil {
				log.Error().Err(err).Msg("sweep failed")
				continue
			}
			if n > 0 {
				log.Info().Int("removed", n).Msg("stale uploads swept")
			}
		}
	}
}
