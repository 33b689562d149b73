// Package assets stages uploaded images per session and manages their lifecycle.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"portfolioapi/internal/metrics"
	"portfolioapi/internal/model"
	"portfolioapi/internal/session"
	"portfolioapi/internal/storage"
)

var (
	ErrInvalidSession = errors.New("invalid session id")
	ErrNotFound       = errors.New("asset not found")
	ErrUnknownSession = errors.New("unknown session")
)

type Store struct {
	backend  storage.Storage
	registry session.Store
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source used for session timestamps and staleness checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

func NewStore(backend storage.Storage, registry session.Store, opts ...Option) *Store {
	s := &Store{backend: backend, registry: registry, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Stage writes every acceptable file under the session's namespace and returns the accepted
// images in input order. Nameless files and disallowed extensions are skipped silently.
func (s *Store) Stage(ctx context.Context, sessionID string, files []model.UploadFile) ([]model.LogicalImage, error) {
	if !validSessionID(sessionID) {
		return nil, ErrInvalidSession
	}

	accepted := make([]model.LogicalImage, 0, len(files))
	for _, f := range files {
		if f.Name == "" {
			continue
		}
		name := SecureFilename(f.Name)
		if name == "" || !Allowed(name) {
			log.Debug().Str("session_id", sessionID).Str("filename", f.Name).Msg("upload skipped")
			continue
		}

		key := PhysicalKey(sessionID, name)
		info, err := s.backend.Put(ctx, key, bytes.NewReader(f.Data), storage.PutObjectOptions{
			Size:        int64(len(f.Data)),
			ContentType: mimetype.Detect(f.Data).String(),
		})
		if err != nil {
			return accepted, fmt.Errorf("stage %s: %w", name, err)
		}
		accepted = append(accepted, model.LogicalImage{Name: name, Asset: toAsset(info)})
	}

	if err := s.register(ctx, sessionID, accepted); err != nil {
		return accepted, err
	}
	s.metrics.FilesStaged(len(accepted))
	return accepted, nil
}

func (s *Store) register(ctx context.Context, sessionID string, images []model.LogicalImage) error {
	us, err := s.registry.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		us = &model.UploadSession{ID: sessionID, CreatedAt: s.now()}
	} else if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	for _, img := range images {
		replaced := false
		for i := range us.Images {
			if us.Images[i].Name == img.Name {
				us.Images[i] = img
				replaced = true
				break
			}
		}
		if !replaced {
			us.Images = append(us.Images, img)
		}
	}

	if err := s.registry.Save(ctx, us); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Resolve maps a logical name within a session to its staged asset.
func (s *Store) Resolve(ctx context.Context, sessionID, name string) (model.PhysicalAsset, error) {
	if !validSessionID(sessionID) {
		return model.PhysicalAsset{}, ErrInvalidSession
	}
	clean := SecureFilename(name)
	if clean == "" {
		return model.PhysicalAsset{}, ErrNotFound
	}
	info, err := s.backend.Stat(ctx, PhysicalKey(sessionID, clean))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return model.PhysicalAsset{}, ErrNotFound
	}
	if err != nil {
		return model.PhysicalAsset{}, err
	}
	return toAsset(info), nil
}

func (s *Store) Open(ctx context.Context, asset model.PhysicalAsset) (io.ReadCloser, error) {
	rc, _, err := s.backend.Get(ctx, asset.Key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, ErrNotFound
	}
	return rc, err
}

// Session returns the registry entry for id.
func (s *Store) Session(ctx context.Context, sessionID string) (*model.UploadSession, error) {
	if !validSessionID(sessionID) {
		return nil, ErrUnknownSession
	}
	us, err := s.registry.Get(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return nil, ErrUnknownSession
	}
	return us, err
}

// PurgeSession removes every staged file of the session and its registry entry.
// The registry entry is removed even when some deletes fail.
func (s *Store) PurgeSession(ctx context.Context, sessionID string) error {
	if !validSessionID(sessionID) {
		return ErrInvalidSession
	}

	var errs []error
	objs, err := s.backend.List(ctx, sessionPrefix(sessionID))
	if err != nil {
		errs = append(errs, fmt.Errorf("list session files: %w", err))
	}
	for _, o := range objs {
		if err := s.backend.Delete(ctx, o.Key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			errs = append(errs, fmt.Errorf("delete %s: %w", o.Key, err))
		}
	}
	if err := s.registry.Delete(ctx, sessionID); err != nil {
		errs = append(errs, fmt.Errorf("delete session: %w", err))
	}
	return errors.Join(errs...)
}

func toAsset(info storage.ObjectInfo) model.PhysicalAsset {
	return model.PhysicalAsset{
		Key:         info.Key,
		Size:        info.Size,
		ContentType: info.ContentType,
		ModTime:     info.LastModified,
	}
}
