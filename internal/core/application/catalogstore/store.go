// Package catalogstore mirrors the canonical menu catalog into an immutable in-process
// snapshot that every channel reads from.
package catalogstore

import (
	"context"
	"sync/atomic"

	"orderhub/internal/core/domain/model/catalog"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"

	"github.com/sirupsen/logrus"
)

const pushedSource = "push"

// Store holds the current catalog snapshot behind an atomic pointer. A load builds and
// validates a complete snapshot first and then swaps the pointer, so readers see either
// the old or the new catalog and never a mix. A failed load leaves the pointer untouched.
type Store struct {
	current atomic.Pointer[catalog.Snapshot]
	logger  logrus.FieldLogger
}

func NewStore(logger logrus.FieldLogger) *Store {
	return &Store{logger: logger.WithField("component", "catalog_store")}
}

// Load replaces the mirror with payload and returns the new version token.
// A malformed payload fails with a SyncError and the previous snapshot stays current.
func (s *Store) Load(payload catalog.Payload) (string, error) {
	return s.load(pushedSource, payload)
}

// Sync fetches the catalog from source and loads it.
func (s *Store) Sync(ctx context.Context, source ports.CatalogSource) (string, error) {
	payload, err := source.Fetch(ctx)
	if err != nil {
		return "", s.fail(errs.NewSyncError(source.Name(), err))
	}
	return s.load(source.Name(), payload)
}

func (s *Store) load(source string, payload catalog.Payload) (string, error) {
	snapshot, err := catalog.NewSnapshot(payload, kernel.NewUUID().String())
	if err != nil {
		return "", s.fail(errs.NewSyncError(source, err))
	}

	s.current.Store(snapshot)
	s.logger.WithFields(logrus.Fields{
		"source":     source,
		"version":    snapshot.Version(),
		"categories": len(snapshot.Categories()),
		"items":      snapshot.ItemCount(),
	}).Info("catalog loaded")
	return snapshot.Version(), nil
}

func (s *Store) fail(err *errs.SyncError) error {
	s.logger.WithError(err).WithFields(logrus.Fields{
		"source":  err.Source,
		"version": s.Version(),
	}).Warn("catalog sync failed, keeping current snapshot")
	return err
}

// Snapshot returns the current snapshot, or nil before the first successful load.
func (s *Store) Snapshot() *catalog.Snapshot {
	return s.current.Load()
}

// Version returns the token of the current snapshot, empty before the first load.
func (s *Store) Version() string {
	if snapshot := s.current.Load(); snapshot != nil {
		return snapshot.Version()
	}
	return ""
}

// Categories returns the categories of the current snapshot ordered by rank.
func (s *Store) Categories() []catalog.Category {
	if snapshot := s.current.Load(); snapshot != nil {
		return snapshot.Categories()
	}
	return []catalog.Category{}
}

// Item looks id up in the current snapshot.
func (s *Store) Item(id string) (catalog.Item, error) {
	if snapshot := s.current.Load(); snapshot != nil {
		if item, ok := snapshot.Item(id); ok {
			return item, nil
		}
	}
	return catalog.Item{}, errs.NewObjectNotFoundError("item", id)
}
