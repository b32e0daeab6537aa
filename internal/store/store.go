// Package store persists hazard records with remote-first, local-fallback
// semantics. The remote document store is the shared source of truth; a
// local single-slot cache mirrors it so reads and creates keep working
// offline. There are no retries and no later reconciliation: every remote
// failure degrades exactly once to the local path or surfaces as a single
// terminal error, and records created offline stay local until recreated.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/couchcryptid/hazard-intake-service/internal/domain"
	"github.com/couchcryptid/hazard-intake-service/internal/observability"
)

// LocalIDPrefix marks records that exist only in the local fallback cache.
// Such ids are never sent to the remote store.
const LocalIDPrefix = "local-"

// Origin reports which backend served an operation, so callers can tell
// full success from degraded success.
type Origin string

const (
	OriginRemote Origin = "remote"
	OriginLocal  Origin = "local"
)

var (
	// ErrNotAuthorized is returned before any I/O when a delete is
	// attempted without the privilege flag.
	ErrNotAuthorized = errors.New("caller is not authorized to delete hazards")
	// ErrInvalidID is returned before any I/O for malformed ids.
	ErrInvalidID = errors.New("invalid hazard id")
)

// RemoteStore is the document-oriented remote collaborator. Document ids
// are opaque and assigned by the backend at creation time.
type RemoteStore interface {
	CreateDocument(ctx context.Context, rec domain.HazardRecord) (string, error)
	ListDocuments(ctx context.Context) ([]domain.HazardRecord, error)
	DeleteDocument(ctx context.Context, id string) error
}

// LocalCache is the single-slot fallback collaborator: the full record list
// is serialized into one named slot and rewritten wholesale. Read-modify-
// write is not atomic across processes; concurrent writers can clobber each
// other, which is an accepted limitation.
type LocalCache interface {
	Load(ctx context.Context) ([]domain.HazardRecord, error)
	Save(ctx context.Context, recs []domain.HazardRecord) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}

// Store implements the hazard persistence contract.
type Store struct {
	remote  RemoteStore
	cache   LocalCache
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Store over the given collaborators.
func New(remote RemoteStore, cache LocalCache, logger *slog.Logger, metrics *observability.Metrics) *Store {
	return &Store{remote: remote, cache: cache, logger: logger, metrics: metrics}
}

// CheckReadiness reports whether the store can serve requests. Only the
// local cache is a hard dependency; the service runs degraded without the
// remote store.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// List returns all hazard records newest first. It reads the remote store
// and falls back to the local cache on any remote failure. Records from
// either source are normalized to the canonical shape before sorting.
func (s *Store) List(ctx context.Context) ([]domain.HazardRecord, Origin, error) {
	docs, err := s.remote.ListDocuments(ctx)
	if err != nil {
		s.logger.Warn("remote list failed, reading local cache", "error", err)
		s.metrics.StoreFallbacks.WithLabelValues("list").Inc()

		cached, cacheErr := s.cache.Load(ctx)
		if cacheErr != nil {
			return nil, OriginLocal, fmt.Errorf("load hazard cache: %w", cacheErr)
		}
		return normalizeAndSort(cached), OriginLocal, nil
	}
	return normalizeAndSort(docs), OriginRemote, nil
}

// Create persists a new record. On remote success the backend-assigned id
// is used and the finalized record is mirrored into the local cache (the
// cache is kept as a superset mirror for offline reads). On remote failure
// the record gets a locally generated id carrying [LocalIDPrefix], is
// stored only in the cache, and the call reports degraded success via
// [OriginLocal] rather than an error.
func (s *Store) Create(ctx context.Context, rec domain.HazardRecord) (domain.HazardRecord, Origin, error) {
	if rec.ID != "" {
		return domain.HazardRecord{}, "", fmt.Errorf("%w: new records must not carry an id", ErrInvalidID)
	}

	id, err := s.remote.CreateDocument(ctx, rec)
	if err != nil {
		s.logger.Warn("remote create failed, storing locally", "error", err)
		s.metrics.StoreFallbacks.WithLabelValues("create").Inc()

		rec.ID = LocalIDPrefix + uuid.NewString()
		if cacheErr := s.prependToCache(ctx, rec); cacheErr != nil {
			return domain.HazardRecord{}, OriginLocal, fmt.Errorf("store hazard locally: %w", cacheErr)
		}
		return rec, OriginLocal, nil
	}

	rec.ID = id
	if cacheErr := s.prependToCache(ctx, rec); cacheErr != nil {
		// The record is durable remotely; a stale mirror only affects
		// offline reads.
		s.logger.Warn("cache mirror write failed", "id", rec.ID, "error", cacheErr)
	}
	return rec, OriginRemote, nil
}

// DeleteOne removes a single record. Preconditions (privilege, id shape)
// are checked before any I/O. Local-origin ids are deleted from the cache
// only; remote ids are deleted remotely, with the deletion mirrored into
// the cache afterwards. Remote failures are surfaced, since there is no
// safe local substitute for deleting the authoritative record.
func (s *Store) DeleteOne(ctx context.Context, id string, privileged bool) error {
	if !privileged {
		return ErrNotAuthorized
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidID
	}

	if strings.HasPrefix(id, LocalIDPrefix) {
		if err := s.removeFromCache(ctx, id); err != nil {
			return fmt.Errorf("delete local hazard %s: %w", id, err)
		}
		s.metrics.HazardsDeleted.Inc()
		return nil
	}

	if err := s.remote.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete hazard %s: %w", id, err)
	}
	s.metrics.HazardsDeleted.Inc()

	if err := s.removeFromCache(ctx, id); err != nil {
		s.logger.Warn("cache mirror delete failed", "id", id, "error", err)
	}
	return nil
}

// DeleteAll removes every remote record one document at a time, then clears
// the local cache. The loop is sequential and not atomic: a failure mid-way
// returns the count deleted so far and leaves the cache untouched. An empty
// remote collection still clears the cache and reports zero deletions.
func (s *Store) DeleteAll(ctx context.Context, privileged bool) (int, error) {
	if !privileged {
		return 0, ErrNotAuthorized
	}

	docs, err := s.remote.ListDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("list hazards for deletion: %w", err)
	}

	deleted := 0
	for _, doc := range docs {
		if err := s.remote.DeleteDocument(ctx, doc.ID); err != nil {
			return deleted, fmt.Errorf("delete hazard %s: %w", doc.ID, err)
		}
		deleted++
		s.metrics.HazardsDeleted.Inc()
	}

	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("cache clear failed", "error", err)
	}
	return deleted, nil
}

// prependToCache inserts the record at the head of the cached list, newest
// first like the listing order. A failed cache read starts from an empty
// list rather than failing the create.
func (s *Store) prependToCache(ctx context.Context, rec domain.HazardRecord) error {
	cached, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Warn("cache read failed, rewriting slot", "error", err)
		cached = nil
	}
	return s.cache.Save(ctx, append([]domain.HazardRecord{rec}, cached...))
}

func (s *Store) removeFromCache(ctx context.Context, id string) error {
	cached, err := s.cache.Load(ctx)
	if err != nil {
		return err
	}
	next := cached[:0]
	for _, rec := range cached {
		if rec.ID != id {
			next = append(next, rec)
		}
	}
	return s.cache.Save(ctx, next)
}

// normalizeAndSort backfills fields older or degraded documents may be
// missing (danger re-derived from the text, address from the coordinates,
// createdAt from the clock) and sorts newest first.
func normalizeAndSort(recs []domain.HazardRecord) []domain.HazardRecord {
	out := make([]domain.HazardRecord, len(recs))
	for i, rec := range recs {
		if !rec.Danger.Valid() {
			rec.Danger = domain.Classify(rec.Text).Level
		}
		if rec.Address == "" && rec.Coords != nil {
			rec.Address = domain.FallbackAddress(rec.Coords.Lat, rec.Coords.Lon)
		}
		if rec.CreatedAt == 0 {
			rec.CreatedAt = domain.NowMillis()
		}
		out[i] = rec
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}
