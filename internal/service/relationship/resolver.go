// Package relationship maintains the external-id → canonical-id tables and
// rewrites foreign-key fields on target records. It is the only component
// holding mutable shared state across workers, so all access is guarded by
// one lock per entity type — different entity types never contend.
package relationship

import (
	"sync"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// entityMap is one entity type's id table with its own lock.
type entityMap struct {
	mu  sync.RWMutex
	ids map[string]string // external id → canonical id
}

// Resolver owns the relationship maps for the lifetime of one migration job.
// Maps grow monotonically; an external id is bound to a canonical id at most
// once and never reassigned during a run.
type Resolver struct {
	maps map[domain.EntityType]*entityMap
}

// NewResolver creates a Resolver with an empty table per entity type.
func NewResolver() *Resolver {
	maps := make(map[domain.EntityType]*entityMap)
	for _, et := range domain.AllEntityTypes() {
		maps[et] = &entityMap{ids: make(map[string]string)}
	}
	return &Resolver{maps: maps}
}

// RegisterCanonicalID binds an external id to its canonical id. Idempotent:
// a repeated registration of the same external id is a no-op that returns
// the original canonical id, so at-least-once delivery from the orchestrator
// is safe. The returned boolean reports whether the binding already existed.
func (r *Resolver) RegisterCanonicalID(entityType domain.EntityType, externalID, canonicalID string) (string, bool) {
	em, ok := r.maps[entityType]
	if !ok || externalID == "" {
		return canonicalID, false
	}

	em.mu.Lock()
	defer em.mu.Unlock()
	if existing, ok := em.ids[externalID]; ok {
		return existing, true
	}
	em.ids[externalID] = canonicalID
	return canonicalID, false
}

// Lookup returns the canonical id bound to an external id, if any.
func (r *Resolver) Lookup(entityType domain.EntityType, externalID string) (string, bool) {
	em, ok := r.maps[entityType]
	if !ok {
		return "", false
	}
	em.mu.RLock()
	defer em.mu.RUnlock()
	id, ok := em.ids[externalID]
	return id, ok
}

// Size returns the number of bindings recorded for an entity type.
func (r *Resolver) Size(entityType domain.EntityType) int {
	em, ok := r.maps[entityType]
	if !ok {
		return 0
	}
	em.mu.RLock()
	defer em.mu.RUnlock()
	return len(em.ids)
}

// ResolveForeignKeys rewrites every conventionally-named foreign-key field
// on the target record from its external id to the canonical id. A key with
// no binding yet is set to the explicit unresolved marker — never silently
// dropped, never left holding the raw external id. The returned map carries
// the original external id per unresolved field so a later pass can retry
// the lookup.
func (r *Resolver) ResolveForeignKeys(target map[string]any, entityType domain.EntityType) map[string]string {
	unresolved := make(map[string]string)

	for field, refType := range domain.ForeignKeyFields {
		raw, ok := target[field]
		if !ok {
			continue
		}
		externalID, ok := raw.(string)
		if !ok || externalID == "" || externalID == domain.UnresolvedMarker {
			continue
		}

		if canonical, ok := r.Lookup(refType, externalID); ok {
			target[field] = canonical
		} else {
			target[field] = domain.UnresolvedMarker
			unresolved[field] = externalID
		}
	}
	return unresolved
}

// ResolvePending retries the lookups of a deferred record. pending maps
// field names to the original external ids captured by ResolveForeignKeys.
// Newly resolvable fields are rewritten on the target; the rest remain
// marked and are returned.
func (r *Resolver) ResolvePending(target map[string]any, pending map[string]string) map[string]string {
	still := make(map[string]string)
	for field, externalID := range pending {
		refType, ok := domain.ForeignKeyFields[field]
		if !ok {
			continue
		}
		if canonical, ok := r.Lookup(refType, externalID); ok {
			target[field] = canonical
		} else {
			still[field] = externalID
		}
	}
	return still
}
