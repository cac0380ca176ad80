// Package migration implements the batch orchestration of a migration job:
// planning, dependency-ordered entity passes, deferred-reference retries,
// and the final report.
package migration

import (
	"sort"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// ResolveEntityOrder computes a topological ordering of the given entity
// types from their declared foreign-key dependencies, using Kahn's
// algorithm. Returns levels where every type in a level only references
// types from earlier levels. Dependencies on entity types absent from the
// job are ignored; their references can never resolve in this run and are
// handled by the retry/failure path instead.
func ResolveEntityOrder(entityTypes []domain.EntityType) ([][]domain.EntityType, error) {
	if len(entityTypes) == 0 {
		return nil, nil
	}

	present := make(map[domain.EntityType]bool, len(entityTypes))
	for _, et := range entityTypes {
		if !domain.IsValidEntityType(string(et)) {
			return nil, domain.ErrValidation("unknown entity type: %s", et)
		}
		if present[et] {
			return nil, domain.ErrValidation("duplicate entity type: %s", et)
		}
		present[et] = true
	}

	inDegree := make(map[domain.EntityType]int, len(entityTypes))
	dependents := make(map[domain.EntityType][]domain.EntityType)

	for _, et := range entityTypes {
		inDegree[et] = 0
	}
	for _, et := range entityTypes {
		for _, dep := range domain.EntityDependencies[et] {
			if !present[dep] {
				continue
			}
			dependents[dep] = append(dependents[dep], et)
			inDegree[et]++
		}
	}

	// Kahn's algorithm by levels, each level sorted for determinism.
	var levels [][]domain.EntityType
	var queue []domain.EntityType
	for et, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, et)
		}
	}

	processed := 0
	for len(queue) > 0 {
		sort.Slice(queue, func(i, j int) bool { return queue[i] < queue[j] })
		level := make([]domain.EntityType, len(queue))
		copy(level, queue)
		levels = append(levels, level)
		processed += len(level)

		var next []domain.EntityType
		for _, et := range queue {
			for _, dep := range dependents[et] {
				inDegree[dep]--
				if inDegree[dep] == 0 {
					next = append(next, dep)
				}
			}
		}
		queue = next
	}

	if processed != len(entityTypes) {
		return nil, domain.ErrValidation("cycle detected in entity dependencies")
	}
	return levels, nil
}
