// Package diagram holds the in-memory diagram logic: deduplication of
// entities by identity, the merge engine that reconciles AI-proposed
// diagrams with the user's current one, and cascade removal.
package diagram

import (
	"go.uber.org/zap"

	"umlforge/internal/models"
)

// dedupByID keeps the first occurrence of each id, preserving relative
// order. Duplicates are a recoverable data-quality issue wherever a diagram
// comes from outside (stored load, realtime push, AI output), so they are
// logged and dropped, never treated as an error.
func dedupByID[T any](items []T, idOf func(T) string, onDup func(id string)) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		id := idOf(item)
		if _, ok := seen[id]; ok {
			if onDup != nil {
				onDup(id)
			}
			continue
		}
		seen[id] = struct{}{}
		out = append(out, item)
	}
	return out
}

func DedupClasses(classes []models.UMLClass, logger *zap.Logger) []models.UMLClass {
	return dedupByID(classes, func(c models.UMLClass) string { return c.ID }, func(id string) {
		logger.Warn("discarding duplicate class", zap.String("id", id))
	})
}

func DedupAssociations(associations []models.Association, logger *zap.Logger) []models.Association {
	return dedupByID(associations, func(a models.Association) string { return a.ID }, func(id string) {
		logger.Warn("discarding duplicate association", zap.String("id", id))
	})
}

// Dedup applies both passes to a full payload.
func Dedup(data models.DiagramData, logger *zap.Logger) models.DiagramData {
	data.Classes = DedupClasses(data.Classes, logger)
	data.Associations = DedupAssociations(data.Associations, logger)
	return data
}
