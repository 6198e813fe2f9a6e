package diagram

import (
	"strings"

	"go.uber.org/zap"

	"umlforge/internal/models"
)

// Merge reconciles an AI-proposed diagram with the user's current one.
//
// Classes are matched by id first, then by case-insensitive name. A
// name-matched class keeps its existing id, which is what stops an AI
// response that invented a fresh id for a class the user already has from
// creating a ghost duplicate. An id match is taken unconditionally, even if
// the proposal also renames the class onto a name another class holds.
// Proposed fields win on a match, except that a proposal without a position
// keeps the class where the user left it. Existing entries the proposal
// never touched are preserved, and anything unmatched in the proposal is a
// genuinely new entity.
//
// Associations follow the same two-phase merge matched only by id; they have
// no natural name, and AI responses regenerate them wholesale alongside
// their endpoint classes.
func Merge(existing, proposed models.DiagramData, logger *zap.Logger) models.DiagramData {
	return models.DiagramData{
		Classes:      mergeClasses(existing.Classes, proposed.Classes, logger),
		Associations: mergeAssociations(existing.Associations, proposed.Associations, logger),
		Metadata:     existing.Metadata,
	}
}

func mergeClasses(existing, proposed []models.UMLClass, logger *zap.Logger) []models.UMLClass {
	byID := make(map[string]int, len(existing))
	for i, c := range existing {
		byID[c.ID] = i
	}
	byName := buildNameIndex(existing)
	consumed := make([]bool, len(existing))

	result := make([]models.UMLClass, 0, len(existing)+len(proposed))
	for _, p := range proposed {
		if i, ok := byID[p.ID]; ok && !consumed[i] {
			result = append(result, mergeClass(existing[i], p))
			consumed[i] = true
			continue
		}
		if i, ok := byName[strings.ToLower(p.Name)]; ok && !consumed[i] {
			merged := mergeClass(existing[i], p)
			merged.ID = existing[i].ID
			result = append(result, merged)
			consumed[i] = true
			continue
		}
		result = append(result, p)
	}

	for i, c := range existing {
		if !consumed[i] {
			result = append(result, c)
		}
	}

	// Defensive; a no-op unless the proposal itself carried duplicates.
	return DedupClasses(result, logger)
}

// buildNameIndex maps lower-cased class names to their slice index. The
// model does not enforce name uniqueness; when two existing classes collide
// on a name the one with the lexicographically smallest id wins the slot, so
// a name-matched proposal folds into the same class regardless of input order.
func buildNameIndex(classes []models.UMLClass) map[string]int {
	byName := make(map[string]int, len(classes))
	for i, c := range classes {
		key := strings.ToLower(c.Name)
		if j, ok := byName[key]; ok && classes[j].ID <= c.ID {
			continue
		}
		byName[key] = i
	}
	return byName
}

func mergeClass(old, proposed models.UMLClass) models.UMLClass {
	merged := proposed
	if merged.Position == nil {
		merged.Position = old.Position
	}
	return merged
}

func mergeAssociations(existing, proposed []models.Association, logger *zap.Logger) []models.Association {
	byID := make(map[string]int, len(existing))
	for i, a := range existing {
		byID[a.ID] = i
	}
	consumed := make([]bool, len(existing))

	result := make([]models.Association, 0, len(existing)+len(proposed))
	for _, p := range proposed {
		if i, ok := byID[p.ID]; ok && !consumed[i] {
			// Proposed wins on every field.
			consumed[i] = true
		}
		result = append(result, p)
	}

	for i, a := range existing {
		if !consumed[i] {
			result = append(result, a)
		}
	}

	return DedupAssociations(result, logger)
}
