package diagram

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"umlforge/internal/models"
)

func pos(x, y float64) *models.Position {
	return &models.Position{X: x, Y: y}
}

func TestMergeIdempotent(t *testing.T) {
	existing := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c1", Name: "User", Position: pos(10, 20), Attributes: []models.UMLAttribute{
				{ID: "a1", Name: "email", Type: models.TypeString},
			}},
			{ID: "c2", Name: "Order", Position: pos(200, 40)},
		},
		Associations: []models.Association{
			{ID: "r1", FromClassID: "c1", ToClassID: "c2", FromMultiplicity: models.MultOne, ToMultiplicity: models.MultZeroOrMore, RelationshipType: models.RelAssociation},
		},
	}

	result := Merge(existing, existing, zap.NewNop())

	if diff := cmp.Diff(existing, result); diff != "" {
		t.Errorf("merge with self changed the diagram (-want +got):\n%s", diff)
	}
}

func TestMergeNameMatchKeepsExistingID(t *testing.T) {
	existing := models.DiagramData{
		Classes: []models.UMLClass{{ID: "c1", Name: "User", Position: pos(1, 2)}},
	}
	proposed := models.DiagramData{
		Classes: []models.UMLClass{{ID: "c2", Name: "user", Attributes: []models.UMLAttribute{
			{ID: "a1", Name: "email", Type: models.TypeString},
		}}},
	}

	result := Merge(existing, proposed, zap.NewNop())

	require.Len(t, result.Classes, 1)
	assert.Equal(t, "c1", result.Classes[0].ID)
	assert.Equal(t, "user", result.Classes[0].Name)
	assert.Len(t, result.Classes[0].Attributes, 1)
	// Position falls back to the existing one when the proposal omits it.
	assert.Equal(t, pos(1, 2), result.Classes[0].Position)
}

func TestMergeIDMatchProposedWins(t *testing.T) {
	existing := models.DiagramData{
		Classes: []models.UMLClass{{ID: "c1", Name: "User", Position: pos(1, 2)}},
	}
	proposed := models.DiagramData{
		Classes: []models.UMLClass{{ID: "c1", Name: "Account", Position: pos(9, 9)}},
	}

	result := Merge(existing, proposed, zap.NewNop())

	require.Len(t, result.Classes, 1)
	assert.Equal(t, "c1", result.Classes[0].ID)
	assert.Equal(t, "Account", result.Classes[0].Name)
	assert.Equal(t, pos(9, 9), result.Classes[0].Position)
}

func TestMergeIDMatchTakesPriorityOverNameCollision(t *testing.T) {
	// The proposal renames c1 onto a name c2 already holds. The id match is
	// taken unconditionally; c2 stays untouched.
	existing := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c1", Name: "User"},
			{ID: "c2", Name: "Account"},
		},
	}
	proposed := models.DiagramData{
		Classes: []models.UMLClass{{ID: "c1", Name: "Account"}},
	}

	result := Merge(existing, proposed, zap.NewNop())

	require.Len(t, result.Classes, 2)
	assert.Equal(t, "c1", result.Classes[0].ID)
	assert.Equal(t, "Account", result.Classes[0].Name)
	assert.Equal(t, "c2", result.Classes[1].ID)
	assert.Equal(t, "Account", result.Classes[1].Name)
}

func TestMergeAdditivity(t *testing.T) {
	existing := models.DiagramData{
		Classes:      []models.UMLClass{{ID: "c1", Name: "User", Position: pos(1, 1)}},
		Associations: []models.Association{{ID: "r1", FromClassID: "c1", ToClassID: "c9"}},
	}
	proposed := models.DiagramData{
		Classes:      []models.UMLClass{{ID: "c2", Name: "Invoice", Position: pos(5, 5)}},
		Associations: []models.Association{{ID: "r2", FromClassID: "c1", ToClassID: "c2"}},
	}

	result := Merge(existing, proposed, zap.NewNop())

	require.Len(t, result.Classes, 2)
	// Proposed entries come first, untouched existing ones follow.
	assert.Equal(t, "c2", result.Classes[0].ID)
	assert.Equal(t, "c1", result.Classes[1].ID)
	assert.Equal(t, pos(1, 1), result.Classes[1].Position)

	require.Len(t, result.Associations, 2)
	assert.Equal(t, "r2", result.Associations[0].ID)
	assert.Equal(t, "r1", result.Associations[1].ID)
}

func TestMergeAssociationsMatchedByIDOnly(t *testing.T) {
	existing := models.DiagramData{
		Associations: []models.Association{
			{ID: "r1", FromClassID: "c1", ToClassID: "c2", RelationshipType: models.RelAssociation},
		},
	}
	proposed := models.DiagramData{
		Associations: []models.Association{
			{ID: "r1", FromClassID: "c1", ToClassID: "c3", RelationshipType: models.RelComposition},
		},
	}

	result := Merge(existing, proposed, zap.NewNop())

	require.Len(t, result.Associations, 1)
	assert.Equal(t, "c3", result.Associations[0].ToClassID)
	assert.Equal(t, models.RelComposition, result.Associations[0].RelationshipType)
}

func TestMergeNameIndexTieBreak(t *testing.T) {
	// Two existing classes share a case-insensitive name; the smallest id
	// wins the name slot no matter the insertion order.
	existing := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c9", Name: "User"},
			{ID: "c1", Name: "USER"},
		},
	}
	proposed := models.DiagramData{
		Classes: []models.UMLClass{{ID: "cx", Name: "user"}},
	}

	result := Merge(existing, proposed, zap.NewNop())

	require.Len(t, result.Classes, 2)
	assert.Equal(t, "c1", result.Classes[0].ID)
	assert.Equal(t, "user", result.Classes[0].Name)
	assert.Equal(t, "c9", result.Classes[1].ID)
}

func TestMergeDuplicateProposalIsDeduped(t *testing.T) {
	proposed := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c1", Name: "User"},
			{ID: "c1", Name: "User"},
		},
	}

	result := Merge(models.DiagramData{}, proposed, zap.NewNop())

	assert.Len(t, result.Classes, 1)
}
