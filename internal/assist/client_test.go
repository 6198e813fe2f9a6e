package assist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"umlforge/internal/models"
)

type fakeGenerator struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeGenerator) generate(_ context.Context, prompt string) (string, error) {
	i := f.calls
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no response scripted")
}

func newTestClient(gen contentGenerator) *Client {
	return &Client{
		generator:   gen,
		logger:      zap.NewNop(),
		maxAttempts: 3,
	}
}

func validResponse(t *testing.T) string {
	t.Helper()
	data := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c1", Name: "User", Attributes: []models.UMLAttribute{
				{ID: "a1", Name: "email", Type: models.TypeString},
			}},
			{ID: "c2", Name: "Order"},
		},
		Associations: []models.Association{
			{ID: "r1", FromClassID: "c1", ToClassID: "c2", RelationshipType: models.RelAssociation},
		},
	}
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	return string(raw)
}

func TestGenerateDiagram(t *testing.T) {
	gen := &fakeGenerator{responses: []string{validResponse(t)}}
	client := newTestClient(gen)

	data, err := client.GenerateDiagram(context.Background(), "an online shop")
	require.NoError(t, err)
	require.Len(t, data.Classes, 2)
	assert.Equal(t, "User", data.Classes[0].Name)
	assert.Len(t, data.Associations, 1)
	assert.Equal(t, 1, gen.calls)
	assert.Contains(t, gen.prompts[0], "an online shop")
}

func TestGenerateDiagramRetriesTransientErrors(t *testing.T) {
	gen := &fakeGenerator{
		errs:      []error{genai.APIError{Code: 503, Message: "overloaded"}, genai.APIError{Code: 429, Message: "rate limited"}},
		responses: []string{"", "", validResponse(t)},
	}
	client := newTestClient(gen)

	data, err := client.GenerateDiagram(context.Background(), "a library")
	require.NoError(t, err)
	assert.Equal(t, 3, gen.calls)
	assert.Len(t, data.Classes, 2)
}

func TestGenerateDiagramStopsOnPermanentError(t *testing.T) {
	apiErr := genai.APIError{Code: 400, Message: "bad request"}
	gen := &fakeGenerator{errs: []error{apiErr, apiErr, apiErr}}
	client := newTestClient(gen)

	_, err := client.GenerateDiagram(context.Background(), "a library")
	require.Error(t, err)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateDiagramExhaustsRetryBudget(t *testing.T) {
	apiErr := genai.APIError{Code: 500, Message: "internal"}
	gen := &fakeGenerator{errs: []error{apiErr, apiErr, apiErr, apiErr}}
	client := newTestClient(gen)
	// Keep the budget small so the test spends at most one backoff interval.
	client.maxAttempts = 2

	_, err := client.GenerateDiagram(context.Background(), "a library")
	require.Error(t, err)
	assert.Equal(t, 2, gen.calls)
}

func TestGenerateDiagramRejectsInvalidPayloadWithoutRetry(t *testing.T) {
	gen := &fakeGenerator{responses: []string{`{"classes":[{"id":"","name":"User"}],"associations":[]}`}}
	client := newTestClient(gen)

	_, err := client.GenerateDiagram(context.Background(), "a library")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateDiagramRejectsMalformedJSON(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"not json at all"}}
	client := newTestClient(gen)

	_, err := client.GenerateDiagram(context.Background(), "a library")
	assert.ErrorIs(t, err, ErrInvalidResponse)
	assert.Equal(t, 1, gen.calls)
}

func TestModifyDiagramMergesIntoExisting(t *testing.T) {
	existing := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c1", Name: "User", Position: &models.Position{X: 10, Y: 20}},
			{ID: "c9", Name: "AuditLog"},
		},
		Associations: []models.Association{},
	}

	// Proposal renames User (same id) and drops AuditLog; the merge must
	// keep the existing position and re-append the untouched class.
	proposal := models.DiagramData{
		Classes: []models.UMLClass{
			{ID: "c1", Name: "Account"},
		},
		Associations: []models.Association{},
	}
	raw, err := json.Marshal(proposal)
	require.NoError(t, err)

	gen := &fakeGenerator{responses: []string{string(raw)}}
	client := newTestClient(gen)

	merged, err := client.ModifyDiagram(context.Background(), "rename User to Account", existing)
	require.NoError(t, err)
	require.Len(t, merged.Classes, 2)
	assert.Equal(t, "Account", merged.Classes[0].Name)
	require.NotNil(t, merged.Classes[0].Position)
	assert.Equal(t, float64(10), merged.Classes[0].Position.X)
	assert.Equal(t, "AuditLog", merged.Classes[1].Name)

	assert.Contains(t, gen.prompts[0], `"AuditLog"`)
	assert.Contains(t, gen.prompts[0], "rename User to Account")
}

func TestParseDiagramRejectsSelfAssociation(t *testing.T) {
	raw := `{"classes":[{"id":"c1","name":"User"}],"associations":[{"id":"r1","fromClassId":"c1","toClassId":"c1","relationshipType":"association"}]}`

	_, err := ParseDiagram(raw, zap.NewNop())
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestParseDiagramRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "attribute type",
			raw:  `{"classes":[{"id":"c1","name":"User","attributes":[{"id":"a1","name":"x","type":"Varchar"}]}],"associations":[]}`,
		},
		{
			name: "relationship type",
			raw:  `{"classes":[{"id":"c1","name":"User"},{"id":"c2","name":"Order"}],"associations":[{"id":"r1","fromClassId":"c1","toClassId":"c2","relationshipType":"friendship"}]}`,
		},
		{
			name: "multiplicity",
			raw:  `{"classes":[{"id":"c1","name":"User"},{"id":"c2","name":"Order"}],"associations":[{"id":"r1","fromClassId":"c1","toClassId":"c2","relationshipType":"association","fromMultiplicity":"2..5"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDiagram(tt.raw, zap.NewNop())
			assert.ErrorIs(t, err, ErrInvalidResponse)
		})
	}
}

func TestParseDiagramDeduplicates(t *testing.T) {
	raw := `{"classes":[{"id":"c1","name":"User"},{"id":"c1","name":"User copy"}],"associations":[]}`

	data, err := ParseDiagram(raw, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, data.Classes, 1)
	assert.Equal(t, "User", data.Classes[0].Name)
}
