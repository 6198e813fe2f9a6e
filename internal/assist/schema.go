package assist

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"umlforge/internal/diagram"
	"umlforge/internal/models"
)

// ErrInvalidResponse marks an AI response that failed diagram validation.
// It is reported to the caller and never retried: resending the same prompt
// will not make an invalid shape valid, and local state stays untouched.
var ErrInvalidResponse = errors.New("invalid diagram response")

// diagramSchema constrains the model output to the diagram payload shape.
// Validation below still runs on everything that comes back; the schema
// narrows the output, it does not guarantee it.
var diagramSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"classes": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":   {Type: genai.TypeString},
					"name": {Type: genai.TypeString},
					"attributes": {
						Type: genai.TypeArray,
						Items: &genai.Schema{
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"id":   {Type: genai.TypeString},
								"name": {Type: genai.TypeString},
								"type": {
									Type: genai.TypeString,
									Enum: []string{"String", "Integer", "Boolean", "Double", "Long", "Date", "LocalDateTime"},
								},
							},
							Required: []string{"id", "name", "type"},
						},
					},
					"position": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"x": {Type: genai.TypeNumber},
							"y": {Type: genai.TypeNumber},
						},
					},
				},
				Required: []string{"id", "name"},
			},
		},
		"associations": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":          {Type: genai.TypeString},
					"fromClassId": {Type: genai.TypeString},
					"toClassId":   {Type: genai.TypeString},
					"fromMultiplicity": {
						Type: genai.TypeString,
						Enum: []string{"1", "0..1", "*", "1..*", "0..*"},
					},
					"toMultiplicity": {
						Type: genai.TypeString,
						Enum: []string{"1", "0..1", "*", "1..*", "0..*"},
					},
					"relationshipType": {
						Type: genai.TypeString,
						Enum: []string{"association", "inheritance", "aggregation", "composition"},
					},
					"inheritanceType": {
						Type: genai.TypeString,
						Enum: []string{"extends", "implements"},
					},
					"cascadeDelete": {Type: genai.TypeBoolean},
				},
				Required: []string{"id", "fromClassId", "toClassId", "relationshipType"},
			},
		},
	},
	Required: []string{"classes", "associations"},
}

// ParseDiagram converts a raw model response into a validated, deduplicated
// diagram. Unvalidated shapes must never reach the merge engine, so every
// failure aborts here with ErrInvalidResponse.
func ParseDiagram(raw string, logger *zap.Logger) (*models.DiagramData, error) {
	var data models.DiagramData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := validateDiagram(&data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	data.Classes = diagram.DedupClasses(data.Classes, logger)
	data.Associations = diagram.DedupAssociations(data.Associations, logger)
	return &data, nil
}

func validateDiagram(data *models.DiagramData) error {
	for i, c := range data.Classes {
		if c.ID == "" {
			return fmt.Errorf("class %d has no id", i)
		}
		if c.Name == "" {
			return fmt.Errorf("class %q has no name", c.ID)
		}
		for _, a := range c.Attributes {
			if a.ID == "" || a.Name == "" {
				return fmt.Errorf("class %q has an attribute without id or name", c.ID)
			}
			if !a.Type.Valid() {
				return fmt.Errorf("class %q attribute %q has unknown type %q", c.ID, a.Name, a.Type)
			}
		}
	}

	for i, a := range data.Associations {
		if a.ID == "" {
			return fmt.Errorf("association %d has no id", i)
		}
		if a.FromClassID == "" || a.ToClassID == "" {
			return fmt.Errorf("association %q is missing an endpoint", a.ID)
		}
		if a.FromClassID == a.ToClassID {
			return fmt.Errorf("association %q is a self-association", a.ID)
		}
		if !a.RelationshipType.Valid() {
			return fmt.Errorf("association %q has unknown relationship type %q", a.ID, a.RelationshipType)
		}
		if a.FromMultiplicity != "" && !a.FromMultiplicity.Valid() {
			return fmt.Errorf("association %q has invalid fromMultiplicity %q", a.ID, a.FromMultiplicity)
		}
		if a.ToMultiplicity != "" && !a.ToMultiplicity.Valid() {
			return fmt.Errorf("association %q has invalid toMultiplicity %q", a.ID, a.ToMultiplicity)
		}
	}
	return nil
}
