package services

import (
	"context"

	"github.com/google/uuid"

	"umlforge/internal/models"
)

// DiagramGenerator is what the AI assistant exposes to this layer; see the
// assist package for the Gemini-backed implementation.
type DiagramGenerator interface {
	GenerateDiagram(ctx context.Context, prompt string) (*models.DiagramData, error)
	ModifyDiagram(ctx context.Context, prompt string, existing models.DiagramData) (*models.DiagramData, error)
}

type AssistService struct {
	generator      DiagramGenerator
	diagramService *DiagramService
}

func NewAssistService(generator DiagramGenerator, diagramService *DiagramService) *AssistService {
	return &AssistService{
		generator:      generator,
		diagramService: diagramService,
	}
}

// Generate produces a brand-new diagram from a description and stores it as
// the new payload of the referenced diagram.
func (s *AssistService) Generate(ctx context.Context, ref, prompt string, userID *uuid.UUID, sessionID string) (*models.Diagram, error) {
	data, err := s.generator.GenerateDiagram(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return s.diagramService.Update(ref, *data, userID, sessionID)
}

// Modify reworks the current diagram according to the prompt. The proposal is
// merged with the stored state before saving, so edits made while the model
// was thinking are not lost.
func (s *AssistService) Modify(ctx context.Context, ref, prompt string, userID *uuid.UUID, sessionID string) (*models.Diagram, error) {
	current, err := s.diagramService.Get(ref, userID)
	if err != nil {
		return nil, err
	}

	existing := models.DiagramData{
		Classes:      []models.UMLClass{},
		Associations: []models.Association{},
	}
	if current.Data != nil {
		existing = *current.Data
	}

	merged, err := s.generator.ModifyDiagram(ctx, prompt, existing)
	if err != nil {
		return nil, err
	}
	return s.diagramService.Update(ref, *merged, userID, sessionID)
}
