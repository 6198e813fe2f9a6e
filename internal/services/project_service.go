package services

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"umlforge/internal/models"
	"umlforge/internal/repositories"
)

type ProjectService struct {
	projectRepo *repositories.ProjectRepository
	diagramRepo *repositories.DiagramRepository
	logger      *zap.Logger
}

func NewProjectService(projectRepo *repositories.ProjectRepository, diagramRepo *repositories.DiagramRepository, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		diagramRepo: diagramRepo,
		logger:      logger,
	}
}

// Create makes a project together with an empty starter diagram, so the
// editor always has something to open.
func (s *ProjectService) Create(ownerID uuid.UUID, name string) (*models.Project, *models.Diagram, error) {
	project := &models.Project{
		Name:    name,
		OwnerID: ownerID,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, nil, err
	}

	diagram := &models.Diagram{
		ProjectID: project.ID,
		Data: &models.DiagramData{
			Classes:      []models.UMLClass{},
			Associations: []models.Association{},
		},
	}
	if err := s.diagramRepo.Create(diagram); err != nil {
		return nil, nil, err
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", ownerID.String()),
	)
	return project, diagram, nil
}

func (s *ProjectService) List(ownerID uuid.UUID) ([]models.Project, error) {
	return s.projectRepo.GetByOwnerID(ownerID)
}

func (s *ProjectService) Get(id, userID uuid.UUID) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if project.OwnerID != userID {
		return nil, ErrForbidden
	}
	return project, nil
}

func (s *ProjectService) Rename(id, userID uuid.UUID, name string) (*models.Project, error) {
	project, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	project.Name = name
	if err := s.projectRepo.Update(project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project; diagrams and shares go with it through the
// ON DELETE CASCADE constraints.
func (s *ProjectService) Delete(id, userID uuid.UUID) error {
	if _, err := s.Get(id, userID); err != nil {
		return err
	}
	return s.projectRepo.Delete(id)
}

func (s *ProjectService) ListDiagrams(projectID, userID uuid.UUID) ([]models.Diagram, error) {
	if _, err := s.Get(projectID, userID); err != nil {
		return nil, err
	}
	return s.diagramRepo.GetByProjectID(projectID)
}
