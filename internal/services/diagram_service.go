package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"umlforge/internal/diagram"
	"umlforge/internal/models"
	"umlforge/internal/realtime"
	"umlforge/internal/repositories"
	"umlforge/internal/utils"
)

// SharePrefix marks a diagram reference that carries a share token instead
// of a diagram id, e.g. "shared-A1B2C3D4".
const SharePrefix = "shared-"

// timeNow is swapped out in tests that exercise share expiry.
var timeNow = time.Now

type DiagramService struct {
	diagramRepo *repositories.DiagramRepository
	projectRepo *repositories.ProjectRepository
	shareRepo   *repositories.ShareRepository
	hub         *realtime.Hub
	logger      *zap.Logger
}

func NewDiagramService(
	diagramRepo *repositories.DiagramRepository,
	projectRepo *repositories.ProjectRepository,
	shareRepo *repositories.ShareRepository,
	hub *realtime.Hub,
	logger *zap.Logger,
) *DiagramService {
	return &DiagramService{
		diagramRepo: diagramRepo,
		projectRepo: projectRepo,
		shareRepo:   shareRepo,
		hub:         hub,
		logger:      logger,
	}
}

// Resolve turns a diagram reference into a concrete diagram id. References
// are either a plain UUID or a share link of the form "shared-<token>"; the
// share path reports viaShare so callers can skip the ownership check.
func (s *DiagramService) Resolve(ref string) (uuid.UUID, bool, error) {
	if strings.HasPrefix(ref, SharePrefix) {
		token := strings.TrimPrefix(ref, SharePrefix)
		share, err := s.shareRepo.GetByToken(token)
		if err != nil {
			return uuid.Nil, false, err
		}
		if share == nil || !share.IsActive || share.Expired(timeNow()) {
			return uuid.Nil, false, ErrNotFound
		}
		return share.DiagramID, true, nil
	}

	id, err := utils.ParseUUID(ref)
	if err != nil {
		return uuid.Nil, false, ErrNotFound
	}
	return id, false, nil
}

// Create adds a diagram to a project the user owns. An omitted payload
// starts the diagram empty.
func (s *DiagramService) Create(projectID uuid.UUID, data *models.DiagramData, userID *uuid.UUID) (*models.Diagram, error) {
	if userID == nil {
		return nil, ErrForbidden
	}
	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if project.OwnerID != *userID {
		return nil, ErrForbidden
	}

	if data == nil {
		data = &models.DiagramData{
			Classes:      []models.UMLClass{},
			Associations: []models.Association{},
		}
	}
	clean := diagram.Dedup(*data, s.logger)

	d := &models.Diagram{
		ProjectID: projectID,
		Data:      &clean,
	}
	if err := s.diagramRepo.Create(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Get loads a diagram by reference. userID may be nil for share-link access.
func (s *DiagramService) Get(ref string, userID *uuid.UUID) (*models.Diagram, error) {
	id, viaShare, err := s.Resolve(ref)
	if err != nil {
		return nil, err
	}

	d, err := s.diagramRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}

	if !viaShare {
		if err := s.authorize(d, userID); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Update replaces the diagram payload, bumps the version and broadcasts the
// new snapshot. sessionID identifies the editing session so other listeners
// can tell the echo of their own save from a co-editor's change.
func (s *DiagramService) Update(ref string, data models.DiagramData, userID *uuid.UUID, sessionID string) (*models.Diagram, error) {
	d, err := s.Get(ref, userID)
	if err != nil {
		return nil, err
	}

	clean := diagram.Dedup(data, s.logger)
	d.Data = &clean

	if err := s.diagramRepo.UpdateData(d); err != nil {
		return nil, err
	}

	s.hub.Broadcast(d.ID.String(), d.Data, sessionID)
	s.logger.Debug("diagram updated",
		zap.String("diagram_id", d.ID.String()),
		zap.Int("version", d.Version),
		zap.String("session_id", sessionID),
	)
	return d, nil
}

func (s *DiagramService) Delete(ref string, userID *uuid.UUID) error {
	id, viaShare, err := s.Resolve(ref)
	if err != nil {
		return err
	}
	if viaShare {
		// Share links never grant deletion.
		return ErrForbidden
	}

	d, err := s.diagramRepo.GetByID(id)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrNotFound
	}
	if err := s.authorize(d, userID); err != nil {
		return err
	}

	return s.diagramRepo.Delete(id)
}

func (s *DiagramService) authorize(d *models.Diagram, userID *uuid.UUID) error {
	if userID == nil {
		return ErrForbidden
	}
	project, err := s.projectRepo.GetByID(d.ProjectID)
	if err != nil {
		return err
	}
	if project == nil {
		return ErrNotFound
	}
	if project.OwnerID != *userID {
		return ErrForbidden
	}
	return nil
}
