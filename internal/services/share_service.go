package services

import (
	"time"

	"github.com/google/uuid"

	"umlforge/internal/models"
	"umlforge/internal/repositories"
	"umlforge/internal/utils"
)

// DefaultShareTTL is how long a share link stays valid when the owner does
// not pick an expiry.
const DefaultShareTTL = 24 * time.Hour

type ShareService struct {
	shareRepo   *repositories.ShareRepository
	diagramRepo *repositories.DiagramRepository
	projectRepo *repositories.ProjectRepository
}

func NewShareService(
	shareRepo *repositories.ShareRepository,
	diagramRepo *repositories.DiagramRepository,
	projectRepo *repositories.ProjectRepository,
) *ShareService {
	return &ShareService{
		shareRepo:   shareRepo,
		diagramRepo: diagramRepo,
		projectRepo: projectRepo,
	}
}

// Create mints a share link for a diagram the user owns. A snapshot of the
// diagram payload is frozen into the share row so the link still renders
// something if the diagram is later deleted.
func (s *ShareService) Create(diagramID, userID uuid.UUID, ttl time.Duration) (*models.Share, error) {
	d, err := s.diagramRepo.GetByID(diagramID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}

	project, err := s.projectRepo.GetByID(d.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	if project.OwnerID != userID {
		return nil, ErrForbidden
	}

	if ttl <= 0 {
		ttl = DefaultShareTTL
	}
	expires := timeNow().Add(ttl)

	share := &models.Share{
		Token:       utils.ShareToken(),
		DiagramID:   diagramID,
		OwnerID:     userID,
		DiagramData: d.Data,
		ExpiresAt:   &expires,
		IsActive:    true,
	}
	if err := s.shareRepo.Create(share); err != nil {
		return nil, err
	}
	return share, nil
}

// Get resolves a token for anyone holding the link. Dead links are reported
// as not-found, never as forbidden, so the token's validity is all a caller
// learns.
func (s *ShareService) Get(token string) (*models.Share, error) {
	share, err := s.shareRepo.GetByToken(token)
	if err != nil {
		return nil, err
	}
	if share == nil || !share.IsActive || share.Expired(timeNow()) {
		return nil, ErrNotFound
	}
	return share, nil
}

func (s *ShareService) List(userID uuid.UUID) ([]models.Share, error) {
	return s.shareRepo.GetByOwnerID(userID)
}

func (s *ShareService) Revoke(token string, userID uuid.UUID) error {
	share, err := s.shareRepo.GetByToken(token)
	if err != nil {
		return err
	}
	if share == nil {
		return ErrNotFound
	}
	if share.OwnerID != userID {
		return ErrForbidden
	}
	return s.shareRepo.Deactivate(token)
}
