package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sickboy0001/ZeSecThinkV2/models"
	"github.com/sickboy0001/ZeSecThinkV2/refinement"
)

// TagStore is the persistence used by TagService.
type TagStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Tag, error)
	ListActiveSendable(ctx context.Context, userID string) ([]models.Tag, error)
	FindByID(ctx context.Context, userID string, id int64) (*models.Tag, error)
	Insert(ctx context.Context, t *models.Tag) (int64, error)
	Replace(ctx context.Context, t *models.Tag) error
	Delete(ctx context.Context, userID string, id int64) error
	Reorder(ctx context.Context, userID string, orders []models.TagOrder) error
}

type TagService struct {
	repo      TagStore
	snapshots *refinement.TagSnapshotProvider
}

func NewTagService(repo TagStore) *TagService {
	return &TagService{repo: repo, snapshots: refinement.NewTagSnapshotProvider(repo)}
}

type TagInput struct {
	TagName     string
	Name        string
	Aliases     []string
	Description string
	IsActive    bool
	IsSendAI    bool
}

func (in TagInput) validate() error {
	if strings.TrimSpace(in.TagName) == "" {
		return fmt.Errorf("%w: tag_name is required", ErrInvalidInput)
	}
	return nil
}

func (s *TagService) List(ctx context.Context, userID string) ([]models.Tag, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Snapshot returns the tag context that a refinement batch would send right now.
func (s *TagService) Snapshot(ctx context.Context, userID string) (string, error) {
	return s.snapshots.Snapshot(ctx, userID)
}

// Create adds a tag after the user's last tag in display order.
func (s *TagService) Create(ctx context.Context, userID string, in TagInput) (*models.Tag, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	order := 0
	for _, t := range existing {
		if strings.EqualFold(t.TagName, strings.TrimSpace(in.TagName)) {
			return nil, fmt.Errorf("%w: tag_name %q already exists", ErrInvalidInput, in.TagName)
		}
		if t.DisplayOrder >= order {
			order = t.DisplayOrder + 1
		}
	}

	t := &models.Tag{
		UserID:       userID,
		TagName:      strings.TrimSpace(in.TagName),
		Name:         in.Name,
		Aliases:      normalizeTags(in.Aliases),
		Description:  in.Description,
		DisplayOrder: order,
		IsActive:     in.IsActive,
		IsSendAI:     in.IsSendAI,
	}
	if _, err := s.repo.Insert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Update overwrites the editable fields. Display order is changed only by Reorder.
func (s *TagService) Update(ctx context.Context, userID string, id int64, in TagInput) (*models.Tag, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	t, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	t.TagName = strings.TrimSpace(in.TagName)
	t.Name = in.Name
	t.Aliases = normalizeTags(in.Aliases)
	t.Description = in.Description
	t.IsActive = in.IsActive
	t.IsSendAI = in.IsSendAI
	if err := s.repo.Replace(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TagService) Delete(ctx context.Context, userID string, id int64) error {
	return s.repo.Delete(ctx, userID, id)
}

// Reorder stores new display orders. Every id may appear once.
func (s *TagService) Reorder(ctx context.Context, userID string, orders []models.TagOrder) error {
	seen := make(map[int64]struct{}, len(orders))
	for _, o := range orders {
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("%w: tag %d listed twice", ErrInvalidInput, o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	return s.repo.Reorder(ctx, userID, orders)
}
