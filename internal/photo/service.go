package photo

import (
	"context"
	"strings"

	"dishlog/internal/core"
)

type Service struct {
	repo      Repository
	instances InstanceChecker
}

func NewService(repo Repository, instances InstanceChecker) *Service {
	return &Service{repo: repo, instances: instances}
}

// CreateInput carries the fields for posting a new photo. DishInstanceID
// is optional; when set the photo is linked at creation time.
type CreateInput struct {
	ImageURL       string
	DishInstanceID *string
	PostedByUserID *string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*DishPhoto, error) {
	if strings.TrimSpace(input.ImageURL) == "" {
		return nil, core.Invalid("imageUrl", "is required")
	}
	if input.DishInstanceID != nil {
		if err := s.checkInstance(ctx, *input.DishInstanceID); err != nil {
			return nil, err
		}
	}

	photo := &DishPhoto{
		ImageURL:       input.ImageURL,
		DishInstanceID: input.DishInstanceID,
		PostedByUserID: input.PostedByUserID,
	}
	if err := s.repo.Create(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (s *Service) Get(ctx context.Context, id string) (*DishPhoto, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]DishPhoto, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListUnlinked(ctx context.Context) ([]DishPhoto, error) {
	return s.repo.ListUnlinked(ctx)
}

func (s *Service) ListByInstance(ctx context.Context, instanceID string) ([]DishPhoto, error) {
	return s.repo.ListByInstance(ctx, instanceID)
}

// Link attaches the photo to a dish instance. The target instance must
// exist; linking to a missing instance is rejected rather than leaving a
// dangling reference.
func (s *Service) Link(ctx context.Context, photoID, instanceID string) (*DishPhoto, error) {
	if strings.TrimSpace(instanceID) == "" {
		return nil, core.Invalid("dishInstanceId", "is required")
	}
	if err := s.checkInstance(ctx, instanceID); err != nil {
		return nil, err
	}
	return s.repo.UpdateLink(ctx, photoID, &instanceID)
}

// Unlink detaches the photo from its dish instance. The photo row itself
// is preserved.
func (s *Service) Unlink(ctx context.Context, photoID string) (*DishPhoto, error) {
	return s.repo.UpdateLink(ctx, photoID, nil)
}

func (s *Service) checkInstance(ctx context.Context, instanceID string) error {
	ok, err := s.instances.ExistsInstance(ctx, instanceID)
	if err != nil {
		return err
	}
	if !ok {
		return core.ErrNotFound
	}
	return nil
}
