package photo

import "context"

type Repository interface {
	Create(ctx context.Context, photo *DishPhoto) error
	GetByID(ctx context.Context, id string) (*DishPhoto, error)
	List(ctx context.Context) ([]DishPhoto, error)
	// ListUnlinked returns unlinked photos from the last 24 hours,
	// newest first: the linking pool shown after a receipt is captured.
	ListUnlinked(ctx context.Context) ([]DishPhoto, error)
	ListByInstance(ctx context.Context, instanceID string) ([]DishPhoto, error)
	ListByUsers(ctx context.Context, userIDs []string, limit, offset int) ([]DishPhoto, error)
	UpdateLink(ctx context.Context, id string, instanceID *string) (*DishPhoto, error)
	// UnlinkByInstanceIDs nulls the link on every photo pointing at any of
	// the given instances. Cascade hook for instance/receipt deletion.
	UnlinkByInstanceIDs(ctx context.Context, instanceIDs []string) error
	Count(ctx context.Context) (int, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

// InstanceChecker verifies link targets without importing the receipt package.
type InstanceChecker interface {
	ExistsInstance(ctx context.Context, id string) (bool, error)
}
