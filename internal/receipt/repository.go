package receipt

import (
	"context"
	"time"
)

// PhotoUnlinker is the cascade hook the delete paths use: deleting a
// receipt or an instance nulls out photo links, it never deletes photos.
type PhotoUnlinker interface {
	UnlinkByInstanceIDs(ctx context.Context, instanceIDs []string) error
}

type Repository interface {
	CreateReceipt(ctx context.Context, receipt *Receipt) error
	GetReceipt(ctx context.Context, id string) (*Receipt, error)
	ListReceipts(ctx context.Context) ([]Receipt, error)
	ListRecent(ctx context.Context, limit int) ([]Receipt, error)
	ListByRestaurant(ctx context.Context, restaurantID string) ([]Receipt, error)
	UpdateReceipt(ctx context.Context, id string, datetime *time.Time, totalAmount, restaurantID *string) (*Receipt, error)
	// DeleteReceipt removes the receipt and every instance on it, after
	// unlinking their photos. All-or-nothing from the caller's view.
	DeleteReceipt(ctx context.Context, id string) error

	CreateInstances(ctx context.Context, instances []DishInstance) error
	GetInstance(ctx context.Context, id string) (*DishInstance, error)
	ExistsInstance(ctx context.Context, id string) (bool, error)
	ListInstances(ctx context.Context) ([]DishInstance, error)
	ListInstancesByReceipt(ctx context.Context, receiptID string) ([]DishInstance, error)
	ListInstancesByDish(ctx context.Context, dishID string) ([]DishInstance, error)
	UpdateInstance(ctx context.Context, id string, dishID, price, rating *string) (*DishInstance, error)
	DeleteInstance(ctx context.Context, id string) error

	CountReceipts(ctx context.Context) (int, error)
}
