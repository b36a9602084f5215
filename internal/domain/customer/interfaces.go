package customer

import "context"

// Repository provides customer persistence.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
	NextHumanID(ctx context.Context) (string, error)
	FindDuplicate(ctx context.Context, name, phone string) (*Customer, error)
}
