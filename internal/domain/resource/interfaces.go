package resource

import "context"

// Repository provides resource persistence.
type Repository interface {
	Create(ctx context.Context, r *Resource) error
	Get(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context) ([]Resource, error)
	Update(ctx context.Context, id string, patch Patch) error
	Delete(ctx context.Context, id string) error
}
