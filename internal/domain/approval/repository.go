package approval

import "context"

// Repository persists one request kind. Transition must be a compare-and-set on
// the stored status: it returns ErrRequestNotFound when id is absent and
// ErrStaleStatus when the stored status is no longer from.
type Repository[P any] interface {
	Create(ctx context.Context, request Request[P]) (Request[P], error)
	GetByID(ctx context.Context, id string) (Request[P], error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Request[P], error)
	ListPending(ctx context.Context, departmentID *string) ([]Request[P], error)
	List(ctx context.Context, filter Filter) ([]Request[P], int64, error)
	Transition(ctx context.Context, id string, from Status, change Change) error
}
