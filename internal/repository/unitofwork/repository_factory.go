package unitofwork

import "context"

// RepositoryFactory creates a per-request unit of work over the shared DB.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
