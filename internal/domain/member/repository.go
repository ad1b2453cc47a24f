package member

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, filter ListFilter) ([]Member, int64, error)
	ListAll(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	ListChildren(ctx context.Context, parentID string) ([]Member, error)
	CountChildren(ctx context.Context, parentID string) (int64, error)
	CountByIDs(ctx context.Context, ids []string) (int64, error)
	Create(ctx context.Context, member *Member) error
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id string) (bool, error)
	RemoveSpouseReferences(ctx context.Context, id string) error
}

// ChangeListener is notified after every successful member write.
type ChangeListener interface {
	MembersChanged(ctx context.Context)
}

type noopListener struct{}

func (noopListener) MembersChanged(context.Context) {}
