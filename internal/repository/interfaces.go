package repository

import (
	"context"

	"github.com/alexgrant/todo-api/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TodoFilter describes a list query. Page and Limit are expected to be
// clamped by the caller before the query runs.
type TodoFilter struct {
	Status    string
	Priority  string
	Search    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	// GetByID returns a non-archived todo owned by userID.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error)
	// GetByIDIncludingArchived also matches archived todos; used by delete
	// and archive-toggle, which operate regardless of the archived flag.
	GetByIDIncludingArchived(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error)
	List(ctx context.Context, userID uuid.UUID, filter TodoFilter) ([]*domain.Todo, int64, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (*domain.TodoStats, error)
}

type Repositories struct {
	User UserRepository
	Todo TodoRepository
}
