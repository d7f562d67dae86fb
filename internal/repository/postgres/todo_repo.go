package postgres

import (
	"context"

	"github.com/alexgrant/todo-api/internal/domain"
	"github.com/alexgrant/todo-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// sortColumns whitelists sortable fields; anything else falls back to created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"priority":  "priority",
	"dueDate":   "due_date",
}

type todoRepository struct {
	db *gorm.DB
}

func NewTodoRepository(db *gorm.DB) *todoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *todoRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		First(&todo, "id = ? AND user_id = ? AND is_archived = ?", id, userID, false).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) GetByIDIncludingArchived(ctx context.Context, id, userID uuid.UUID) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		First(&todo, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) List(ctx context.Context, userID uuid.UUID, filter repository.TodoFilter) ([]*domain.Todo, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Todo{}).
		Where("user_id = ? AND is_archived = ?", userID, false)

	if domain.TodoStatus(filter.Status).Valid() {
		query = query.Where("status = ?", filter.Status)
	}
	if domain.TodoPriority(filter.Priority).Valid() {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var totalCount int64
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if filter.SortOrder == "asc" {
		direction = "ASC"
	}

	var todos []*domain.Todo
	err := query.
		Order(column + " " + direction).
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&todos).Error
	if err != nil {
		return nil, 0, err
	}

	return todos, totalCount, nil
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

func (r *todoRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&domain.Todo{}, "id = ? AND user_id = ?", id, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *todoRepository) Stats(ctx context.Context, userID uuid.UUID) (*domain.TodoStats, error) {
	var stats domain.TodoStats
	err := r.db.WithContext(ctx).Model(&domain.Todo{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending,
			COUNT(*) FILTER (WHERE status = 'in-progress') AS in_progress,
			COUNT(*) FILTER (WHERE status = 'completed') AS completed,
			COUNT(*) FILTER (WHERE priority = 'high') AS high_priority,
			COUNT(*) FILTER (WHERE due_date IS NOT NULL AND due_date < NOW() AND status <> 'completed') AS overdue`).
		Where("user_id = ? AND is_archived = ?", userID, false).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
