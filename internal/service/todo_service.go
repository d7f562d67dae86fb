package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexgrant/todo-api/internal/cache"
	"github.com/alexgrant/todo-api/internal/domain"
	"github.com/alexgrant/todo-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrTodoNotFound = errors.New("todo not found")

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

type TodoService struct {
	todoRepo repository.TodoRepository
	cache    *cache.Cache
}

func NewTodoService(todoRepo repository.TodoRepository, cacheClient *cache.Cache) *TodoService {
	return &TodoService{
		todoRepo: todoRepo,
		cache:    cacheClient,
	}
}

type CreateTodoInput struct {
	Title       string
	Description string
	Priority    string
	DueDate     *time.Time
}

func (s *TodoService) Create(ctx context.Context, userID uuid.UUID, input CreateTodoInput) (*domain.Todo, error) {
	if err := domain.ValidateTitle(input.Title); err != nil {
		return nil, err
	}
	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	priority := domain.PriorityMedium
	if input.Priority != "" {
		priority = domain.TodoPriority(input.Priority)
		if !priority.Valid() {
			return nil, domain.NewValidationError("Priority must be one of: low, medium, high")
		}
	}

	todo := &domain.Todo{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      domain.StatusPending,
		Priority:    priority,
		DueDate:     input.DueDate,
		UserID:      userID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(ctx, userID)
	return todo, nil
}

type ListTodosInput struct {
	Page      int
	Limit     int
	Status    string
	Priority  string
	Search    string
	SortBy    string
	SortOrder string
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Limit       int   `json:"limit"`
}

type ListResult struct {
	Todos      []*domain.Todo `json:"todos"`
	Pagination Pagination     `json:"pagination"`
}

func (s *TodoService) List(ctx context.Context, userID uuid.UUID, input ListTodosInput) (*ListResult, error) {
	filter := normalizeFilter(input)

	key := cache.UserTodosKey(userID, canonicalQuery(filter))
	var cached ListResult
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	todos, totalCount, err := s.todoRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((totalCount + int64(filter.Limit) - 1) / int64(filter.Limit))
	result := &ListResult{
		Todos: todos,
		Pagination: Pagination{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalCount:  totalCount,
			HasNextPage: filter.Page < totalPages,
			HasPrevPage: filter.Page > 1,
			Limit:       filter.Limit,
		},
	}

	s.cache.Set(ctx, key, result, cache.DefaultTTL)
	return result, nil
}

func (s *TodoService) Get(ctx context.Context, userID, todoID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, todoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// UpdateTodoInput carries a partial merge; nil pointers leave fields
// untouched. ClearDueDate distinguishes "set dueDate to null" from absent.
type UpdateTodoInput struct {
	Title        *string
	Description  *string
	Status       *string
	Priority     *string
	DueDate      *time.Time
	ClearDueDate bool
}

func (s *TodoService) Update(ctx context.Context, userID, todoID uuid.UUID, input UpdateTodoInput) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByID(ctx, todoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	if input.Title != nil {
		if err := domain.ValidateTitle(*input.Title); err != nil {
			return nil, err
		}
		todo.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}
		todo.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		status := domain.TodoStatus(*input.Status)
		if !status.Valid() {
			return nil, domain.NewValidationError("Status must be one of: pending, in-progress, completed")
		}
		todo.SetStatus(status)
	}
	if input.Priority != nil {
		priority := domain.TodoPriority(*input.Priority)
		if !priority.Valid() {
			return nil, domain.NewValidationError("Priority must be one of: low, medium, high")
		}
		todo.Priority = priority
	}
	if input.ClearDueDate {
		todo.DueDate = nil
	} else if input.DueDate != nil {
		todo.DueDate = input.DueDate
	}

	todo.UpdatedAt = time.Now()
	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(ctx, userID)
	return todo, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID uuid.UUID) error {
	if err := s.todoRepo.Delete(ctx, todoID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return err
	}

	s.cache.InvalidateUser(ctx, userID)
	return nil
}

// ToggleArchive flips the archived flag; archived todos stay reachable here
// and through delete, unlike reads and updates.
func (s *TodoService) ToggleArchive(ctx context.Context, userID, todoID uuid.UUID) (*domain.Todo, error) {
	todo, err := s.todoRepo.GetByIDIncludingArchived(ctx, todoID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}

	todo.IsArchived = !todo.IsArchived
	todo.UpdatedAt = time.Now()
	if err := s.todoRepo.Update(ctx, todo); err != nil {
		return nil, err
	}

	s.cache.InvalidateUser(ctx, userID)
	return todo, nil
}

func (s *TodoService) Stats(ctx context.Context, userID uuid.UUID) (*domain.TodoStats, error) {
	key := cache.UserStatsKey(userID)
	var cached domain.TodoStats
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := s.todoRepo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, stats, cache.DefaultTTL)
	return stats, nil
}

// normalizeFilter clamps pagination (page >= 1, 1 <= limit <= 50) and pins
// the sort to the whitelist defaults.
func normalizeFilter(input ListTodosInput) repository.TodoFilter {
	page := input.Page
	if page < 1 {
		page = 1
	}

	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	sortOrder := "desc"
	if input.SortOrder == "asc" {
		sortOrder = "asc"
	}

	return repository.TodoFilter{
		Status:    input.Status,
		Priority:  input.Priority,
		Search:    strings.TrimSpace(input.Search),
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Limit:     limit,
	}
}

func canonicalQuery(f repository.TodoFilter) string {
	return fmt.Sprintf("%d:%d:%s:%s:%s:%s:%s",
		f.Page, f.Limit, f.Status, f.Priority, f.SortBy, f.SortOrder, f.Search)
}
