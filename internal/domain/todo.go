package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type TodoStatus string

const (
	StatusPending    TodoStatus = "pending"
	StatusInProgress TodoStatus = "in-progress"
	StatusCompleted  TodoStatus = "completed"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

func (p TodoPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	ID          uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string       `json:"title" gorm:"not null"`
	Description string       `json:"description,omitempty"`
	Status      TodoStatus   `json:"status" gorm:"type:varchar(20);default:'pending';index:idx_todos_user_status,priority:2"`
	Priority    TodoPriority `json:"priority" gorm:"type:varchar(10);default:'medium'"`
	DueDate     *time.Time   `json:"dueDate,omitempty" gorm:"index"`
	UserID      uuid.UUID    `json:"userId" gorm:"type:uuid;not null;index:idx_todos_user_status,priority:1"`
	CompletedAt *time.Time   `json:"completedAt,omitempty"`
	IsArchived  bool         `json:"isArchived" gorm:"default:false"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SetStatus applies a status transition and keeps CompletedAt coupled to it:
// set on entering completed, cleared on leaving it.
func (t *Todo) SetStatus(status TodoStatus) {
	t.Status = status
	if status == StatusCompleted {
		if t.CompletedAt == nil {
			now := time.Now()
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}
}

// TodoStats aggregates a user's non-archived todos.
type TodoStats struct {
	Total        int64 `json:"total"`
	Pending      int64 `json:"pending"`
	InProgress   int64 `json:"inProgress"`
	Completed    int64 `json:"completed"`
	HighPriority int64 `json:"highPriority"`
	Overdue      int64 `json:"overdue"`
}

func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return NewValidationError("Title is required")
	}
	if len(title) > 100 {
		return NewValidationError("Title cannot exceed 100 characters")
	}
	return nil
}

func ValidateDescription(description string) error {
	if len(strings.TrimSpace(description)) > 500 {
		return NewValidationError("Description cannot exceed 500 characters")
	}
	return nil
}
