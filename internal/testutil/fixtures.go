package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/alexgrant/todo-api/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
	inactive bool
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("testuser_%s", suffix),
		email:    fmt.Sprintf("test_%s@example.com", suffix),
		password: "testpassword123",
	}
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.inactive = true
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        domain.NormalizeEmail(b.email),
		PasswordHash: string(hashedPassword),
		IsActive:     !b.inactive,
		LastLogin:    time.Now(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// Envelope matches the API response envelope
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// AuthData matches the auth response payload
type AuthData struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	AccessToken string `json:"accessToken"`
}

// BuildAndAuthenticate creates a user via the API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"name":     b.name,
		"email":    b.email,
		"password": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/signup"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to sign up user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	var data AuthData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("failed to decode auth data: %v", err)
	}

	userID, _ := uuid.Parse(data.User.ID)
	user := &domain.User{
		ID:    userID,
		Name:  data.User.Name,
		Email: data.User.Email,
	}

	return user, data.AccessToken
}

// TodoBuilder creates test todos with a builder pattern
type TodoBuilder struct {
	title       string
	description string
	status      domain.TodoStatus
	priority    domain.TodoPriority
	dueDate     *time.Time
	completedAt *time.Time
	archived    bool
	userID      uuid.UUID
}

// NewTodoBuilder creates a new TodoBuilder with default values
func NewTodoBuilder(userID uuid.UUID) *TodoBuilder {
	return &TodoBuilder{
		title:    fmt.Sprintf("todo_%s", uuid.New().String()[:8]),
		status:   domain.StatusPending,
		priority: domain.PriorityMedium,
		userID:   userID,
	}
}

func (b *TodoBuilder) WithTitle(title string) *TodoBuilder {
	b.title = title
	return b
}

func (b *TodoBuilder) WithDescription(description string) *TodoBuilder {
	b.description = description
	return b
}

func (b *TodoBuilder) WithStatus(status domain.TodoStatus) *TodoBuilder {
	b.status = status
	if status == domain.StatusCompleted && b.completedAt == nil {
		now := time.Now()
		b.completedAt = &now
	}
	return b
}

func (b *TodoBuilder) WithPriority(priority domain.TodoPriority) *TodoBuilder {
	b.priority = priority
	return b
}

func (b *TodoBuilder) WithDueDate(dueDate time.Time) *TodoBuilder {
	b.dueDate = &dueDate
	return b
}

func (b *TodoBuilder) Archived() *TodoBuilder {
	b.archived = true
	return b
}

// Build creates the todo in the database
func (b *TodoBuilder) Build(t *testing.T, db *gorm.DB) *domain.Todo {
	t.Helper()

	todo := &domain.Todo{
		ID:          uuid.New(),
		Title:       b.title,
		Description: b.description,
		Status:      b.status,
		Priority:    b.priority,
		DueDate:     b.dueDate,
		UserID:      b.userID,
		CompletedAt: b.completedAt,
		IsArchived:  b.archived,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := db.Create(todo).Error; err != nil {
		t.Fatalf("failed to create todo: %v", err)
	}

	return todo
}
