package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alexgrant/todo-api/internal/cache"
	"github.com/alexgrant/todo-api/internal/domain"
	"github.com/alexgrant/todo-api/internal/repository/postgres"
	"github.com/alexgrant/todo-api/internal/service"
	"github.com/alexgrant/todo-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTodoService(t *testing.T) (*service.TodoService, *testutil.TestDB, uuid.UUID) {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	svc := service.NewTodoService(repos.Todo, testutil.NewDisabledCache(t))
	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	return svc, testDB, owner.ID
}

func TestTodoService_Create(t *testing.T) {
	svc, _, ownerID := newTodoService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.CreateTodoInput
		wantErr bool
		check   func(*testing.T, *domain.Todo)
	}{
		{
			name:  "defaults applied",
			input: service.CreateTodoInput{Title: "Buy milk"},
			check: func(t *testing.T, todo *domain.Todo) {
				assert.Equal(t, domain.StatusPending, todo.Status)
				assert.Equal(t, domain.PriorityMedium, todo.Priority)
				assert.Nil(t, todo.CompletedAt)
				assert.False(t, todo.IsArchived)
			},
		},
		{
			name: "explicit priority kept",
			input: service.CreateTodoInput{
				Title:    "Urgent thing",
				Priority: "high",
			},
			check: func(t *testing.T, todo *domain.Todo) {
				assert.Equal(t, domain.PriorityHigh, todo.Priority)
			},
		},
		{
			name:    "missing title",
			input:   service.CreateTodoInput{Title: "   "},
			wantErr: true,
		},
		{
			name: "title too long",
			input: service.CreateTodoInput{
				Title: strings.Repeat("a", 101),
			},
			wantErr: true,
		},
		{
			name: "invalid priority",
			input: service.CreateTodoInput{
				Title:    "Valid title",
				Priority: "urgent",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todo, err := svc.Create(ctx, ownerID, tt.input)
			if tt.wantErr {
				var validationErr *domain.ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, ownerID, todo.UserID)
			if tt.check != nil {
				tt.check(t, todo)
			}
		})
	}
}

func TestTodoService_List_ClampsPagination(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		testutil.NewTodoBuilder(ownerID).Build(t, testDB.DB)
	}

	tests := []struct {
		name      string
		input     service.ListTodosInput
		wantPage  int
		wantLimit int
	}{
		{
			name:      "limit above 50 is clamped to 50",
			input:     service.ListTodosInput{Page: 1, Limit: 500},
			wantPage:  1,
			wantLimit: 50,
		},
		{
			name:      "page zero becomes one",
			input:     service.ListTodosInput{Page: 0, Limit: 10},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:      "negative page becomes one",
			input:     service.ListTodosInput{Page: -3, Limit: 10},
			wantPage:  1,
			wantLimit: 10,
		},
		{
			name:      "zero limit falls back to the default",
			input:     service.ListTodosInput{Page: 1, Limit: 0},
			wantPage:  1,
			wantLimit: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.List(ctx, ownerID, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, result.Pagination.CurrentPage)
			assert.Equal(t, tt.wantLimit, result.Pagination.Limit)
			assert.Equal(t, int64(3), result.Pagination.TotalCount)
		})
	}
}

func TestTodoService_List_Pagination(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		testutil.NewTodoBuilder(ownerID).Build(t, testDB.DB)
	}

	result, err := svc.List(ctx, ownerID, service.ListTodosInput{Page: 2, Limit: 2})
	require.NoError(t, err)

	assert.Len(t, result.Todos, 2)
	assert.Equal(t, 3, result.Pagination.TotalPages)
	assert.True(t, result.Pagination.HasNextPage)
	assert.True(t, result.Pagination.HasPrevPage)
}

func TestTodoService_Update_StatusTransitions(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	todo := testutil.NewTodoBuilder(ownerID).Build(t, testDB.DB)

	completed := "completed"
	updated, err := svc.Update(ctx, ownerID, todo.ID, service.UpdateTodoInput{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	firstCompletedAt := *updated.CompletedAt

	// Completing an already-completed todo keeps the original timestamp
	updated, err = svc.Update(ctx, ownerID, todo.ID, service.UpdateTodoInput{Status: &completed})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.WithinDuration(t, firstCompletedAt, *updated.CompletedAt, time.Second)

	// Leaving completed clears the timestamp
	pending := "pending"
	updated, err = svc.Update(ctx, ownerID, todo.ID, service.UpdateTodoInput{Status: &pending})
	require.NoError(t, err)
	assert.Nil(t, updated.CompletedAt)
}

func TestTodoService_Update_PartialMerge(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	due := time.Now().Add(48 * time.Hour)
	todo := testutil.NewTodoBuilder(ownerID).
		WithTitle("Original title").
		WithDescription("original description").
		WithDueDate(due).
		Build(t, testDB.DB)

	newTitle := "New title"
	updated, err := svc.Update(ctx, ownerID, todo.ID, service.UpdateTodoInput{Title: &newTitle})
	require.NoError(t, err)

	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, "original description", updated.Description)
	require.NotNil(t, updated.DueDate)

	// Clearing the due date is explicit, not a side effect of omission
	updated, err = svc.Update(ctx, ownerID, todo.ID, service.UpdateTodoInput{ClearDueDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestTodoService_Update_Validation(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	todo := testutil.NewTodoBuilder(ownerID).Build(t, testDB.DB)

	badStatus := "done"
	_, err := svc.Update(ctx, ownerID, todo.ID, service.UpdateTodoInput{Status: &badStatus})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	badPriority := "urgent"
	_, err = svc.Update(ctx, ownerID, todo.ID, service.UpdateTodoInput{Priority: &badPriority})
	assert.ErrorAs(t, err, &validationErr)
}

func TestTodoService_OwnerScoping(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	stranger, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	todo := testutil.NewTodoBuilder(ownerID).Build(t, testDB.DB)

	_, err := svc.Get(ctx, stranger.ID, todo.ID)
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	title := "hijacked"
	_, err = svc.Update(ctx, stranger.ID, todo.ID, service.UpdateTodoInput{Title: &title})
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	err = svc.Delete(ctx, stranger.ID, todo.ID)
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	_, err = svc.ToggleArchive(ctx, stranger.ID, todo.ID)
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	// Owner still sees the untouched record
	got, err := svc.Get(ctx, ownerID, todo.ID)
	require.NoError(t, err)
	assert.Equal(t, todo.Title, got.Title)
}

func TestTodoService_ToggleArchive(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	todo := testutil.NewTodoBuilder(ownerID).Build(t, testDB.DB)

	archived, err := svc.ToggleArchive(ctx, ownerID, todo.ID)
	require.NoError(t, err)
	assert.True(t, archived.IsArchived)

	// Archived todos disappear from reads
	_, err = svc.Get(ctx, ownerID, todo.ID)
	assert.ErrorIs(t, err, service.ErrTodoNotFound)

	// Toggling twice restores the original state
	restored, err := svc.ToggleArchive(ctx, ownerID, todo.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsArchived)

	_, err = svc.Get(ctx, ownerID, todo.ID)
	require.NoError(t, err)
}

func TestTodoService_ListCacheReadThrough(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	liveCache := testutil.NewTestCache(t)
	svc := service.NewTodoService(repos.Todo, liveCache)
	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	ctx := context.Background()

	todo := testutil.NewTodoBuilder(owner.ID).WithTitle("First").Build(t, testDB.DB)

	input := service.ListTodosInput{Page: 1, Limit: 10}
	listKey := cache.UserTodosKey(owner.ID, "1:10:::createdAt:desc:")

	// First read populates the key
	result, err := svc.List(ctx, owner.ID, input)
	require.NoError(t, err)
	require.Len(t, result.Todos, 1)
	assert.True(t, liveCache.Exists(ctx, listKey))

	// A row inserted behind the cache's back stays invisible until a write
	// through the service invalidates the entry
	testutil.NewTodoBuilder(owner.ID).WithTitle("Second").Build(t, testDB.DB)
	result, err = svc.List(ctx, owner.ID, input)
	require.NoError(t, err)
	assert.Len(t, result.Todos, 1)

	newTitle := "First, renamed"
	_, err = svc.Update(ctx, owner.ID, todo.ID, service.UpdateTodoInput{Title: &newTitle})
	require.NoError(t, err)
	assert.False(t, liveCache.Exists(ctx, listKey))

	result, err = svc.List(ctx, owner.ID, input)
	require.NoError(t, err)
	require.Len(t, result.Todos, 2)
}

func TestTodoService_StatsCacheInvalidation(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	liveCache := testutil.NewTestCache(t)
	svc := service.NewTodoService(repos.Todo, liveCache)
	owner, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	ctx := context.Background()

	todo := testutil.NewTodoBuilder(owner.ID).Build(t, testDB.DB)
	statsKey := cache.UserStatsKey(owner.ID)

	stats, err := svc.Stats(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.True(t, liveCache.Exists(ctx, statsKey))

	// The cached aggregate survives direct inserts
	testutil.NewTodoBuilder(owner.ID).Build(t, testDB.DB)
	testutil.NewTodoBuilder(owner.ID).Build(t, testDB.DB)
	stats, err = svc.Stats(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)

	// Deleting through the service drops it, and the next read is fresh
	require.NoError(t, svc.Delete(ctx, owner.ID, todo.ID))
	assert.False(t, liveCache.Exists(ctx, statsKey))

	stats, err = svc.Stats(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
}

func TestTodoService_Stats(t *testing.T) {
	svc, testDB, ownerID := newTodoService(t)
	ctx := context.Background()

	yesterday := time.Now().Add(-24 * time.Hour)
	testutil.NewTodoBuilder(ownerID).
		WithPriority(domain.PriorityHigh).
		WithDueDate(yesterday).
		Build(t, testDB.DB)
	testutil.NewTodoBuilder(ownerID).
		WithStatus(domain.StatusCompleted).
		Build(t, testDB.DB)

	stats, err := svc.Stats(ctx, ownerID)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Pending)
	assert.Equal(t, int64(1), stats.Completed)
	assert.Equal(t, int64(1), stats.HighPriority)
	assert.Equal(t, int64(1), stats.Overdue)
}
