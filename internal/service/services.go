package service

import (
	"github.com/alexgrant/todo-api/internal/cache"
	"github.com/alexgrant/todo-api/internal/config"
	"github.com/alexgrant/todo-api/internal/repository"
)

type Services struct {
	Auth *AuthService
	Todo *TodoService
}

func NewServices(repos *repository.Repositories, cacheClient *cache.Cache, cfg *config.Config) *Services {
	return &Services{
		Auth: NewAuthService(repos.User, cfg),
		Todo: NewTodoService(repos.Todo, cacheClient),
	}
}
