package service

import (
	"adaptive_learning_backend/internal/repository"
	"context"

	"gorm.io/gorm"
)

var ctxBG = context.Background()

func newProgressRepo(db *gorm.DB) *repository.ProgressRepository {
	return repository.NewProgressRepository(db)
}
