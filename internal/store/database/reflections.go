package database

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"gorm.io/gorm"
)

type ReflectionRepository struct {
	db *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

func (r *ReflectionRepository) Create(ctx context.Context, ref *domain.Reflection) error {
	return translate(r.db.WithContext(ctx).Create(ref).Error)
}

// Between returns the user's reflections created in [from, to), newest first.
func (r *ReflectionRepository) Between(ctx context.Context, userID string, from, to time.Time) ([]domain.Reflection, error) {
	var items []domain.Reflection
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, from.UTC(), to.UTC()).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err)
	}
	return items, nil
}
