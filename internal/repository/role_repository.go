package repository

import (
	"context"

	"github.com/htmlpage/engine/internal/models"
	appErr "github.com/htmlpage/engine/pkg/errors"
	"gorm.io/gorm"
)

type RoleRepository interface {
	BaseRepository[models.Role]
	Exists(ctx context.Context, key string) (bool, error)
}

type roleRepository struct {
	BaseRepository[models.Role]
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{BaseRepository: NewBaseRepository[models.Role](db, "role", "role"), db: db}
}

func (r *roleRepository) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Role{}).Where("role = ?", key).Count(&n).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "count roles failed")
	}
	return n > 0, nil
}
