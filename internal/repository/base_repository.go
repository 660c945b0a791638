package repository

import (
	"context"
	"errors"

	appErr "github.com/htmlpage/engine/pkg/errors"
	"gorm.io/gorm"
)

// BaseRepository defines the operations shared by every entity store.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
}

type baseRepository[T any] struct {
	db   *gorm.DB
	name string
	pk   string
}

// NewBaseRepository returns a gorm-backed BaseRepository. name labels error
// messages and pk is the primary key column GetByID filters on.
func NewBaseRepository[T any](db *gorm.DB, name, pk string) BaseRepository[T] {
	return &baseRepository[T]{db: db, name: name, pk: pk}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "create "+r.name+" failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, r.pk+" = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.New(appErr.CodeNotFound, r.name+" not found").WithMeta("id", id)
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get "+r.name+" failed")
	}
	return nil
}
