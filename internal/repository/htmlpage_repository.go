package repository

import (
	"github.com/htmlpage/engine/internal/models"
	"gorm.io/gorm"
)

type HTMLPageRepository interface {
	BaseRepository[models.HTMLPage]
}

type htmlPageRepository struct {
	BaseRepository[models.HTMLPage]
}

func NewHTMLPageRepository(db *gorm.DB) HTMLPageRepository {
	return &htmlPageRepository{BaseRepository: NewBaseRepository[models.HTMLPage](db, "htmlpage", "id")}
}
