package repository

import (
	"context"

	"github.com/fitcoach/fitcoach-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContactRepository interface {
	CreateMessage(ctx context.Context, msg *model.ContactMessage) error
	Subscribe(ctx context.Context, sub *model.NewsletterSubscriber) (bool, error)
}

type contactRepoImpl struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepoImpl{
		db: db,
	}
}

func (r *contactRepoImpl) CreateMessage(ctx context.Context, msg *model.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *contactRepoImpl) Subscribe(ctx context.Context, sub *model.NewsletterSubscriber) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(sub)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}
