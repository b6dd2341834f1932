package repository

import (
	"context"

	"github.com/fitcoach/fitcoach-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	// Grant inserts a progress row unless one exists for (user, program).
	Grant(ctx context.Context, tx *gorm.DB, progress *model.ProgramProgress) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*model.ProgramProgress, error)
}

type progressRepoImpl struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepoImpl{
		db: db,
	}
}

func (r *progressRepoImpl) Grant(ctx context.Context, tx *gorm.DB, progress *model.ProgramProgress) (bool, error) {
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "program_id"}},
		DoNothing: true,
	}).Omit("Program").Create(progress)

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *progressRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.ProgramProgress, error) {
	var progress []*model.ProgramProgress

	err := r.db.WithContext(ctx).
		Preload("Program").
		Where("user_id = ?", userID).
		Order("started_at DESC").
		Find(&progress).Error
	if err != nil {
		return nil, err
	}

	return progress, nil
}
