package repository

import (
	"context"

	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository reads the program and coaching-package catalog.
type ProductRepository interface {
	Seed(ctx context.Context) error
	FindProgram(ctx context.Context, programID string) (*model.Program, error)
	FindCoachingPackage(ctx context.Context, packageID string) (*model.CoachingPackage, error)
	ListPrograms(ctx context.Context) ([]*model.Program, error)
	ListCoachingPackages(ctx context.Context) ([]*model.CoachingPackage, error)
	IncrementProgramEnrollment(ctx context.Context, tx *gorm.DB, programID string) error
	IncrementCoachingEnrollment(ctx context.Context, tx *gorm.DB, packageID string) error
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

func (r *productRepoImpl) Seed(ctx context.Context) error {
	programs := []model.Program{
		{ID: "strength-foundations", Name: "Strength Foundations", Description: "Eight weeks of progressive full-body strength training.", Price: decimal.RequireFromString("49.99"), Currency: "USD", DurationWeeks: 8},
		{ID: "fat-loss-accelerator", Name: "Fat Loss Accelerator", Description: "Twelve weeks of conditioning and nutrition guidance.", Price: decimal.RequireFromString("79.99"), Currency: "USD", DurationWeeks: 12},
		{ID: "marathon-build", Name: "Marathon Build", Description: "Sixteen week plan from base mileage to race day.", Price: decimal.RequireFromString("99.00"), Currency: "USD", DurationWeeks: 16},
	}
	packages := []model.CoachingPackage{
		{ID: "coaching-monthly", Name: "1:1 Coaching Monthly", Description: "Four video check-ins and a custom plan every month.", Price: decimal.RequireFromString("299.00"), Currency: "USD", Sessions: 4},
		{ID: "coaching-intro", Name: "Intro Consultation", Description: "A single 45 minute assessment call.", Price: decimal.RequireFromString("59.00"), Currency: "USD", Sessions: 1},
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&programs).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&packages).Error
	})
}

func (r *productRepoImpl) FindProgram(ctx context.Context, programID string) (*model.Program, error) {
	var program model.Program
	err := r.db.WithContext(ctx).
		Where("id = ?", programID).
		First(&program).Error

	if err != nil {
		return nil, err
	}

	return &program, nil
}

func (r *productRepoImpl) FindCoachingPackage(ctx context.Context, packageID string) (*model.CoachingPackage, error) {
	var pkg model.CoachingPackage
	err := r.db.WithContext(ctx).
		Where("id = ?", packageID).
		First(&pkg).Error

	if err != nil {
		return nil, err
	}

	return &pkg, nil
}

func (r *productRepoImpl) ListPrograms(ctx context.Context) ([]*model.Program, error) {
	var programs []*model.Program
	err := r.db.WithContext(ctx).
		Order("price ASC").
		Find(&programs).
		Error

	if err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *productRepoImpl) ListCoachingPackages(ctx context.Context) ([]*model.CoachingPackage, error) {
	var packages []*model.CoachingPackage
	err := r.db.WithContext(ctx).
		Order("price ASC").
		Find(&packages).
		Error

	if err != nil {
		return nil, err
	}

	return packages, nil
}

func (r *productRepoImpl) IncrementProgramEnrollment(ctx context.Context, tx *gorm.DB, programID string) error {
	return tx.WithContext(ctx).Model(&model.Program{}).
		Where("id = ?", programID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1)).Error
}

func (r *productRepoImpl) IncrementCoachingEnrollment(ctx context.Context, tx *gorm.DB, packageID string) error {
	return tx.WithContext(ctx).Model(&model.CoachingPackage{}).
		Where("id = ?", packageID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + ?", 1)).Error
}
