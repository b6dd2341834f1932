package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/client"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	cacheKeyPrograms = "catalog:programs"
	cacheKeyPackages = "catalog:coaching-packages"
)

// CatalogEntry is a resolved, purchasable product.
type CatalogEntry struct {
	ID       string
	Type     model.ProductType
	Name     string
	Price    decimal.Decimal
	Currency string
}

type CatalogService interface {
	Resolve(ctx context.Context, productID string, productType model.ProductType) (*CatalogEntry, error)
	ListPrograms(ctx context.Context) ([]*model.Program, error)
	GetProgram(ctx context.Context, programID string) (*model.Program, error)
	ListCoachingPackages(ctx context.Context) ([]*model.CoachingPackage, error)
	// Invalidate drops cached listings so enrollment counts refresh.
	Invalidate(ctx context.Context)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	cache       client.Cache
	ttl         time.Duration
	log         *slog.Logger
}

// NewCatalogService accepts a nil cache, in which case listings always hit the database.
func NewCatalogService(productRepo repository.ProductRepository, cache client.Cache, ttl time.Duration, log *slog.Logger) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		cache:       cache,
		ttl:         ttl,
		log:         log,
	}
}

// Resolve always reads the database; checkout must never price from a stale cache.
func (s *catalogServiceImpl) Resolve(ctx context.Context, productID string, productType model.ProductType) (*CatalogEntry, error) {
	switch productType {
	case model.ProductTypeProgram:
		program, err := s.productRepo.FindProgram(ctx, productID)
		if err != nil {
			return nil, s.lookupError(err, productType, productID)
		}
		return &CatalogEntry{
			ID:       program.ID,
			Type:     productType,
			Name:     program.Name,
			Price:    program.Price,
			Currency: program.Currency,
		}, nil
	case model.ProductTypeCoaching:
		pkg, err := s.productRepo.FindCoachingPackage(ctx, productID)
		if err != nil {
			return nil, s.lookupError(err, productType, productID)
		}
		return &CatalogEntry{
			ID:       pkg.ID,
			Type:     productType,
			Name:     pkg.Name,
			Price:    pkg.Price,
			Currency: pkg.Currency,
		}, nil
	default:
		return nil, validationError("unknown product type %q", productType)
	}
}

func (s *catalogServiceImpl) lookupError(err error, productType model.ProductType, productID string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError("%s %q not found", productType, productID)
	}
	return fmt.Errorf("find %s %s: %w", productType, productID, err)
}

func (s *catalogServiceImpl) ListPrograms(ctx context.Context) ([]*model.Program, error) {
	return getOrSet(s, ctx, cacheKeyPrograms, func() ([]*model.Program, error) {
		return s.productRepo.ListPrograms(ctx)
	})
}

func (s *catalogServiceImpl) GetProgram(ctx context.Context, programID string) (*model.Program, error) {
	program, err := s.productRepo.FindProgram(ctx, programID)
	if err != nil {
		return nil, s.lookupError(err, model.ProductTypeProgram, programID)
	}
	return program, nil
}

func (s *catalogServiceImpl) ListCoachingPackages(ctx context.Context) ([]*model.CoachingPackage, error) {
	return getOrSet(s, ctx, cacheKeyPackages, func() ([]*model.CoachingPackage, error) {
		return s.productRepo.ListCoachingPackages(ctx)
	})
}

func (s *catalogServiceImpl) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKeyPrograms, cacheKeyPackages); err != nil {
		s.log.Warn("invalidate catalog cache", slog.Any("error", err))
	}
}

// getOrSet serves from cache when possible; cache errors fall through to fn.
func getOrSet[T any](s *catalogServiceImpl, ctx context.Context, key string, fn func() (T, error)) (T, error) {
	var result T

	if s.cache != nil {
		if err := s.cache.Get(ctx, key, &result); err == nil {
			return result, nil
		}
	}

	result, err := fn()
	if err != nil {
		return result, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.log.Warn("cache catalog listing", slog.String("key", key), slog.Any("error", err))
		}
	}

	return result, nil
}
