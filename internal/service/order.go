package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const orderNumberAttempts = 3

type OrderService interface {
	// CreatePendingOrder resolves every cart item and persists a PENDING
	// order with its items atomically. Nothing is written on failure.
	CreatePendingOrder(ctx context.Context, userID string, items []*dto.CartItem) (*model.Order, error)
}

type orderServiceImpl struct {
	db             *gorm.DB
	catalogService CatalogService
	orderRepo      repository.OrderRepository
	newOrderNumber func(time.Time) string
	now            func() time.Time
	log            *slog.Logger
}

func NewOrderService(
	db *gorm.DB,
	catalogService CatalogService,
	orderRepo repository.OrderRepository,
	log *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		db:             db,
		catalogService: catalogService,
		orderRepo:      orderRepo,
		newOrderNumber: NewOrderNumber,
		now:            time.Now,
		log:            log,
	}
}

func (s *orderServiceImpl) CreatePendingOrder(ctx context.Context, userID string, items []*dto.CartItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, validationError("empty cart")
	}

	subtotal := decimal.Zero
	orderItems := make([]*model.OrderItem, 0, len(items))
	for i, item := range items {
		if item == nil || strings.TrimSpace(item.ID) == "" {
			return nil, validationError("item %d: missing id", i)
		}
		productType := model.ProductType(item.Type)
		if !productType.Valid() {
			return nil, validationError("item %d: type must be program or coaching", i)
		}
		if item.Quantity <= 0 {
			return nil, validationError("item %d: quantity must be positive", i)
		}

		entry, err := s.catalogService.Resolve(ctx, item.ID, productType)
		if err != nil {
			return nil, err
		}

		subtotal = subtotal.Add(entry.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		orderItems = append(orderItems, newOrderItem(entry, item.Quantity))
	}

	order := &model.Order{
		ID:       uuid.NewString(),
		UserID:   userID,
		Status:   model.OrderStatusPending,
		Subtotal: subtotal,
		Total:    subtotal,
		Currency: orderItems[0].Currency,
	}
	for _, it := range orderItems {
		it.OrderID = order.ID
	}

	var err error
	for attempt := 1; attempt <= orderNumberAttempts; attempt++ {
		order.OrderNumber = s.newOrderNumber(s.now())

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.orderRepo.Create(ctx, tx, order); err != nil {
				return fmt.Errorf("store order in db: %w", err)
			}
			if err := s.orderRepo.CreateOrderItems(ctx, tx, orderItems); err != nil {
				return fmt.Errorf("store order items in db: %w", err)
			}
			return nil
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.log.Warn("order number collision, regenerating",
			slog.String("order_number", order.OrderNumber),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	order.Items = make([]model.OrderItem, len(orderItems))
	for i, it := range orderItems {
		order.Items[i] = *it
	}

	return order, nil
}

func newOrderItem(entry *CatalogEntry, quantity int) *model.OrderItem {
	item := &model.OrderItem{
		Name:     entry.Name,
		Price:    entry.Price,
		Currency: entry.Currency,
		Quantity: quantity,
	}
	id := entry.ID
	if entry.Type == model.ProductTypeProgram {
		item.ProgramID = &id
	} else {
		item.CoachingPackageID = &id
	}
	return item
}
