package repository

import (
	"context"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/model"
	"gorm.io/gorm"
)

// Completion is what the processor tells us when a checkout session completes.
type Completion struct {
	PaymentIntentID string
	CustomerID      string
	Billing         model.BillingDetails
	CompletedAt     time.Time
}

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error)
	AttachCheckoutSession(ctx context.Context, orderID, sessionID string) error
	MarkCompleted(ctx context.Context, tx *gorm.DB, orderID string, completion *Completion) (bool, error)
	MarkFailed(ctx context.Context, tx *gorm.DB, orderID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Order, error)
	ListCompletedCoachingItems(ctx context.Context, userID string) ([]*BookingRow, error)
}

type BookingRow struct {
	model.OrderItem
	OrderNumber string
	OrderedAt   time.Time
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return r.conn(tx).WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return r.conn(tx).WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.conn(tx).WithContext(ctx).
		Preload("Items").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) AttachCheckoutSession(ctx context.Context, orderID, sessionID string) error {
	result := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"checkout_session_id": sessionID,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// MarkCompleted moves a PENDING order to COMPLETED in one conditional write.
// It reports false when no PENDING order with that id exists.
func (r *orderRepoImpl) MarkCompleted(ctx context.Context, tx *gorm.DB, orderID string, completion *Completion) (bool, error) {
	result := r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":              model.OrderStatusCompleted,
			"payment_intent_id":   nullable(completion.PaymentIntentID),
			"customer_id":         nullable(completion.CustomerID),
			"billing_name":        completion.Billing.Name,
			"billing_email":       completion.Billing.Email,
			"billing_phone":       completion.Billing.Phone,
			"billing_line1":       completion.Billing.Line1,
			"billing_line2":       completion.Billing.Line2,
			"billing_city":        completion.Billing.City,
			"billing_state":       completion.Billing.State,
			"billing_postal_code": completion.Billing.PostalCode,
			"billing_country":     completion.Billing.Country,
			"completed_at":        completion.CompletedAt,
			"updated_at":          time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *orderRepoImpl) MarkFailed(ctx context.Context, tx *gorm.DB, orderID string) (bool, error) {
	result := r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, model.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusFailed,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *orderRepoImpl) ListByUser(ctx context.Context, userID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) ListCompletedCoachingItems(ctx context.Context, userID string) ([]*BookingRow, error) {
	var rows []*BookingRow
	err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.*, orders.order_number AS order_number, orders.created_at AS ordered_at").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.user_id = ? AND orders.status = ?", userID, model.OrderStatusCompleted).
		Where("order_items.coaching_package_id IS NOT NULL").
		Order("orders.created_at DESC").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	return rows, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
