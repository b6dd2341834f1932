package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductType string

const (
	ProductTypeProgram  ProductType = "program"
	ProductTypeCoaching ProductType = "coaching"
)

func (t ProductType) Valid() bool {
	return t == ProductTypeProgram || t == ProductTypeCoaching
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusFailed    OrderStatus = "FAILED"
)

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusFailed
}

type Program struct {
	ID              string          `gorm:"primaryKey;size:64;not null" json:"id"` // slug
	Name            string          `gorm:"size:128;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency        string          `gorm:"size:8;not null" json:"currency"`
	DurationWeeks   int             `gorm:"not null;default:0" json:"durationWeeks"`
	EnrollmentCount int             `gorm:"not null;default:0" json:"enrollmentCount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type CoachingPackage struct {
	ID              string          `gorm:"primaryKey;size:64;not null" json:"id"`
	Name            string          `gorm:"size:128;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency        string          `gorm:"size:8;not null" json:"currency"`
	Sessions        int             `gorm:"not null;default:0" json:"sessions"`
	EnrollmentCount int             `gorm:"not null;default:0" json:"enrollmentCount"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// BillingDetails is filled from the processor's completion payload.
type BillingDetails struct {
	Name       string `gorm:"size:128" json:"name,omitempty"`
	Email      string `gorm:"size:255" json:"email,omitempty"`
	Phone      string `gorm:"size:32" json:"phone,omitempty"`
	Line1      string `gorm:"size:255" json:"line1,omitempty"`
	Line2      string `gorm:"size:255" json:"line2,omitempty"`
	City       string `gorm:"size:128" json:"city,omitempty"`
	State      string `gorm:"size:128" json:"state,omitempty"`
	PostalCode string `gorm:"size:32" json:"postalCode,omitempty"`
	Country    string `gorm:"size:8" json:"country,omitempty"`
}

type Order struct {
	ID                string          `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID            string          `gorm:"size:64;index;not null" json:"userId"`
	OrderNumber       string          `gorm:"size:32;uniqueIndex;not null" json:"orderNumber"`
	Status            OrderStatus     `gorm:"size:16;index;not null" json:"status"` // PENDING, COMPLETED, FAILED
	Subtotal          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Currency          string          `gorm:"size:8;not null" json:"currency"`
	CheckoutSessionID *string         `gorm:"size:255;index" json:"checkoutSessionId,omitempty"`
	PaymentIntentID   *string         `gorm:"size:255" json:"paymentIntentId,omitempty"`
	CustomerID        *string         `gorm:"size:255" json:"customerId,omitempty"`
	Billing           BillingDetails  `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`
	CompletedAt       *time.Time      `json:"completedAt,omitempty"`
	Items             []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// OrderItem keeps name and price as they were at purchase time.
// Exactly one of ProgramID and CoachingPackageID is set.
type OrderItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	OrderID           string          `gorm:"size:36;index;not null" json:"orderId"`
	ProgramID         *string         `gorm:"size:64;index" json:"programId,omitempty"`
	CoachingPackageID *string         `gorm:"size:64;index" json:"coachingPackageId,omitempty"`
	Name              string          `gorm:"size:128;not null" json:"name"`
	Price             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Currency          string          `gorm:"size:8;not null" json:"currency"`
	Quantity          int             `gorm:"not null" json:"quantity"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func (i *OrderItem) ProductType() ProductType {
	if i.ProgramID != nil {
		return ProductTypeProgram
	}
	return ProductTypeCoaching
}

type ProgramProgress struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      string     `gorm:"size:64;not null;uniqueIndex:idx_progress_user_program,priority:1" json:"userId"`
	ProgramID   string     `gorm:"size:64;not null;uniqueIndex:idx_progress_user_program,priority:2" json:"programId"`
	Program     *Program   `gorm:"foreignKey:ProgramID" json:"program,omitempty"`
	CurrentWeek int        `gorm:"not null;default:1" json:"currentWeek"`
	CurrentDay  int        `gorm:"not null;default:1" json:"currentDay"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// WebhookEvent records processor event ids that were already applied.
type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Subject   string    `gorm:"size:255" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type NewsletterSubscriber struct {
	Email     string    `gorm:"primaryKey;size:255;not null" json:"email"`
	Source    string    `gorm:"size:64" json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&Program{},
		&CoachingPackage{},
		&Order{},
		&OrderItem{},
		&ProgramProgress{},
		&WebhookEvent{},
		&ContactMessage{},
		&NewsletterSubscriber{},
	}
}
