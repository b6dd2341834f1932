package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/client"
	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/repository"
	"github.com/fitcoach/fitcoach-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
)

type fakeStripeClient struct {
	requests  []*client.CheckoutSessionRequest
	createErr error
}

func (f *fakeStripeClient) CreateCheckoutSession(_ context.Context, req *client.CheckoutSessionRequest) (*client.CheckoutSessionResponse, error) {
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	id := fmt.Sprintf("cs_test_%d", len(f.requests))
	return &client.CheckoutSessionResponse{
		SessionID: id,
		URL:       "https://checkout.stripe.test/pay/" + id,
	}, nil
}

func (f *fakeStripeClient) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	return client.VerifyWebhookEvent(payload, signature, testutil.WebhookSecret)
}

type memoryCache struct {
	data map[string][]byte
	gets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest any) error {
	c.gets++
	b, ok := c.data[key]
	if !ok {
		return errors.New("cache miss")
	}
	return json.Unmarshal(b, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = b
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fixture struct {
	db           *gorm.DB
	stripe       *fakeStripeClient
	cache        *memoryCache
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	progressRepo repository.ProgressRepository
	catalog      CatalogService
	orders       OrderService
	checkout     CheckoutService
	webhooks     WebhookService
	dashboard    DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.NewDB(t)
	testutil.SeedCatalog(t, db)
	log := testutil.Logger()

	f := &fixture{
		db:           db,
		stripe:       &fakeStripeClient{},
		cache:        newMemoryCache(),
		productRepo:  repository.NewProductRepository(db),
		orderRepo:    repository.NewOrderRepository(db),
		progressRepo: repository.NewProgressRepository(db),
	}
	f.catalog = NewCatalogService(f.productRepo, f.cache, time.Minute, log)
	f.orders = NewOrderService(db, f.catalog, f.orderRepo, log)
	f.checkout = NewCheckoutService(f.stripe, f.orders, f.orderRepo,
		"https://fitcoach.test/checkout/success", "https://fitcoach.test/checkout/cancel", log)
	f.webhooks = NewWebhookService(db, f.stripe, f.catalog, f.productRepo, f.orderRepo, f.progressRepo,
		repository.NewWebhookEventRepository(db), log)
	f.dashboard = NewDashboardService(f.orderRepo, f.progressRepo)
	return f
}

func (f *fixture) count(t *testing.T, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func (f *fixture) order(t *testing.T, id string) *model.Order {
	t.Helper()
	order, err := f.orderRepo.FindByID(context.Background(), nil, id)
	require.NoError(t, err)
	return order
}

// placeOrder runs a full checkout and returns the persisted order.
func (f *fixture) placeOrder(t *testing.T, userID string, items ...*dto.CartItem) *model.Order {
	t.Helper()
	_, err := f.checkout.Checkout(context.Background(), userID, userID+"@example.com", items)
	require.NoError(t, err)
	req := f.stripe.requests[len(f.stripe.requests)-1]
	return f.order(t, req.Metadata[model.MetadataOrderID])
}

func (f *fixture) deliver(t *testing.T, payload []byte) error {
	t.Helper()
	sig := testutil.SignPayload(testutil.WebhookSecret, payload, time.Now())
	return f.webhooks.HandleWebhook(context.Background(), payload, sig)
}

func eventPayload(t *testing.T, eventID, eventType string, object map[string]any) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]any{
		"id":     eventID,
		"object": "event",
		"type":   eventType,
		"data":   map[string]any{"object": object},
	})
	require.NoError(t, err)
	return b
}

func completedEvent(t *testing.T, eventID string, metadata map[string]string) []byte {
	return eventPayload(t, eventID, "checkout.session.completed", map[string]any{
		"id":             "cs_test_1",
		"object":         "checkout.session",
		"payment_intent": "pi_123",
		"customer":       "cus_123",
		"customer_details": map[string]any{
			"email": "ada@example.com",
			"name":  "Ada Lovelace",
			"phone": "+442071234567",
			"address": map[string]any{
				"line1":       "12 St James's Square",
				"city":        "London",
				"postal_code": "SW1Y 4JH",
				"country":     "GB",
			},
		},
		"metadata": metadata,
	})
}

func paymentFailedEvent(t *testing.T, eventID string, metadata map[string]string) []byte {
	return eventPayload(t, eventID, "payment_intent.payment_failed", map[string]any{
		"id":       "pi_123",
		"object":   "payment_intent",
		"metadata": metadata,
	})
}

func cart(items ...*dto.CartItem) []*dto.CartItem { return items }

func program(id string, qty int) *dto.CartItem {
	return &dto.CartItem{ID: id, Type: "program", Quantity: qty}
}

func coaching(id string, qty int) *dto.CartItem {
	return &dto.CartItem{ID: id, Type: "coaching", Quantity: qty}
}
