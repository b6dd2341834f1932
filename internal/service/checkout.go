package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fitcoach/fitcoach-api/internal/client"
	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/metrics"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/money"
	"github.com/fitcoach/fitcoach-api/internal/repository"
)

type CheckoutService interface {
	Checkout(ctx context.Context, userID, email string, items []*dto.CartItem) (*dto.CheckoutResponse, error)
	// InitiateSession asks the processor for a hosted checkout page. On
	// failure the order stays PENDING without a session id.
	InitiateSession(ctx context.Context, order *model.Order, email string) (*dto.CheckoutResponse, error)
}

type checkoutServiceImpl struct {
	stripeClient client.StripeClient
	orderService OrderService
	orderRepo    repository.OrderRepository
	successURL   string
	cancelURL    string
	log          *slog.Logger
}

func NewCheckoutService(
	stripeClient client.StripeClient,
	orderService OrderService,
	orderRepo repository.OrderRepository,
	successURL, cancelURL string,
	log *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		stripeClient: stripeClient,
		orderService: orderService,
		orderRepo:    orderRepo,
		successURL:   successURL,
		cancelURL:    cancelURL,
		log:          log,
	}
}

func (s *checkoutServiceImpl) Checkout(ctx context.Context, userID, email string, items []*dto.CartItem) (*dto.CheckoutResponse, error) {
	order, err := s.orderService.CreatePendingOrder(ctx, userID, items)
	if err != nil {
		return nil, err
	}

	return s.InitiateSession(ctx, order, email)
}

func (s *checkoutServiceImpl) InitiateSession(ctx context.Context, order *model.Order, email string) (*dto.CheckoutResponse, error) {
	lineItems := make([]client.CheckoutLineItem, len(order.Items))
	for i, item := range order.Items {
		lineItems[i] = client.CheckoutLineItem{
			Name:       item.Name,
			Currency:   item.Currency,
			UnitAmount: money.ToMinorUnits(item.Price, item.Currency),
			Quantity:   int64(item.Quantity),
		}
	}

	resp, err := s.stripeClient.CreateCheckoutSession(ctx, &client.CheckoutSessionRequest{
		LineItems:     lineItems,
		CustomerEmail: email,
		SuccessURL:    s.successURL,
		CancelURL:     s.cancelURL,
		Metadata: map[string]string{
			model.MetadataOrderID: order.ID,
			model.MetadataUserID:  order.UserID,
		},
	})
	if err != nil {
		metrics.CheckoutSessions.WithLabelValues("processor_error").Inc()
		s.log.Error("create checkout session",
			slog.String("order_id", order.ID),
			slog.Any("error", err))
		return nil, &DomainError{
			kind: ErrExternalService,
			msg:  "failed to create checkout session, please try again",
		}
	}

	if err := s.orderRepo.AttachCheckoutSession(ctx, order.ID, resp.SessionID); err != nil {
		metrics.CheckoutSessions.WithLabelValues("storage_error").Inc()
		return nil, fmt.Errorf("attach checkout session to order %s: %w", order.ID, err)
	}
	order.CheckoutSessionID = &resp.SessionID

	metrics.CheckoutSessions.WithLabelValues("created").Inc()
	s.log.Info("checkout session created",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.String("session_id", resp.SessionID))

	return &dto.CheckoutResponse{
		SessionID: resp.SessionID,
		URL:       resp.URL,
	}, nil
}
