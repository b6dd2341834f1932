package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fitcoach/fitcoach-api/internal/client"
	"github.com/fitcoach/fitcoach-api/internal/metrics"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/repository"
	"github.com/stripe/stripe-go/v76"
	"gorm.io/gorm"
)

type WebhookService interface {
	// HandleWebhook returns nil for every delivery that should be
	// acknowledged. ErrInvalidSignature and ErrValidation mean reject;
	// any other error is a storage failure the processor should retry.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type webhookServiceImpl struct {
	db               *gorm.DB
	stripeClient     client.StripeClient
	catalogService   CatalogService
	productRepo      repository.ProductRepository
	orderRepo        repository.OrderRepository
	progressRepo     repository.ProgressRepository
	webhookEventRepo repository.WebhookEventRepository
	now              func() time.Time
	log              *slog.Logger
}

func NewWebhookService(
	db *gorm.DB,
	stripeClient client.StripeClient,
	catalogService CatalogService,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	progressRepo repository.ProgressRepository,
	webhookEventRepo repository.WebhookEventRepository,
	log *slog.Logger,
) WebhookService {
	return &webhookServiceImpl{
		db:               db,
		stripeClient:     stripeClient,
		catalogService:   catalogService,
		productRepo:      productRepo,
		orderRepo:        orderRepo,
		progressRepo:     progressRepo,
		webhookEventRepo: webhookEventRepo,
		now:              time.Now,
		log:              log,
	}
}

// outcome labels for metrics
const (
	outcomeApplied   = "applied"
	outcomeDuplicate = "duplicate"
	outcomeIgnored   = "ignored"
	outcomeNotFound  = "order_not_found"
	outcomeRejected  = "rejected"
	outcomeError     = "error"
)

func (s *webhookServiceImpl) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	start := time.Now()
	defer func() {
		metrics.WebhookProcessingTime.Observe(time.Since(start).Seconds())
	}()

	event, err := s.stripeClient.ConstructEvent(payload, signature)
	if err != nil {
		metrics.WebhookEvents.WithLabelValues("unknown", outcomeRejected).Inc()
		s.log.Warn("webhook signature verification failed", slog.Any("error", err))
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	kind := model.ParseWebhookEventKind(string(event.Type))
	log := s.log.With(
		slog.String("event_id", event.ID),
		slog.String("event_type", string(event.Type)))

	var outcome string
	switch kind {
	case model.WebhookEventCheckoutSessionCompleted:
		outcome, err = s.handleCheckoutCompleted(ctx, &event, log)
	case model.WebhookEventPaymentIntentFailed:
		outcome, err = s.handlePaymentFailed(ctx, &event, log)
	case model.WebhookEventUnhandled:
		log.Debug("unhandled webhook event acknowledged")
		outcome = outcomeIgnored
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		// retrying cannot make a missing order appear
		log.Warn("webhook references unknown order", slog.Any("error", err))
		outcome, err = outcomeNotFound, nil
	case errors.Is(err, ErrValidation):
		log.Warn("malformed webhook payload", slog.Any("error", err))
		outcome = outcomeRejected
	default:
		log.Error("webhook processing failed", slog.Any("error", err))
		outcome = outcomeError
	}

	metrics.WebhookEvents.WithLabelValues(kind.String(), outcome).Inc()
	return err
}

func (s *webhookServiceImpl) handleCheckoutCompleted(ctx context.Context, event *stripe.Event, log *slog.Logger) (string, error) {
	var sess stripe.CheckoutSession
	if err := decodeEventObject(event, &sess); err != nil {
		return "", err
	}

	orderID := sess.Metadata[model.MetadataOrderID]
	if orderID == "" {
		log.Warn("checkout session without order id", slog.String("session_id", sess.ID))
		return outcomeIgnored, nil
	}
	log = log.With(slog.String("order_id", orderID))

	completion := completionFromSession(&sess, s.now())

	outcome := outcomeApplied
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recorded, err := s.webhookEventRepo.Record(ctx, tx, event.ID, string(event.Type))
		if err != nil {
			return fmt.Errorf("record webhook event: %w", err)
		}
		if !recorded {
			outcome = outcomeDuplicate
			return nil
		}

		completed, err := s.orderRepo.MarkCompleted(ctx, tx, orderID, completion)
		if err != nil {
			return fmt.Errorf("mark order completed: %w", err)
		}

		order, err := s.orderRepo.FindByID(ctx, tx, orderID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("order %q not found", orderID)
		}
		if err != nil {
			return fmt.Errorf("find order: %w", err)
		}

		if !completed {
			if !order.Status.Terminal() {
				return fmt.Errorf("order %s left %s by completion update", orderID, order.Status)
			}
			// already terminal: status stays, no second fulfillment
			outcome = outcomeDuplicate
			log.Info("order already finalized", slog.String("status", string(order.Status)))
			return nil
		}

		return s.fulfill(ctx, tx, order)
	})
	if err != nil {
		return "", err
	}

	if outcome == outcomeApplied {
		s.catalogService.Invalidate(ctx)
		log.Info("order completed")
	} else {
		log.Info("completion already applied")
	}
	return outcome, nil
}

// fulfill grants program access and bumps enrollment counters.
func (s *webhookServiceImpl) fulfill(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	for _, item := range order.Items {
		switch item.ProductType() {
		case model.ProductTypeProgram:
			_, err := s.progressRepo.Grant(ctx, tx, &model.ProgramProgress{
				UserID:      order.UserID,
				ProgramID:   *item.ProgramID,
				CurrentWeek: 1,
				CurrentDay:  1,
				StartedAt:   s.now(),
			})
			if err != nil {
				return fmt.Errorf("grant program %s: %w", *item.ProgramID, err)
			}
			if err := s.productRepo.IncrementProgramEnrollment(ctx, tx, *item.ProgramID); err != nil {
				return fmt.Errorf("increment program enrollment: %w", err)
			}
		case model.ProductTypeCoaching:
			if err := s.productRepo.IncrementCoachingEnrollment(ctx, tx, *item.CoachingPackageID); err != nil {
				return fmt.Errorf("increment coaching enrollment: %w", err)
			}
		}
	}
	return nil
}

func (s *webhookServiceImpl) handlePaymentFailed(ctx context.Context, event *stripe.Event, log *slog.Logger) (string, error) {
	var intent stripe.PaymentIntent
	if err := decodeEventObject(event, &intent); err != nil {
		return "", err
	}

	orderID := intent.Metadata[model.MetadataOrderID]
	if orderID == "" {
		log.Warn("payment intent without order id", slog.String("payment_intent_id", intent.ID))
		return outcomeIgnored, nil
	}
	log = log.With(slog.String("order_id", orderID))

	outcome := outcomeApplied
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recorded, err := s.webhookEventRepo.Record(ctx, tx, event.ID, string(event.Type))
		if err != nil {
			return fmt.Errorf("record webhook event: %w", err)
		}
		if !recorded {
			outcome = outcomeDuplicate
			return nil
		}

		failed, err := s.orderRepo.MarkFailed(ctx, tx, orderID)
		if err != nil {
			return fmt.Errorf("mark order failed: %w", err)
		}
		if failed {
			return nil
		}

		if _, err := s.orderRepo.FindByID(ctx, tx, orderID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("order %q not found", orderID)
			}
			return fmt.Errorf("find order: %w", err)
		}
		outcome = outcomeDuplicate
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info("payment failure reconciled", slog.String("outcome", outcome))
	return outcome, nil
}

func decodeEventObject(event *stripe.Event, dest any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return validationError("webhook event %s has no data object", event.ID)
	}
	if err := json.Unmarshal(event.Data.Raw, dest); err != nil {
		return validationError("decode webhook event %s: %v", event.ID, err)
	}
	return nil
}

func completionFromSession(sess *stripe.CheckoutSession, now time.Time) *repository.Completion {
	c := &repository.Completion{CompletedAt: now}
	if sess.PaymentIntent != nil {
		c.PaymentIntentID = sess.PaymentIntent.ID
	}
	if sess.Customer != nil {
		c.CustomerID = sess.Customer.ID
	}
	if d := sess.CustomerDetails; d != nil {
		c.Billing.Name = d.Name
		c.Billing.Email = d.Email
		c.Billing.Phone = d.Phone
		if a := d.Address; a != nil {
			c.Billing.Line1 = a.Line1
			c.Billing.Line2 = a.Line2
			c.Billing.City = a.City
			c.Billing.State = a.State
			c.Billing.PostalCode = a.PostalCode
			c.Billing.Country = a.Country
		}
	}
	return c
}
