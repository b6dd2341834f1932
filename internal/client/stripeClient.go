package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fitcoach/fitcoach-api/internal/config"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/stripe/stripe-go/v76"
	stripeclient "github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeClient interface {
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSessionResponse, error)
	// ConstructEvent verifies the Stripe-Signature header and decodes the event.
	ConstructEvent(payload []byte, signature string) (stripe.Event, error)
}

type CheckoutLineItem struct {
	Name       string
	Currency   string
	UnitAmount int64 // minor units
	Quantity   int64
}

type CheckoutSessionRequest struct {
	LineItems     []CheckoutLineItem
	CustomerEmail string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

type CheckoutSessionResponse struct {
	SessionID string
	URL       string
}

type stripeClientImpl struct {
	api           *stripeclient.API
	webhookSecret string
}

func NewStripeClient(cfg *config.Stripe) (StripeClient, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is not configured")
	}
	if cfg.WebhookSecret == "" {
		return nil, errors.New("stripe webhook secret is not configured")
	}

	api := &stripeclient.API{}
	api.Init(cfg.SecretKey, nil)

	return &stripeClientImpl{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
	}, nil
}

func (c *stripeClientImpl) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSessionResponse, error) {
	params := checkoutSessionParams(req)
	params.Context = ctx

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create checkout session: %w", err)
	}

	return &CheckoutSessionResponse{
		SessionID: sess.ID,
		URL:       sess.URL,
	}, nil
}

func (c *stripeClientImpl) ConstructEvent(payload []byte, signature string) (stripe.Event, error) {
	return VerifyWebhookEvent(payload, signature, c.webhookSecret)
}

// VerifyWebhookEvent checks the t=...,v1=... signature against secret within
// the default 5 minute tolerance.
func VerifyWebhookEvent(payload []byte, signature, secret string) (stripe.Event, error) {
	return webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
}

func checkoutSessionParams(req *CheckoutSessionRequest) *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: req.Metadata,
		},
	}
	// Stripe rejects an empty customer_email; omitting it lets checkout collect one.
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	if orderID, ok := req.Metadata[model.MetadataOrderID]; ok {
		params.ClientReferenceID = stripe.String(orderID)
	}

	for _, item := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(strings.ToLower(item.Currency)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	return params
}
