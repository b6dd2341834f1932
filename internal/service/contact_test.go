package service

import (
	"context"
	"strings"
	"testing"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/repository"
	"github.com/fitcoach/fitcoach-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSubmit(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewContactService(repository.NewContactRepository(db), testutil.Logger())
	ctx := context.Background()

	err := svc.Submit(ctx, &dto.ContactRequest{
		Name:    " Ada ",
		Email:   "Ada@Example.com",
		Subject: "Plans",
		Message: "Do you offer remote coaching?",
	})
	require.NoError(t, err)

	var msg model.ContactMessage
	require.NoError(t, db.First(&msg).Error)
	assert.Equal(t, "Ada", msg.Name)
	assert.Equal(t, "ada@example.com", msg.Email)

	invalid := map[string]*dto.ContactRequest{
		"no name":     {Email: "a@b.co", Message: "long enough message"},
		"bad email":   {Name: "Ada", Email: "not-an-email", Message: "long enough message"},
		"named email": {Name: "Ada", Email: "Ada <a@b.co>", Message: "long enough message"},
		"short":       {Name: "Ada", Email: "a@b.co", Message: "hi"},
		"long":        {Name: "Ada", Email: "a@b.co", Message: strings.Repeat("x", maxMessageLength+1)},
	}
	for name, req := range invalid {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, svc.Submit(ctx, req), ErrValidation)
		})
	}
}

func TestNewsletterSubscribeIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewContactService(repository.NewContactRepository(db), testutil.Logger())
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, &dto.NewsletterRequest{Email: "ada@example.com"}))
	require.NoError(t, svc.Subscribe(ctx, &dto.NewsletterRequest{Email: "ADA@example.com", Source: "footer"}))

	var subs []model.NewsletterSubscriber
	require.NoError(t, db.Find(&subs).Error)
	require.Len(t, subs, 1)
	assert.Equal(t, "website", subs[0].Source)

	assert.ErrorIs(t, svc.Subscribe(ctx, &dto.NewsletterRequest{Email: ""}), ErrValidation)
}
