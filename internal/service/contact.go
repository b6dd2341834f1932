package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/fitcoach/fitcoach-api/internal/dto"
	"github.com/fitcoach/fitcoach-api/internal/model"
	"github.com/fitcoach/fitcoach-api/internal/repository"
)

const (
	minMessageLength = 10
	maxMessageLength = 5000
)

type ContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) error
	Subscribe(ctx context.Context, req *dto.NewsletterRequest) error
}

type contactServiceImpl struct {
	contactRepo repository.ContactRepository
	log         *slog.Logger
}

func NewContactService(contactRepo repository.ContactRepository, log *slog.Logger) ContactService {
	return &contactServiceImpl{
		contactRepo: contactRepo,
		log:         log,
	}
}

func (s *contactServiceImpl) Submit(ctx context.Context, req *dto.ContactRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return validationError("name is required")
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	message := strings.TrimSpace(req.Message)
	if n := utf8.RuneCountInString(message); n < minMessageLength || n > maxMessageLength {
		return validationError("message must be between %d and %d characters", minMessageLength, maxMessageLength)
	}

	err = s.contactRepo.CreateMessage(ctx, &model.ContactMessage{
		Name:    name,
		Email:   email,
		Subject: strings.TrimSpace(req.Subject),
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("store contact message: %w", err)
	}

	s.log.Info("contact message received", slog.String("email", email))
	return nil
}

// Subscribe succeeds for addresses that are already subscribed.
func (s *contactServiceImpl) Subscribe(ctx context.Context, req *dto.NewsletterRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = "website"
	}

	created, err := s.contactRepo.Subscribe(ctx, &model.NewsletterSubscriber{
		Email:  email,
		Source: source,
	})
	if err != nil {
		return fmt.Errorf("store newsletter subscriber: %w", err)
	}

	s.log.Info("newsletter signup", slog.String("email", email), slog.Bool("new", created))
	return nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", validationError("a valid email is required")
	}
	return strings.ToLower(addr.Address), nil
}
