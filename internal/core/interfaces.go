package core

import (
	"context"
	"time"

	"lubricentro-backend/internal/models"
)

// Clock returns the current instant. Services take one so tests can pin "now".
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

type serviceOptions struct {
	now Clock
}

// Option customises a service at construction time.
type Option func(*serviceOptions)

// WithClock replaces the wall clock used by a service.
func WithClock(c Clock) Option {
	return func(o *serviceOptions) {
		if c != nil {
			o.now = c
		}
	}
}

func applyOptions(opts []Option) serviceOptions {
	o := serviceOptions{now: systemClock}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Actor identifies the caller on whose behalf an operation runs.
type Actor struct {
	UserID      string
	DisplayName string
	IPAddress   string
	UserAgent   string
}

// Mailer sends plain-text mail. pkg/mailer provides the SMTP implementation.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// ReceiptRenderer turns a stored oil change into a customer-facing document.
// It is only handed records that already passed validation and persistence.
type ReceiptRenderer interface {
	Render(shop *models.ShopProfile, rec *models.OilChange) (data []byte, contentType string, err error)
}
