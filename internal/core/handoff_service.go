package core

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"lubricentro-backend/internal/models"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// FormatArgentinePhone turns a locally written Argentine phone number into the
// international mobile form expected by WhatsApp (54 9 <area> <number>).
func FormatArgentinePhone(raw string) string {
	d := nonDigits.ReplaceAllString(raw, "")
	switch {
	case d == "":
		return ""
	case strings.HasPrefix(d, "54"):
		if len(d) >= 3 && d[2] == '9' {
			return d
		}
		return "549" + d[2:]
	case strings.HasPrefix(d, "15"):
		// Mobile prefix without area code: assume Buenos Aires.
		if len(d) <= 10 {
			return "5491" + d[2:]
		}
		return "549" + d[2:]
	case len(d) == 10:
		return "549" + d
	case len(d) <= 8:
		return "54911" + d
	default:
		return "549" + d
	}
}

// HandoffMessage is the greeting sent with a receipt.
func HandoffMessage(contactName, shopName string) string {
	if strings.TrimSpace(contactName) == "" {
		contactName = "Cliente"
	}
	if strings.TrimSpace(shopName) == "" {
		shopName = "Lubricentro"
	}
	return fmt.Sprintf("Hola %s! Te envío el detalle de tu cambio de aceite. %s agradece tu confianza.", contactName, shopName)
}

// WhatsAppLink is a ready-to-open chat link for a customer.
type WhatsAppLink struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// HandoffService prepares oil-change records for the customer: chat links and rendered receipts.
type HandoffService struct {
	shops      *ShopService
	oilChanges *OilChangeService
	renderer   ReceiptRenderer
	baseURL    string
}

// NewHandoffService creates a new HandoffService. An empty baseURL disables chat links.
func NewHandoffService(shops *ShopService, oilChanges *OilChangeService, renderer ReceiptRenderer, baseURL string) *HandoffService {
	return &HandoffService{
		shops:      shops,
		oilChanges: oilChanges,
		renderer:   renderer,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (s *HandoffService) load(ctx context.Context, shopID, oilChangeID string) (*models.ShopProfile, *models.OilChange, error) {
	rec, err := s.oilChanges.Get(ctx, shopID, oilChangeID)
	if err != nil {
		return nil, nil, err
	}
	shop, err := s.shops.Get(ctx, shopID)
	if err != nil {
		return nil, nil, err
	}
	return shop, rec, nil
}

// WhatsAppLink builds the chat link for the record's contact.
func (s *HandoffService) WhatsAppLink(ctx context.Context, shopID, oilChangeID string) (*WhatsAppLink, error) {
	if s.baseURL == "" {
		return nil, ErrExternalAppUnavailable
	}
	shop, rec, err := s.load(ctx, shopID, oilChangeID)
	if err != nil {
		return nil, err
	}
	phone := FormatArgentinePhone(rec.ContactPhone)
	if phone == "" {
		return nil, invalidField("contactPhone", "required")
	}
	msg := HandoffMessage(rec.ContactName, shop.FantasyName)
	return &WhatsAppLink{
		Phone:   phone,
		Message: msg,
		URL:     fmt.Sprintf("%s/%s?text=%s", s.baseURL, phone, url.QueryEscape(msg)),
	}, nil
}

// Receipt renders the record for the customer.
func (s *HandoffService) Receipt(ctx context.Context, shopID, oilChangeID string) ([]byte, string, error) {
	shop, rec, err := s.load(ctx, shopID, oilChangeID)
	if err != nil {
		return nil, "", err
	}
	if s.renderer == nil {
		return nil, "", ErrExternalAppUnavailable
	}
	data, contentType, err := s.renderer.Render(shop, rec)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render receipt for oil change '%s': %w", oilChangeID, err)
	}
	return data, contentType, nil
}
