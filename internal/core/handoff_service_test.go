package core

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lubricentro-backend/internal/models"
)

func TestFormatArgentinePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "54 11 1234 5678", want: "5491112345678"},
		{in: "+54 9 11 1234-5678", want: "5491112345678"},
		{in: "15-1234-5678", want: "549112345678"},
		{in: "11 1234-5678", want: "5491112345678"},
		{in: "1234-5678", want: "5491112345678"},
		{in: "261 451 5854", want: "5492614515854"},
		{in: "sin teléfono", want: ""},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatArgentinePhone(tt.in))
		})
	}
}

func TestHandoffMessageFallbacks(t *testing.T) {
	msg := HandoffMessage("", " ")
	assert.Contains(t, msg, "Hola Cliente!")
	assert.Contains(t, msg, "Lubricentro agradece")

	msg = HandoffMessage("Juan", "Lubri Norte")
	assert.True(t, strings.HasPrefix(msg, "Hola Juan!"))
	assert.Contains(t, msg, "Lubri Norte")
}

func newHandoffFixture(t *testing.T, baseURL string) (*fixture, *HandoffService, *models.OilChange) {
	t.Helper()
	f := newFixture(t)
	f.seedShop(t, "s1", "20-12345678-9")
	f.seedEntitlement(t, models.Entitlement{ShopID: "s1", PlanID: "basica", Active: true, TotalChangesAllowed: 5})
	rec, err := f.oilChanges.Create(context.Background(), "s1", owner, validOilChange("L-00042"))
	require.NoError(t, err)
	return f, NewHandoffService(f.shops, f.oilChanges, TextReceiptRenderer{}, baseURL), rec
}

func TestWhatsAppLink(t *testing.T) {
	_, svc, rec := newHandoffFixture(t, "https://wa.me/")

	link, err := svc.WhatsAppLink(context.Background(), "s1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "5491112345678", link.Phone)
	assert.Equal(t, HandoffMessage("Juan", "Lubri s1"), link.Message)

	u, err := url.Parse(link.URL)
	require.NoError(t, err)
	assert.Equal(t, "wa.me", u.Host)
	assert.Equal(t, "/5491112345678", u.Path)
	assert.Equal(t, link.Message, u.Query().Get("text"))
}

func TestWhatsAppLinkDisabled(t *testing.T) {
	_, svc, rec := newHandoffFixture(t, "")
	_, err := svc.WhatsAppLink(context.Background(), "s1", rec.ID)
	assert.ErrorIs(t, err, ErrExternalAppUnavailable)
}

func TestWhatsAppLinkWithoutPhone(t *testing.T) {
	f, svc, _ := newHandoffFixture(t, "https://wa.me")
	req := validOilChange("L-00043")
	req.ContactPhone = ""
	rec, err := f.oilChanges.Create(context.Background(), "s1", owner, req)
	require.NoError(t, err)

	_, err = svc.WhatsAppLink(context.Background(), "s1", rec.ID)
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestWhatsAppLinkUnknownRecord(t *testing.T) {
	_, svc, _ := newHandoffFixture(t, "https://wa.me")
	_, err := svc.WhatsAppLink(context.Background(), "s1", "missing")
	assert.ErrorIs(t, err, ErrOilChangeNotFound)
}

func TestReceipt(t *testing.T) {
	_, svc, rec := newHandoffFixture(t, "https://wa.me")

	data, contentType, err := svc.Receipt(context.Background(), "s1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", contentType)

	text := string(data)
	assert.Contains(t, text, "Lubri s1")
	assert.Contains(t, text, "CUIT: 20-12345678-9")
	assert.Contains(t, text, "L-00042")
	assert.Contains(t, text, "AB123CD")
	assert.Contains(t, text, "85000 km")
	assert.Contains(t, text, "YPF Elaion 10W-40 Semisintético")
	assert.Contains(t, text, "  - aceite\n")
	assert.Contains(t, text, "  - aire: sopleteado\n")
	assert.Contains(t, text, "Atendido por: Marta")
}
