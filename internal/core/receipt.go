package core

import (
	"bytes"
	"fmt"
	"sort"
	"text/tabwriter"

	"lubricentro-backend/internal/models"
)

// TextReceiptRenderer renders a plain-text service receipt.
type TextReceiptRenderer struct{}

// Render implements ReceiptRenderer.
func (TextReceiptRenderer) Render(shop *models.ShopProfile, rec *models.OilChange) ([]byte, string, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s\n", shop.FantasyName)
	if shop.Address != "" {
		fmt.Fprintf(&buf, "%s\n", shop.Address)
	}
	if shop.Phone != "" {
		fmt.Fprintf(&buf, "Tel: %s\n", shop.Phone)
	}
	fmt.Fprintf(&buf, "CUIT: %s\n\n", shop.CUIT)

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Ticket:\t%s\n", rec.TicketNumber)
	fmt.Fprintf(tw, "Fecha:\t%s\n", rec.ServiceDate.Format("02/01/2006"))
	fmt.Fprintf(tw, "Dominio:\t%s\n", rec.VehicleID)
	if rec.ContactName != "" {
		fmt.Fprintf(tw, "Cliente:\t%s\n", rec.ContactName)
	}
	fmt.Fprintf(tw, "Kilometraje:\t%d km\n", rec.OdometerKm)
	fmt.Fprintf(tw, "Próximo cambio:\t%d km\n", rec.NextOdometerKm)
	if rec.NextServiceDate != nil {
		fmt.Fprintf(tw, "Próxima fecha:\t%s\n", rec.NextServiceDate.Format("02/01/2006"))
	}
	fmt.Fprintf(tw, "Aceite:\t%s %s %s\n", rec.OilLabel(), rec.ViscosityLabel(), rec.OilTypeLabel())
	if err := tw.Flush(); err != nil {
		return nil, "", err
	}

	writeSection(&buf, "Filtros", rec.Filters)
	writeSection(&buf, "Extras", rec.Extras)
	if rec.Notes != "" {
		fmt.Fprintf(&buf, "\nObservaciones:\n%s\n", rec.Notes)
	}
	if rec.CreatedBy != "" {
		fmt.Fprintf(&buf, "\nAtendido por: %s\n", rec.CreatedBy)
	}
	return buf.Bytes(), "text/plain; charset=utf-8", nil
}

func writeSection(buf *bytes.Buffer, title string, items map[string]string) {
	if len(items) == 0 {
		return
	}
	labels := make([]string, 0, len(items))
	for label := range items {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	fmt.Fprintf(buf, "\n%s:\n", title)
	for _, label := range labels {
		if comment := items[label]; comment != "" {
			fmt.Fprintf(buf, "  - %s: %s\n", label, comment)
		} else {
			fmt.Fprintf(buf, "  - %s\n", label)
		}
	}
}
