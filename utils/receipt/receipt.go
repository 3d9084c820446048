package receipt

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/joy095/bayelite/models/booking_models"
	"github.com/phpdave11/gofpdf"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// Build renders a one-page PDF receipt for b and returns it with a download filename.
func Build(b *booking_models.Booking, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bay Elite Receipt "+b.BookingID, false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BAY ELITE - RIDE RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Booking   : "+tr(b.BookingID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued    : "+issued.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passenger")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, tr(fmt.Sprintf("%s %s", b.FirstName, b.LastName)))
	pdf.Ln(7)
	pdf.Cell(0, 7, tr(b.Email+"  "+b.Phone))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trip")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, tr(fmt.Sprintf("%s (%s) on %s at %s", b.ServiceType, b.VehicleType, b.PickupDate, hourMinute(b.PickupTime))), "", "", false)
	pdf.MultiCell(0, 6, tr("From: "+b.PickupAddress), "", "", false)
	pdf.MultiCell(0, 6, tr("To: "+deref(b.Destination, "-")), "", "", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Charges")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, "Fare: "+money(b.TotalAmount))
	pdf.Ln(6)
	total := b.TotalAmount
	if b.TipAmount != nil && *b.TipAmount > 0 {
		pdf.Cell(0, 6, "Tip: "+money(*b.TipAmount))
		pdf.Ln(6)
		total += *b.TipAmount
	}
	pdf.Cell(0, 6, tr(fmt.Sprintf("Payment: %s (%s)", b.PaymentMethod, deref(b.PaymentStatus, "pending"))))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+money(total))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Status: "+tr(b.Status), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render receipt: %w", err)
	}

	filename := fmt.Sprintf("RECEIPT_%s.pdf", unsafeFilename.ReplaceAllString(b.BookingID, "_"))
	return buf.Bytes(), filename, nil
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func hourMinute(clock string) string {
	if parts := strings.Split(clock, ":"); len(parts) >= 2 {
		return parts[0] + ":" + parts[1]
	}
	return clock
}

func deref(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
