package reports

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/velvetsocial/community-backend/internal/rsvp"
)

type Service interface {
	// GuestListXLSX renders the RSVP list of one event as a spreadsheet.
	// Authorization is delegated to the ledger (host or admin only).
	GuestListXLSX(eventSlug string, reviewer rsvp.Reviewer) ([]byte, string, error)

	// CheckinPassPDF renders the caller's own check-in pass with an
	// embedded QR token
	CheckinPassPDF(rsvpID uint, userID uint) ([]byte, string, error)
}

type service struct {
	rsvps  rsvp.Service
	events rsvp.EventSource
}

func NewService(rsvps rsvp.Service, events rsvp.EventSource) Service {
	return &service{rsvps: rsvps, events: events}
}

func (s *service) GuestListXLSX(eventSlug string, reviewer rsvp.Reviewer) ([]byte, string, error) {
	recs, err := s.rsvps.ListForEvent(eventSlug, reviewer)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Guest List"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Name", "Email", "Category", "Status", "Badges", "Checked In", "Submitted"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, rec := range recs {
		checkedIn := ""
		if rec.ConsumedAt != nil {
			checkedIn = rec.ConsumedAt.Format("2006-01-02 15:04")
		}
		values := []interface{}{
			rec.DisplayName,
			rec.UserEmail,
			rec.Category,
			rec.Status,
			strings.Join(rec.Badges(), ", "),
			checkedIn,
			rec.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("guests-%s-%s.xlsx", eventSlug, time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

func (s *service) CheckinPassPDF(rsvpID uint, userID uint) ([]byte, string, error) {
	rec, err := s.rsvps.GetOwned(rsvpID, userID)
	if err != nil {
		return nil, "", err
	}

	ev, err := s.events.GetBySlug(rec.EventSlug)
	if err != nil {
		return nil, "", err
	}

	qrPNG, err := renderTokenQR(rec.CheckinToken, rec.EventSlug)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, ev.Title)
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", ev.Date))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Guest: %s (%s)", rec.DisplayName, rec.Category))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", rec.Status))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("checkin-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("checkin-qr", 55, pdf.GetY(), 100, 100, false, opts, 0, "")

	pdf.SetY(pdf.GetY() + 105)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 6, "Present this pass at the door. The code is valid for a single entry.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("pass-%s.pdf", rec.EventSlug)
	return buf.Bytes(), filename, nil
}

func renderTokenQR(token, eventSlug string) ([]byte, error) {
	payload, _ := json.Marshal(map[string]string{"token": token, "eventSlug": eventSlug})
	code, err := qr.Encode(string(payload), qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, 300, 300)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
