package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"github.com/anjiri1684/spacehub/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PDFRenderer turns an HTML document into a PDF.
type PDFRenderer func(ctx context.Context, html string) ([]byte, error)

type ReceiptService struct {
	db     *gorm.DB
	render PDFRenderer
}

func NewReceiptService(db *gorm.DB, render PDFRenderer) *ReceiptService {
	if render == nil {
		render = ChromePDF
	}
	return &ReceiptService{db: db, render: render}
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
body { font-family: Helvetica, Arial, sans-serif; color: #1f2933; margin: 40px; }
h1 { color: #0b7285; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 24px; }
td { padding: 8px 0; border-bottom: 1px solid #e4e7eb; }
td.label { color: #616e7c; width: 40%; }
.total { font-size: 20px; font-weight: bold; }
</style>
</head>
<body>
<h1>SpaceHub</h1>
<p>Booking receipt</p>
<table>
<tr><td class="label">Reference</td><td>{{.Reference}}</td></tr>
<tr><td class="label">Guest</td><td>{{.Guest}}</td></tr>
<tr><td class="label">Space</td><td>{{.Space}}</td></tr>
<tr><td class="label">Address</td><td>{{.Address}}</td></tr>
<tr><td class="label">Starts</td><td>{{.Starts}}</td></tr>
<tr><td class="label">Ends</td><td>{{.Ends}}</td></tr>
<tr><td class="label">Duration</td><td>{{.Duration}}</td></tr>
<tr><td class="label">Status</td><td>{{.Status}}</td></tr>
<tr><td class="label">Paid on</td><td>{{.PaidOn}}</td></tr>
<tr><td class="label">Amount</td><td class="total">{{.Currency}} {{printf "%.2f" .Amount}}</td></tr>
</table>
</body>
</html>`))

type receiptData struct {
	Reference string
	Guest     string
	Space     string
	Address   string
	Starts    string
	Ends      string
	Duration  string
	Status    string
	PaidOn    string
	Currency  string
	Amount    float64
}

// BookingReceipt renders the PDF receipt of a paid booking owned by the user.
func (s *ReceiptService) BookingReceipt(ctx context.Context, userID, bookingID uuid.UUID) ([]byte, *models.Booking, error) {
	var booking models.Booking
	err := s.db.WithContext(ctx).Preload("User").Preload("Space").
		First(&booking, "id = ? AND user_id = ?", bookingID, userID).Error
	if err != nil {
		return nil, nil, lookup(err, ErrBookingNotFound)
	}
	switch booking.Status {
	case models.BookingUpcoming, models.BookingActive, models.BookingExpired:
	default:
		return nil, nil, ErrReceiptUnavailable
	}

	html, err := ReceiptHTML(&booking)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.render(ctx, html)
	if err != nil {
		log.Printf("🔥 Failed to generate receipt PDF for booking %s: %v", booking.ID, err)
		return nil, nil, fmt.Errorf("render receipt: %w", err)
	}
	return pdf, &booking, nil
}

func ReceiptHTML(b *models.Booking) (string, error) {
	const layout = "January 2, 2006 15:04"
	data := receiptData{
		Reference: b.Reference,
		Guest:     b.User.FullName,
		Space:     b.Space.Name,
		Address:   b.Space.Address,
		Starts:    b.StartsAt().Format(layout),
		Status:    string(b.Status),
		Currency:  b.Currency,
		Amount:    b.Amount,
	}
	if data.Guest == "" {
		data.Guest = b.UserName
	}
	if data.Space == "" {
		data.Space = b.SpaceName
	}
	if b.EndDate != nil {
		data.Ends = b.EndDate.Format(layout)
	}
	if b.PaymentDate != nil {
		data.PaidOn = b.PaymentDate.Format("January 2, 2006")
	}
	switch {
	case b.DurationPerHour != nil:
		data.Duration = fmt.Sprintf("%d hour(s)", *b.DurationPerHour)
	case b.DurationPerDay != nil:
		data.Duration = fmt.Sprintf("%d day(s)", *b.DurationPerDay)
	}

	var rendered bytes.Buffer
	if err := receiptTemplate.Execute(&rendered, data); err != nil {
		return "", err
	}
	return rendered.String(), nil
}

// ChromePDF prints HTML to PDF with a headless Chrome.
func ChromePDF(ctx context.Context, htmlContent string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	ctx, cancel = chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}
