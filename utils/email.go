package utils

import (
	"bytes"
	"html/template"
	"io"
	"log"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// OrderConfirmationData feeds the confirmation email template
type OrderConfirmationData struct {
	OrderNumber   string
	MovieTitle    string
	ScreeningTime string
	Auditorium    string
	Seats         string
	CustomerName  string
	TotalPrice    float64
}

const orderConfirmationTemplate = `
<html>
  <body style="font-family:Arial,Helvetica,sans-serif;background:#f3f4f6;margin:0;padding:24px;">
    <div style="max-width:640px;margin:0 auto;background:#ffffff;border:1px solid #e5e7eb;border-radius:12px;padding:28px;">
      <h1 style="margin:0;color:#111827;">Order confirmation</h1>
      <p style="color:#6b7280;">Order number: <strong style="color:#111827;">{{.OrderNumber}}</strong></p>
      <h2 style="color:#111827;">{{.MovieTitle}}</h2>
      <p style="color:#374151;">{{.ScreeningTime}} &middot; {{.Auditorium}}</p>
      <p style="color:#374151;">Seats: {{.Seats}}</p>
      <p style="color:#374151;">Name: {{.CustomerName}}</p>
      <p style="font-size:20px;font-weight:700;color:#dc2626;">Total paid: {{printf "%.2f" .TotalPrice}}</p>
      <p style="color:#374151;">Show the QR code below at the entrance.</p>
      <img src="cid:qr_order_code" alt="QR" width="200" height="200"/>
    </div>
  </body>
</html>`

// SendOrderConfirmationEmail sends the confirmation with an inline QR code.
// Runs async so the purchase response is never delayed by SMTP.
func SendOrderConfirmationEmail(to string, data OrderConfirmationData) {
	go func() {
		tmpl, err := template.New("order_confirmation").Parse(orderConfirmationTemplate)
		if err != nil {
			log.Printf("confirmation template parse error: %v", err)
			return
		}

		var body bytes.Buffer
		if err := tmpl.Execute(&body, data); err != nil {
			log.Printf("confirmation template render error: %v", err)
			return
		}

		m := gomail.NewMessage()
		m.SetHeader("From", os.Getenv("SMTP_FROM"))
		m.SetHeader("To", to)
		m.SetHeader("Subject", "Tickets - order "+data.OrderNumber)
		m.SetBody("text/html", body.String())

		qrBytes, err := GenerateQRCode(data.OrderNumber, 400)
		if err != nil {
			log.Printf("QR generation error: %v", err)
		} else {
			m.Embed("qr_order.png",
				gomail.SetCopyFunc(func(w io.Writer) error {
					_, err := w.Write(qrBytes)
					return err
				}),
				gomail.SetHeader(map[string][]string{
					"Content-Type":        {"image/png"},
					"Content-ID":          {"<qr_order_code>"},
					"Content-Disposition": {"inline"},
				}),
			)
		}

		port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
		if port == 0 {
			port = 587
		}
		d := gomail.NewDialer(os.Getenv("SMTP_HOST"), port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
		if err := d.DialAndSend(m); err != nil {
			log.Printf("confirmation email send error: %v", err)
		}
	}()
}
