// Package email renders transactional email bodies.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/arvelin/storefront/internal/domain"
)

// ReceiptSubject is the subject line for order receipts.
const ReceiptSubject = "Thanks for your order! This is your receipt."

var receiptTmpl = template.Must(template.New("receipt").
	Funcs(template.FuncMap{"formatPrice": formatPrice}).
	Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif; color: #111;">
    <h1>Thanks for your order!</h1>
    <p>Your receipt for order <strong>{{.OrderID}}</strong>, placed on {{.OrderDate}}.</p>
    <p>Sent to {{.Email}}.</p>
    <table style="width: 100%; border-collapse: collapse;">
      <thead>
        <tr>
          <th align="left">Product</th>
          <th align="right">Price</th>
        </tr>
      </thead>
      <tbody>
        {{- range .Products}}
        <tr>
          <td>{{.Name}}</td>
          <td align="right">{{formatPrice .Price .Currency}}</td>
        </tr>
        {{- end}}
      </tbody>
    </table>
    <p>If anything looks wrong, reply to this email and we will sort it out.</p>
  </body>
</html>
`))

type receiptData struct {
	OrderID   string
	OrderDate string
	Email     string
	Products  []domain.Product
}

// RenderReceipt renders the HTML receipt for a paid order.
func RenderReceipt(order *domain.Order, user *domain.User) (string, error) {
	data := receiptData{
		OrderID:   order.ID,
		OrderDate: order.CreatedAt.Format("January 2, 2006"),
		Email:     user.Email,
		Products:  order.Products,
	}

	var buf bytes.Buffer
	if err := receiptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

// formatPrice renders an amount in the smallest currency unit as a
// human-readable string, e.g. 1250 usd -> "$12.50".
func formatPrice(amount int64, currency string) string {
	symbol := "$"
	switch strings.ToLower(currency) {
	case "eur":
		symbol = "€"
	case "gbp":
		symbol = "£"
	}
	return fmt.Sprintf("%s%d.%02d", symbol, amount/100, amount%100)
}
