package dispatch

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-payhook/core"
)

type paymentSummary struct {
	Heading       string
	Intro         string
	Reference     string
	Amount        string
	PaidAt        string
	CustomerEmail string
	CustomerName  string
	Phone         string
	Product       string
	ShippingZone  string
	Address       string
	ShippingFee   string
}

var summaryTemplate = template.Must(template.New("payment_summary").Parse(`<html>
<body>
  <h2>{{.Heading}}</h2>
  <p>{{.Intro}}</p>
  <h3>Payment</h3>
  <table>
    <tr><td>Reference</td><td>{{.Reference}}</td></tr>
    <tr><td>Amount</td><td>{{.Amount}}</td></tr>
    <tr><td>Paid at</td><td>{{.PaidAt}}</td></tr>
  </table>
  <h3>Customer</h3>
  <table>
    <tr><td>Name</td><td>{{.CustomerName}}</td></tr>
    <tr><td>Email</td><td>{{.CustomerEmail}}</td></tr>
    <tr><td>Phone</td><td>{{.Phone}}</td></tr>
  </table>
  <h3>Order</h3>
  <table>
    <tr><td>Product</td><td>{{.Product}}</td></tr>
    <tr><td>Shipping zone</td><td>{{.ShippingZone}}</td></tr>
    <tr><td>Address</td><td>{{.Address}}</td></tr>
    <tr><td>Shipping fee</td><td>{{.ShippingFee}}</td></tr>
  </table>
</body>
</html>`))

func buildSummary(event core.PaymentEvent, heading string, intro string) paymentSummary {
	record := event.Data
	paidAt := ""
	if !record.PaidAt.IsZero() {
		paidAt = record.PaidAt.UTC().Format(time.RFC1123)
	}
	if paidAt == "" {
		paidAt = core.DefaultFieldValue
	}
	email := strings.TrimSpace(record.Customer.Email)
	if email == "" {
		email = core.DefaultFieldValue
	}
	return paymentSummary{
		Heading:       heading,
		Intro:         intro,
		Reference:     record.Reference,
		Amount:        core.FormatAmount(record.Amount, record.Currency),
		PaidAt:        paidAt,
		CustomerEmail: email,
		CustomerName:  record.Metadata.Get(FieldCustomerName, core.DefaultFieldValue),
		Phone:         record.Metadata.Get(FieldPhone, core.DefaultFieldValue),
		Product:       record.Metadata.Get(FieldProductTitle, core.DefaultProductTitle),
		ShippingZone:  record.Metadata.Get(FieldShippingZone, core.DefaultFieldValue),
		Address:       record.Metadata.Get(FieldAddress, core.DefaultFieldValue),
		ShippingFee:   record.Metadata.Get(FieldShippingFee, core.DefaultNumericValue),
	}
}

func renderSummary(summary paymentSummary) (string, error) {
	var out strings.Builder
	if err := summaryTemplate.Execute(&out, summary); err != nil {
		return "", fmt.Errorf("dispatch: render payment summary: %w", err)
	}
	return out.String(), nil
}
