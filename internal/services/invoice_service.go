package services

import (
	"os"
	"path/filepath"
	"text/template"

	"github.com/example/cakeshop/internal/models"
)

// InvoiceService renders plain-text invoices after payment confirmation.
// Generation is best effort; a missing invoice only means the download
// endpoint reports not found.
type InvoiceService struct {
	dir  string
	tmpl *template.Template
}

const invoiceTemplate = `CAKE SHOP INVOICE
=================

Invoice Number: {{.OrderNumber}}
Order Date:     {{.CreatedAt.Format "January 2, 2006"}}
Payment Method: {{.PaymentMethod}}
Status:         {{.Status}}

{{if .ShippingAddress -}}
Billing Address:
  {{.ShippingAddress.Name}}
  {{.ShippingAddress.AddressLine1}}
  {{- if .ShippingAddress.AddressLine2}}
  {{.ShippingAddress.AddressLine2}}
  {{- end}}
  {{.ShippingAddress.City}}, {{.ShippingAddress.State}} - {{.ShippingAddress.Pincode}}
  Phone: {{.ShippingAddress.Phone}}

{{end -}}
Ordered Items:
{{range .Items -}}
  {{if and .Variant .Variant.Cake}}{{.Variant.Cake.Title}} ({{.Variant.Weight}} kg){{else}}item{{end}} x{{.Quantity}}  Rs {{.Price.StringFixed 2}}  = Rs {{.TotalPrice.StringFixed 2}}
{{end}}
Subtotal:        Rs {{.Subtotal.StringFixed 2}}
Delivery Charge: Rs {{.DeliveryCharge.StringFixed 2}}
{{- if .CouponDiscount.IsPositive}}
Coupon Discount: - Rs {{.CouponDiscount.StringFixed 2}}
{{- end}}
Total:           Rs {{.TotalAmount.StringFixed 2}}

Thank you for shopping with Cake Shop!
`

func NewInvoiceService(dir string) *InvoiceService {
	return &InvoiceService{
		dir:  dir,
		tmpl: template.Must(template.New("invoice").Parse(invoiceTemplate)),
	}
}

// Generate writes the invoice document for a paid order and returns its path.
func (s *InvoiceService) Generate(order *models.Order) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", err
	}

	path := s.path(order.OrderNumber)
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := s.tmpl.Execute(file, order); err != nil {
		return "", err
	}

	return path, nil
}

// Path returns the invoice location for an order, or ErrInvoiceNotFound when
// it has not been generated.
func (s *InvoiceService) Path(orderNumber string) (string, error) {
	path := s.path(orderNumber)
	if _, err := os.Stat(path); err != nil {
		return "", ErrInvoiceNotFound
	}
	return path, nil
}

func (s *InvoiceService) path(orderNumber string) string {
	return filepath.Join(s.dir, "invoice_"+orderNumber+".txt")
}
