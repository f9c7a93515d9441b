// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/your-org/fooddelivery-backend/internal/config"
	"github.com/your-org/fooddelivery-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ReceiptData represents the data passed to the receipt template.
// Money fields are pre-formatted strings so the template stays dumb.
type ReceiptData struct {
	ReceiptNumber string
	ReceiptDate   string
	AppName       string
	Order         *order.Order
	Items         []ReceiptItem
	Subtotal      string
	DeliveryFee   string
	Discount      string
	HasDiscount   bool
	Total         string
}

// ReceiptItem is one formatted order line
type ReceiptItem struct {
	Name      string
	Selection string
	Quantity  int
	UnitPrice string
	Total     string
}

// GenerateReceipt renders a PDF receipt for an order
func (s *Service) GenerateReceipt(ord *order.Order) (*bytes.Buffer, error) {
	data := s.buildReceiptData(ord)

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) buildReceiptData(ord *order.Order) ReceiptData {
	items := make([]ReceiptItem, len(ord.Items))
	for i, item := range ord.Items {
		items[i] = ReceiptItem{
			Name:      item.Name,
			Selection: formatSelection(item),
			Quantity:  item.Quantity,
			UnitPrice: formatMoney(item.UnitPrice),
			Total:     formatMoney(item.TotalPrice),
		}
	}

	return ReceiptData{
		ReceiptNumber: fmt.Sprintf("RCP-%s", ord.OrderNumber),
		ReceiptDate:   time.Now().Format("January 2, 2006"),
		AppName:       s.config.App.Name,
		Order:         ord,
		Items:         items,
		Subtotal:      formatMoney(ord.SubtotalAmount),
		DeliveryFee:   formatMoney(ord.DeliveryFee),
		Discount:      formatMoney(ord.DiscountAmount),
		HasDiscount:   ord.DiscountAmount != 0,
		Total:         formatMoney(ord.TotalAmount),
	}
}

func (s *Service) generateHTML(data ReceiptData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func formatMoney(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

func formatSelection(item order.OrderItem) string {
	var parts []string
	if item.Size != "" {
		parts = append(parts, "Size "+item.Size)
	}
	if item.Toppings != "" {
		parts = append(parts, item.Toppings)
	}
	if item.Spiciness != "" {
		parts = append(parts, item.Spiciness)
	}
	if len(parts) == 0 {
		return ""
	}
	result := parts[0]
	for _, p := range parts[1:] {
		result += ", " + p
	}
	return result
}

// Receipt HTML template
const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .receipt-title {
            font-size: 28px;
            font-weight: bold;
            color: #ea580c;
            margin-bottom: 10px;
        }
        .order-details {
            margin-bottom: 30px;
        }
        .order-details table {
            width: 100%;
        }
        .order-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .order-details .label {
            font-weight: bold;
            width: 150px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 80px;
        }
        .totals {
            float: right;
            width: 300px;
        }
        .totals table {
            width: 100%;
            border-collapse: collapse;
        }
        .totals td {
            padding: 8px;
            border-bottom: 1px solid #eee;
        }
        .totals .label {
            text-align: right;
            font-weight: bold;
        }
        .totals .amount {
            text-align: right;
            width: 100px;
        }
        .total-row {
            font-size: 18px;
            font-weight: bold;
            border-top: 2px solid #333 !important;
        }
        .footer {
            margin-top: 50px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            text-align: center;
            color: #666;
            font-size: 12px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.AppName}}</h1>
            <p>{{.Order.RestaurantName}}</p>
        </div>
        <div style="text-align: right;">
            <div class="receipt-title">RECEIPT</div>
            <p><strong>Receipt #:</strong> {{.ReceiptNumber}}</p>
            <p><strong>Date:</strong> {{.ReceiptDate}}</p>
            <p><strong>Order #:</strong> {{.Order.OrderNumber}}</p>
        </div>
    </div>

    <div class="order-details">
        <table>
            <tr>
                <td class="label">Order Date:</td>
                <td>{{.Order.CreatedAt.Format "January 2, 2006"}}</td>
                <td class="label" style="text-align: right;">Status:</td>
                <td style="text-align: right;">{{.Order.Status}}</td>
            </tr>
            <tr>
                <td class="label">Delivery Address:</td>
                <td>{{.Order.DeliveryAddress}}</td>
                <td class="label" style="text-align: right;">Payment:</td>
                <td style="text-align: right;">{{.Order.PaymentMethod}}</td>
            </tr>
        </table>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Item</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Price</th>
                <th class="total-col">Total</th>
            </tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr>
                <td>
                    <strong>{{.Name}}</strong>
                    {{if .Selection}}<br><small>{{.Selection}}</small>{{end}}
                </td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{.UnitPrice}}</td>
                <td class="total-col">{{.Total}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="totals">
        <table>
            <tr>
                <td class="label">Subtotal:</td>
                <td class="amount">{{.Subtotal}}</td>
            </tr>
            <tr>
                <td class="label">Delivery Fee:</td>
                <td class="amount">{{.DeliveryFee}}</td>
            </tr>
            {{if .HasDiscount}}
            <tr>
                <td class="label">Discount:</td>
                <td class="amount">{{.Discount}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td class="label">Total:</td>
                <td class="amount">{{.Total}}</td>
            </tr>
        </table>
    </div>

    <div style="clear: both;"></div>

    <div class="footer">
        <p>Thank you for your order!</p>
        <p>Bon appetit from {{.Order.RestaurantName}}</p>
    </div>
</body>
</html>
`
