package orders

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"

	"progressgarant/models"
)

// cp1251 maps UTF-8 text to Windows-1251 bytes for the PDF fonts.
// Runes outside the codepage degrade to the replacement byte instead
// of failing the whole receipt.
var cp1251 = encoding.ReplaceUnsupported(charmap.Windows1251.NewEncoder())

func tr(s string) string {
	out, err := cp1251.String(s)
	if err != nil {
		return s
	}
	return out
}

// WriteReceipt renders an order into a printable PDF receipt with a QR code
// carrying the order id, so staff can pull the order up at the counter.
//
// Catalog names are Cyrillic; the core PDF fonts are Latin-1 only, so text
// runs through the cp1251 encoder above.
func WriteReceipt(order models.Order, w io.Writer) error {
	qrPNG, err := qrcode.Encode(order.ID, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, tr("Заказ"))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Номер заказа: %s", order.ID)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Дата: %s", order.Date.Format("02.01.2006 15:04"))))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Покупатель: %s %s", order.OrderData.FirstName, order.OrderData.LastName)))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Статус: %s", order.Status)))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr("Товары"))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	for _, item := range order.Items {
		line := fmt.Sprintf("%s x %d - %.0f руб.", item.Name, item.Quantity, item.Price*float64(item.Quantity))
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Итого: %.0f руб. (%d шт.)", order.TotalPrice, order.TotalItems)))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("order-qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("order-qr", 10, pdf.GetY(), 40, 40, false, opts, 0, "")

	return pdf.Output(w)
}
