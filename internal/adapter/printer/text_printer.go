package printer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rl1809/savdo-pos/internal/core/domain"
)

// receiptWidth is the character width of a 58mm thermal roll.
const receiptWidth = 32

var methodLabels = map[domain.PaymentMethod]string{
	domain.PaymentCash:     "Naqd",
	domain.PaymentCard:     "Plastik",
	domain.PaymentTransfer: "Transfer",
}

// TextPrinter renders receipts as monospace text and writes them to the
// print spooler (any io.Writer).
type TextPrinter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTextPrinter(w io.Writer) *TextPrinter {
	return &TextPrinter{w: w}
}

func (p *TextPrinter) Print(_ context.Context, r domain.Receipt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.w, Render(r)); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	return nil
}

// Render produces the full receipt text. Exported so the print preview and
// tests can format without a printer.
func Render(r domain.Receipt) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth) + "\n"

	b.WriteString(center(r.StoreName))
	if r.StoreAddress != "" {
		b.WriteString(center(r.StoreAddress))
	}
	b.WriteString(rule)
	b.WriteString(fmt.Sprintf("Sana: %s\n", r.IssuedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Chek #%d\n", r.Number))
	b.WriteString(fmt.Sprintf("Kassir: %s\n", r.Cashier))
	b.WriteString(rule)
	b.WriteString(row("Mahsulot", "Summa"))
	b.WriteString(rule)

	for _, line := range r.Lines {
		b.WriteString(line.Name + "\n")
		qty := fmt.Sprintf("  %d x %s", line.Qty, FormatMoney(line.UnitPrice))
		b.WriteString(row(qty, FormatMoney(line.LineTotal())))
	}

	b.WriteString(rule)
	b.WriteString(row("Jami:", FormatMoney(r.Subtotal)))
	if r.DiscountAmt > 0 {
		b.WriteString(row("Chegirma:", "-"+FormatMoney(r.DiscountAmt)))
	}
	b.WriteString(rule)
	b.WriteString(row("TOLASH:", FormatMoney(r.Total)+" so'm"))
	b.WriteString(row("To'lov turi:", methodLabels[r.Method]))
	b.WriteString(rule)
	b.WriteString(center("Xaridingiz uchun rahmat!"))
	b.WriteString(center("*** savdoplatform.uz ***"))
	b.WriteString("\n")
	return b.String()
}

// FormatMoney groups so'm amounts by thousands: 16000 -> "16 000".
func FormatMoney(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, " ")
	if neg {
		return "-" + out
	}
	return out
}

func row(left, right string) string {
	pad := receiptWidth - len([]rune(left)) - len([]rune(right))
	if pad < 1 {
		pad = 1
	}
	return left + strings.Repeat(" ", pad) + right + "\n"
}

func center(s string) string {
	pad := (receiptWidth - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}
