package console

import (
	"strings"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

// formatAmount rounds to whole units and groups thousands: 1234567.5 → "1,234,568".
func formatAmount(d decimal.Decimal) string {
	s := d.Round(0).String()

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}

func rupiah(d decimal.Decimal) string {
	return "Rp" + formatAmount(d)
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}

func rule(ch string, width int) string {
	return strings.Repeat(ch, width)
}
