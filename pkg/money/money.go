package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCents renders minor-unit USD cents as an en-US currency string,
// e.g. 125000 -> "$1,250.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + printer.Sprintf("$%v.%02d", number.Decimal(cents/100), cents%100)
}
