package models

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var frenchPrinter = message.NewPrinter(language.French)

// FormatPrice renders a price the way the shop displays it: rounded to the
// unit, French digit grouping, CFA franc suffix.
func FormatPrice(price decimal.Decimal) string {
	return frenchPrinter.Sprintf("%d", price.Round(0).IntPart()) + " FCFA"
}

func FormatDate(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
