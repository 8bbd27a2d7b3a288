package billing

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// maxGrouped bounds the integer part handed to the printer as an int64.
var maxGrouped = decimal.New(1, 18)

// FormatMoney renders an amount as dollars with thousands separators and two decimals,
// e.g. "$1,250.50".
func FormatMoney(d decimal.Decimal) string {
	rounded := d.Round(2)
	abs := rounded.Abs()
	whole, cents, _ := strings.Cut(abs.StringFixed(2), ".")
	if intPart := abs.Truncate(0); intPart.LessThan(maxGrouped) {
		whole = moneyPrinter.Sprintf("%d", intPart.IntPart())
	}
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}
	return sign + "$" + whole + "." + cents
}
