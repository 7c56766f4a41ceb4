package funcs

import (
	"text/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var TemplateFuncs = template.FuncMap{
	"formatMoney": FormatMoney,
	"formatTime":  formatTime,
}

var printer = message.NewPrinter(language.English)

// FormatMoney renders an amount with a currency symbol and thousand
// separators, e.g. $1,250,000.50, the way the dashboard displays balances.
func FormatMoney(currency string, amount decimal.Decimal) string {
	value, _ := amount.Round(2).Float64()
	return currency + printer.Sprintf("%.2f", value)
}

func formatTime(t time.Time) string {
	return t.Format("02 Jan 2006 at 15:04")
}
