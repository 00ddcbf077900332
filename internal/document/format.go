package document

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is the DD.MM.YYYY form printed on quotations.
const DateLayout = "02.01.2006"

var indianEnglish = message.NewPrinter(language.MustParse("en-IN"))

// Money renders an amount with two decimals and en-IN digit grouping. Only
// the whole part goes through the printer; the paise are copied from the
// fixed-point string.
func Money(d decimal.Decimal) string {
	d = d.Round(2)
	_, fraction, _ := strings.Cut(d.Abs().StringFixed(2), ".")
	out := indianEnglish.Sprintf("%d", d.Abs().IntPart()) + "." + fraction
	if d.IsNegative() {
		return "-" + out
	}
	return out
}

// Date renders t as DD.MM.YYYY in loc. A nil loc keeps t's own zone.
func Date(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(DateLayout)
}
